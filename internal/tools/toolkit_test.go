package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/internet-data-toolkit/internal/conf"
	apperrors "github.com/lk2023060901/internet-data-toolkit/internal/pkg/errors"
)

func newDefaultToolkit(t *testing.T) *Toolkit {
	t.Helper()
	k, err := New(conf.Default(), nil)
	require.NoError(t, err)
	return k
}

func TestToolkit_Tools(t *testing.T) {
	k := newDefaultToolkit(t)

	assert.Equal(t, "Internet Data Toolkit", k.Name())
	assert.Equal(t, "A toolkit comprising tools for internet-based operations such as searching, fetching news headlines, and extracting website information.", k.Description())

	tests := []struct {
		name        string
		displayName string
		description string
	}{
		{SearchToolName, "Internet Search Tool", "Retrieve information on a specified topic from the internet."},
		{NewsToolName, "News Headlines Tool", "Retrieve the latest news headlines in a JSON-formatted array of title, link, and source."},
		{ContentToolName, "Website Content Tool", "Fetch website content in plain text returning a JSON-formatted string."},
		{FileExistenceToolName, "File Existence Tool", "Check if a given file path exists."},
	}

	tools := k.Tools()
	require.Len(t, tools, len(tests))
	for i, tt := range tests {
		assert.Equal(t, tt.name, tools[i].Name())
		assert.Equal(t, tt.displayName, tools[i].DisplayName())
		assert.Equal(t, tt.description, tools[i].Description())
		assert.Equal(t, "object", tools[i].Parameters()["type"])

		got, ok := k.Get(tt.name)
		require.True(t, ok)
		assert.Same(t, tools[i], got)
	}

	// callers cannot reorder the registry
	tools[0] = tools[3]
	assert.Equal(t, SearchToolName, k.Tools()[0].Name())
}

func TestToolkit_EnvKeys(t *testing.T) {
	keys := newDefaultToolkit(t).EnvKeys()
	assert.NotNil(t, keys)
	assert.Empty(t, keys)
}

func TestToolkit_Describe(t *testing.T) {
	d := newDefaultToolkit(t).Describe()

	assert.Equal(t, ToolkitName, d.Name)
	assert.NotNil(t, d.EnvKeys)
	require.Len(t, d.Tools, 4)
	assert.Equal(t, NewsToolName, d.Tools[1].Name)
	assert.Equal(t, []string{"limit"}, d.Tools[1].Parameters["required"])
}

func TestToolkit_Invoke(t *testing.T) {
	k := newDefaultToolkit(t)

	_, err := k.Invoke(context.Background(), "weather", `{}`)
	assert.True(t, apperrors.Is(err, apperrors.ErrToolNotFound))

	out, err := k.Invoke(context.Background(), FileExistenceToolName, `{"file_path":"/definitely/not/here"}`)
	require.NoError(t, err)
	assert.Equal(t, "The file /definitely/not/here does not exist.", out)
}

type panickyTool struct{ *FileExistenceTool }

func (panickyTool) Name() string { return "panicky" }

func (panickyTool) Call(context.Context, string) (string, error) {
	panic(errors.New("boom"))
}

func TestToolkit_InvokeRecoversPanic(t *testing.T) {
	k := NewToolkit(nil, panickyTool{NewFileExistenceTool(nil)})

	out, err := k.Invoke(context.Background(), "panicky", "")
	assert.Empty(t, out)
	assert.True(t, apperrors.Is(err, apperrors.ErrInternalServer))
	assert.Contains(t, err.Error(), "boom")
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := conf.Default()
	cfg.Search.Provider = "bing"

	_, err := New(cfg, nil)
	assert.Error(t, err)
}
