package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lk2023060901/internet-data-toolkit/internal/pkg/errors"
	"github.com/lk2023060901/internet-data-toolkit/internal/websearch/provider"
	"github.com/lk2023060901/internet-data-toolkit/internal/websearch/types"
)

func newSearchTool(t *testing.T, handler http.HandlerFunc) *SearchTool {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := provider.NewSERPProvider(&types.ProviderConfig{ID: types.ProviderSERP, Name: "SERP", APIHost: srv.URL})
	require.NoError(t, err)
	return NewSearchTool(p, nil)
}

func TestSearchTool_Results(t *testing.T) {
	var limit string
	tool := newSearchTool(t, func(w http.ResponseWriter, r *http.Request) {
		limit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`[
			{"title": "Go 🚀 Release/Notes", "url": "https://go.dev/doc/devel/release", "description": "Release\nhistory «Go»"},
			{"title": "Effective Go", "url": "https://go.dev/doc/effective_go", "description": "Tips"}
		]`))
	})

	out, err := tool.Call(context.Background(), `{"query": "golang releases?"}`)
	require.NoError(t, err)

	assert.Equal(t, "5", limit, "default limit")
	assert.True(t, strings.HasPrefix(out, "{\n \"query\": \"golang releases?\",\n \"results\": ["), out)

	var got searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "golang releases?", got.Query)
	require.Len(t, got.Results, 2)
	assert.Equal(t, searchItem{
		Title:   "Go  ReleaseNotes",
		Link:    "https://go.dev/doc/devel/release",
		Snippet: "Releasehistory «Go»",
	}, got.Results[0])
}

func TestSearchTool_LimitCapsResults(t *testing.T) {
	tool := newSearchTool(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"title": "one", "url": "https://one.example", "description": "1"},
			{"title": "two", "url": "https://two.example", "description": "2"}
		]`))
	})

	out, err := tool.Call(context.Background(), `{"query": "q", "limit": 1}`)
	require.NoError(t, err)

	var got searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Results, 1)
	assert.Equal(t, "one", got.Results[0].Title)

	out, err = tool.Call(context.Background(), `{"query": "q", "limit": 0}`)
	require.NoError(t, err)
	assert.Equal(t, `Google search returned no results for query "q"`, out)
}

func TestSearchTool_NoResults(t *testing.T) {
	tool := newSearchTool(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[]`))
	})

	out, err := tool.Call(context.Background(), `{"query": " obscure thing? ", "limit": 3}`)
	require.NoError(t, err)
	assert.Equal(t, `Google search returned no results for query " obscure thing? "`, out)
}

func TestSearchTool_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: "500 Internal Server Error",
		},
		{
			name: "not an array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"message":"quota"}`))
			},
			wantErr: "INVALID_RESPONSE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := newSearchTool(t, tt.handler).Call(context.Background(), `{"query":"q","limit":1}`)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(out, "{\n \"error\": "), out)

			var got searchFailure
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, "q", got.Query)
			assert.Contains(t, got.Error, tt.wantErr)
		})
	}
}

func TestSearchTool_InvalidInput(t *testing.T) {
	tool := newSearchTool(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	for _, input := range []string{`{"query":"q","limit":-1}`, `not json`} {
		_, err := tool.Call(context.Background(), input)
		assert.True(t, apperrors.Is(err, apperrors.ErrToolInvalidInput), "input %s", input)
	}
}
