package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatJSON},
		{in: "json", want: FormatJSON},
		{in: " Markup ", want: FormatMarkup},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestRenderMarkup(t *testing.T) {
	out := RenderMarkup([]Headline{
		{Title: "First", Link: "https://a", Source: "Daily"},
		{Title: "Second", Link: "https://b"},
	})

	want := "1. **Title**: First\n" +
		"   **Link**: https://a\n" +
		"   **Source**: Daily\n" +
		"\n" +
		"2. **Title**: Second\n" +
		"   **Link**: https://b"
	assert.Equal(t, want, out)
	assert.Empty(t, RenderMarkup(nil))
}

func TestRenderMarkup_ParsesAsOrderedList(t *testing.T) {
	headlines := make([]Headline, 11)
	for i := range headlines {
		headlines[i] = Headline{Title: "t", Link: "l", Source: "s"}
	}
	src := []byte(RenderMarkup(headlines))

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	list, ok := doc.FirstChild().(*ast.List)
	require.True(t, ok, "first block must be a list")
	assert.True(t, list.IsOrdered())
	assert.Equal(t, 1, list.Start)
	assert.Equal(t, len(headlines), list.ChildCount())
	assert.Nil(t, list.NextSibling(), "the whole output is one list")

	var labels []string
	err := ast.Walk(list.FirstChild(), func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if em, ok := n.(*ast.Emphasis); ok && entering && em.Level == 2 {
			if txt, ok := em.FirstChild().(*ast.Text); ok {
				labels = append(labels, string(txt.Segment.Value(src)))
			}
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Title", "Link", "Source"}, labels)
}
