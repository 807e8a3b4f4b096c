package tools

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/logger"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/textclean"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/validator"
	"github.com/lk2023060901/internet-data-toolkit/internal/websearch/provider"
	"github.com/lk2023060901/internet-data-toolkit/internal/websearch/types"
)

const (
	SearchToolName     = "internet_search"
	DefaultSearchLimit = 5
)

var _ Tool = (*SearchTool)(nil)

// SearchTool runs a web search through a websearch provider.
type SearchTool struct {
	provider provider.Provider
	logger   *logger.Logger
}

func NewSearchTool(p provider.Provider, l *logger.Logger) *SearchTool {
	if l == nil {
		l = logger.NewNop()
	}
	return &SearchTool{provider: p, logger: l}
}

type searchInput struct {
	Query string `json:"query"`
	Limit *int   `json:"limit" validate:"omitempty,gte=0"`
}

type searchItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type searchOutput struct {
	Query   string       `json:"query"`
	Results []searchItem `json:"results"`
}

type searchFailure struct {
	Error string `json:"error"`
	Query string `json:"query"`
}

func (t *SearchTool) Name() string        { return SearchToolName }
func (t *SearchTool) DisplayName() string { return "Internet Search Tool" }

func (t *SearchTool) Description() string {
	return "Retrieve information on a specified topic from the internet."
}

func (t *SearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The specific topic or subject to be researched on the internet.",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"minimum":     0,
				"default":     DefaultSearchLimit,
				"description": "The maximum number of results to be fetched in one cycle. Defaults to 5.",
			},
		},
		"required": []string{"query"},
	}
}

// Call returns the indented {query, results} JSON, a "no results" sentence,
// or an indented {error, query} object when the search fails. Every provider
// caps results at limit, so limit 0 always yields the "no results" sentence.
func (t *SearchTool) Call(ctx context.Context, input string) (string, error) {
	var in searchInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	if err := validator.Struct(&in); err != nil {
		return "", err
	}
	limit := DefaultSearchLimit
	if in.Limit != nil {
		limit = *in.Limit
	}

	ctx, c := beginCall(ctx, t.logger, t.Name())

	resp, err := t.provider.Search(ctx, &types.SearchRequest{Query: in.Query, MaxResults: limit})
	if err != nil {
		c.failed(err, zap.String("query", in.Query))
		return jsonIndent(searchFailure{Error: err.Error(), Query: in.Query}), nil
	}

	items := make([]searchItem, 0, len(resp.Results))
	for _, r := range resp.Results {
		items = append(items, searchItem{
			Title:   textclean.RemoveUnwanted(r.Title),
			Link:    r.URL,
			Snippet: textclean.RemoveUnwanted(r.Content),
		})
	}

	if len(items) == 0 {
		c.done("empty", zap.String("query", in.Query))
		return fmt.Sprintf("Google search returned no results for query \"%s\"", in.Query), nil
	}

	c.done("ok", zap.Int("results", len(items)))
	return jsonIndent(searchOutput{Query: in.Query, Results: items}), nil
}
