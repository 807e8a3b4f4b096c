package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lk2023060901/internet-data-toolkit/internal/websearch/types"
)

// SearXNGProvider implements the SearXNG search API
type SearXNGProvider struct {
	*BaseProvider
}

// NewSearXNGProvider creates a new SearXNG provider
func NewSearXNGProvider(config *types.ProviderConfig) (Provider, error) {
	base := NewBaseProvider(config)
	return &SearXNGProvider{BaseProvider: base}, nil
}

// searxngResponse represents a SearXNG API response
type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
	Query string `json:"query"`
}

// Search executes a search query using the SearXNG API
func (p *SearXNGProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	startTime := time.Now()

	// Build query parameters
	params := url.Values{}
	params.Set("q", req.NormalizedQuery())
	params.Set("format", "json")
	params.Set("pageno", "1")
	if lang := p.language(req); lang != "" {
		params.Set("language", lang)
	}

	apiURL := fmt.Sprintf("%s/search?%s", strings.TrimRight(p.config.APIHost, "/"), params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "BAD_REQUEST",
			Message:  "Failed to create request",
			Err:      err,
		}
	}

	for k, v := range p.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}

	// Basic Auth (if configured)
	if p.config.BasicAuthUsername != "" && p.config.BasicAuthPassword != "" {
		httpReq.SetBasicAuth(p.config.BasicAuthUsername, p.config.BasicAuthPassword)
	}

	resp, err := p.DoRequest(ctx, httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var searxngResp searxngResponse
	if err := json.NewDecoder(resp.Body).Decode(&searxngResp); err != nil {
		return nil, p.invalidResponse(err)
	}

	// SearXNG has no result-count parameter, so the limit is applied here
	items := searxngResp.Results
	if len(items) > req.MaxResults {
		items = items[:req.MaxResults]
	}

	results := make([]*types.SearchResult, len(items))
	for i, r := range items {
		results[i] = &types.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
		}
	}

	return &types.SearchResponse{
		Query:      req.Query,
		Results:    results,
		TotalCount: len(searxngResp.Results),
		Took:       time.Since(startTime).Milliseconds(),
		Provider:   p.GetID(),
	}, nil
}

// language maps the SERP-style "EN" code to SearXNG's lowercase form.
func (p *SearXNGProvider) language(req *types.SearchRequest) string {
	lang := req.Language
	if lang == "" {
		lang = p.config.Language
	}
	return strings.ToLower(lang)
}
