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

const defaultLanguage = "EN"

// SERPProvider queries a self-hosted SERP proxy that scrapes Google results.
type SERPProvider struct {
	*BaseProvider
}

// NewSERPProvider creates a new SERP proxy provider
func NewSERPProvider(config *types.ProviderConfig) (Provider, error) {
	return &SERPProvider{BaseProvider: NewBaseProvider(config)}, nil
}

// serpResult is one element of the proxy's top-level JSON array
type serpResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Search executes GET {host}/google/search?lang=..&limit=..&text=..
func (p *SERPProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	startTime := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint(req), nil)
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

	resp, err := p.DoRequest(ctx, httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var items []serpResult
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, p.invalidResponse(err)
	}

	// the proxy does not always honour limit
	if len(items) > req.MaxResults {
		items = items[:req.MaxResults]
	}

	results := make([]*types.SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, &types.SearchResult{
			Title:   item.Title,
			URL:     item.URL,
			Content: item.Description,
		})
	}

	return &types.SearchResponse{
		Query:      req.Query,
		Results:    results,
		TotalCount: len(results),
		Took:       time.Since(startTime).Milliseconds(),
		Provider:   p.GetID(),
	}, nil
}

func (p *SERPProvider) endpoint(req *types.SearchRequest) string {
	lang := req.Language
	if lang == "" {
		lang = p.config.Language
	}
	if lang == "" {
		lang = defaultLanguage
	}

	host := strings.TrimRight(p.config.APIHost, "/")
	return fmt.Sprintf("%s/google/search?lang=%s&limit=%d&text=%s",
		host, url.QueryEscape(lang), req.MaxResults, EscapeQuery(req.NormalizedQuery()))
}

// EscapeQuery percent-encodes every byte except ASCII letters, digits,
// "-_.~" and '/'. Spaces become %20.
func EscapeQuery(q string) string {
	escaped := url.QueryEscape(q)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	return strings.ReplaceAll(escaped, "%2F", "/")
}
