package types

import "strings"

// SearchRequest represents a search request
type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
	Language   string `json:"language,omitempty"` // overrides ProviderConfig.Language
}

// Validate rejects a negative limit. An empty query is allowed.
func (r *SearchRequest) Validate() error {
	if r.MaxResults < 0 {
		return ErrInvalidLimit
	}
	return nil
}

// NormalizedQuery trims surrounding whitespace and then any trailing '?'.
func (r *SearchRequest) NormalizedQuery() string {
	return strings.TrimRight(strings.TrimSpace(r.Query), "?")
}
