package types

import "time"

type ProviderID string

const (
	ProviderSERP    ProviderID = "serp"
	ProviderSearXNG ProviderID = "searxng"
)

// ProviderConfig represents search provider configuration
type ProviderConfig struct {
	ID   ProviderID `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`

	// API settings
	APIHost  string `json:"api_host" yaml:"api_host"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"` // SERP proxy "lang" parameter

	// SearXNG Basic Auth
	BasicAuthUsername string `json:"basic_auth_username,omitempty" yaml:"basic_auth_username,omitempty"`
	BasicAuthPassword string `json:"basic_auth_password,omitempty" yaml:"basic_auth_password,omitempty"`

	// Optional settings
	Timeout   time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"` // default: 30s
	UserAgent string        `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
}

// Validate validates the provider configuration
func (c *ProviderConfig) Validate() error {
	if c.ID == "" {
		return ErrInvalidProviderID
	}
	if c.Name == "" {
		return ErrInvalidProviderName
	}
	if c.APIHost == "" {
		return ErrInvalidAPIHost
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	// Provider-specific validation
	switch c.ID {
	case ProviderSearXNG:
		if c.BasicAuthUsername != "" && c.BasicAuthPassword == "" {
			return ErrMissingBasicAuthPassword
		}
	}

	return nil
}
