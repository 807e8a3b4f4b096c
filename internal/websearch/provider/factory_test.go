package provider

import (
	"context"
	"fmt"
	"testing"

	"github.com/lk2023060901/internet-data-toolkit/internal/websearch/types"

	"github.com/stretchr/testify/assert"
)

func TestNewFactory(t *testing.T) {
	factory := NewFactory()
	assert.NotNil(t, factory)

	assert.Equal(t, []types.ProviderID{types.ProviderSearXNG, types.ProviderSERP}, factory.ListProviders())
}

func TestFactory_Create(t *testing.T) {
	factory := NewFactory()

	tests := []struct {
		name     string
		config   *types.ProviderConfig
		wantType string
		wantErr  error
	}{
		{
			name: "create serp provider",
			config: &types.ProviderConfig{
				ID:      types.ProviderSERP,
				Name:    "SERP",
				APIHost: "http://192.168.8.225:7000",
			},
			wantType: "*provider.SERPProvider",
		},
		{
			name: "create searxng provider",
			config: &types.ProviderConfig{
				ID:      types.ProviderSearXNG,
				Name:    "SearXNG",
				APIHost: "https://search.example.com",
			},
			wantType: "*provider.SearXNGProvider",
		},
		{
			name: "invalid config",
			config: &types.ProviderConfig{
				ID:   types.ProviderSERP,
				Name: "SERP",
				// Missing APIHost
			},
			wantErr: types.ErrInvalidAPIHost,
		},
		{
			name: "unknown provider",
			config: &types.ProviderConfig{
				ID:      "tavily",
				Name:    "Tavily",
				APIHost: "https://api.tavily.com",
			},
			wantErr: types.ErrProviderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := factory.Create(tt.config)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, provider)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantType, typeName(provider))
				assert.Equal(t, tt.config.ID, provider.GetID())
			}
		})
	}
}

// mockProvider is a mock implementation for testing
type mockProvider struct {
	*BaseProvider
}

func (m *mockProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	return &types.SearchResponse{
		Results:    []*types.SearchResult{},
		TotalCount: 0,
	}, nil
}

func TestFactory_Register(t *testing.T) {
	factory := NewFactory()

	// Register a custom provider
	customID := types.ProviderID("custom")
	constructor := func(config *types.ProviderConfig) (Provider, error) {
		return &mockProvider{
			BaseProvider: NewBaseProvider(config),
		}, nil
	}

	factory.Register(customID, constructor)

	providers := factory.ListProviders()
	assert.Contains(t, providers, customID)

	p, err := factory.Create(&types.ProviderConfig{ID: customID, Name: "Custom", APIHost: "http://x"})
	assert.NoError(t, err)
	assert.Equal(t, "Custom", p.GetName())
}

func typeName(v interface{}) string {
	return fmt.Sprintf("%T", v)
}
