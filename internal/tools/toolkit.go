package tools

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lk2023060901/internet-data-toolkit/internal/conf"
	"github.com/lk2023060901/internet-data-toolkit/internal/news"
	apperrors "github.com/lk2023060901/internet-data-toolkit/internal/pkg/errors"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/logger"
	"github.com/lk2023060901/internet-data-toolkit/internal/webcontent"
	"github.com/lk2023060901/internet-data-toolkit/internal/websearch/provider"
	"github.com/lk2023060901/internet-data-toolkit/internal/websearch/types"
)

const (
	ToolkitName        = "Internet Data Toolkit"
	ToolkitDescription = "A toolkit comprising tools for internet-based operations such as searching, fetching news headlines, and extracting website information."
)

// Toolkit is the registration surface handed to the host.
type Toolkit struct {
	tools  []Tool
	byName map[string]Tool
	logger *logger.Logger
}

// Descriptor is the host-facing summary of the toolkit.
type Descriptor struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	EnvKeys     []string     `json:"env_keys"`
	Tools       []Definition `json:"tools"`
}

// NewToolkit registers tools in the given order. A later tool with a
// duplicate name replaces the earlier lookup entry.
func NewToolkit(l *logger.Logger, tools ...Tool) *Toolkit {
	if l == nil {
		l = logger.NewNop()
	}
	k := &Toolkit{
		tools:  make([]Tool, 0, len(tools)),
		byName: make(map[string]Tool, len(tools)),
		logger: l,
	}
	for _, t := range tools {
		k.tools = append(k.tools, t)
		k.byName[t.Name()] = t
	}
	return k
}

// New builds the toolkit from configuration: search, news, content and
// file existence, in that order.
func New(cfg *conf.Config, l *logger.Logger) (*Toolkit, error) {
	if l == nil {
		l = logger.NewNop()
	}

	searchProvider, err := provider.NewFactory().Create(&types.ProviderConfig{
		ID:                types.ProviderID(cfg.Search.Provider),
		Name:              cfg.Search.Provider,
		APIHost:           cfg.Search.BaseURL,
		Language:          cfg.Search.Language,
		BasicAuthUsername: cfg.Search.Username,
		BasicAuthPassword: cfg.Search.Password,
		Timeout:           cfg.Search.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create search provider: %w", err)
	}

	newsClient := news.NewClient(news.Config{
		BaseURL:            cfg.News.BaseURL,
		Timeout:            cfg.News.Timeout,
		Retry:              cfg.News.RetryPolicy(),
		InsecureSkipVerify: cfg.News.InsecureSkipVerify,
	}, news.WithLogger(l.Named("news")))

	reader := webcontent.NewReader(
		webcontent.NewFetcher(cfg.Content.Timeout, cfg.Content.UserAgent, cfg.Content.MaxBodyBytes),
		l.Named("webcontent"),
	)

	toolLogger := l.Named("tools")
	k := NewToolkit(l,
		NewSearchTool(searchProvider, toolLogger),
		NewNewsTool(newsClient, NewsOptions{
			IncludeSource: cfg.News.IncludeSource,
			CleanTitles:   cfg.News.CleanTitles,
		}, toolLogger),
		NewContentTool(reader, toolLogger),
		NewFileExistenceTool(toolLogger),
	)

	l.Info("toolkit ready",
		zap.String("search_provider", cfg.Search.Provider),
		zap.Int("tools", len(k.tools)))
	return k, nil
}

func (k *Toolkit) Name() string        { return ToolkitName }
func (k *Toolkit) Description() string { return ToolkitDescription }

// Tools returns the tools in registration order.
func (k *Toolkit) Tools() []Tool {
	out := make([]Tool, len(k.tools))
	copy(out, k.tools)
	return out
}

// EnvKeys lists required environment variables. None of the tools need credentials.
func (k *Toolkit) EnvKeys() []string {
	return []string{}
}

// Get looks a tool up by name.
func (k *Toolkit) Get(name string) (Tool, bool) {
	t, ok := k.byName[name]
	return t, ok
}

// Definitions returns one Definition per tool in registration order.
func (k *Toolkit) Definitions() []Definition {
	defs := make([]Definition, 0, len(k.tools))
	for _, t := range k.tools {
		defs = append(defs, DefinitionOf(t))
	}
	return defs
}

// Describe returns the toolkit summary.
func (k *Toolkit) Describe() Descriptor {
	return Descriptor{
		Name:        k.Name(),
		Description: k.Description(),
		EnvKeys:     k.EnvKeys(),
		Tools:       k.Definitions(),
	}
}

// Invoke calls the named tool. A panicking tool is reported as an internal error.
func (k *Toolkit) Invoke(ctx context.Context, name, input string) (output string, err error) {
	t, ok := k.Get(name)
	if !ok {
		return "", apperrors.NewToolNotFoundError(name)
	}

	defer func() {
		if r := recover(); r != nil {
			k.logger.Error("tool panicked", zap.String("tool", name), zap.Any("panic", r), zap.Stack("stack"))
			output, err = "", apperrors.Wrap(fmt.Errorf("tool %s panicked: %v", name, r), apperrors.ErrInternalServer)
		}
	}()
	return t.Call(ctx, input)
}
