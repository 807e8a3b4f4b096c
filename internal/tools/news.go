package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/lk2023060901/internet-data-toolkit/internal/news"
	apperrors "github.com/lk2023060901/internet-data-toolkit/internal/pkg/errors"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/logger"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/textclean"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/validator"
)

const (
	NewsToolName     = "news_headlines"
	DefaultNewsLimit = 8
	noNewsFound      = "No news found."
)

var _ Tool = (*NewsTool)(nil)

// NewsOptions toggles the optional post-processing of headlines.
type NewsOptions struct {
	IncludeSource bool
	CleanTitles   bool
}

// NewsTool returns the latest headlines from the news aggregator.
type NewsTool struct {
	client *news.Client
	opts   NewsOptions
	logger *logger.Logger
}

func NewNewsTool(client *news.Client, opts NewsOptions, l *logger.Logger) *NewsTool {
	if l == nil {
		l = logger.NewNop()
	}
	return &NewsTool{client: client, opts: opts, logger: l}
}

type newsInput struct {
	Limit  *int   `json:"limit" validate:"omitempty,gte=0"`
	Tag    string `json:"tag"`
	Format string `json:"format"`
}

type newsFailure struct {
	Error string `json:"error"`
}

func (t *NewsTool) Name() string        { return NewsToolName }
func (t *NewsTool) DisplayName() string { return "News Headlines Tool" }

func (t *NewsTool) Description() string {
	return "Retrieve the latest news headlines in a JSON-formatted array of title, link, and source."
}

func (t *NewsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"limit": map[string]interface{}{
				"type":        "integer",
				"minimum":     0,
				"default":     DefaultNewsLimit,
				"description": "The maximum number of news headlines to retrieve in one cycle. Defaults to 8.",
			},
			"tag": map[string]interface{}{
				"type":        "string",
				"default":     news.DefaultTag,
				"description": "The tag representing the type of news to fetch.",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"enum":        []string{string(news.FormatJSON), string(news.FormatMarkup)},
				"default":     string(news.FormatJSON),
				"description": "Output format: a JSON array or a numbered markup list.",
			},
		},
		"required": []string{"limit"},
	}
}

// Call returns the headlines as indented JSON or a markup list, the sentence
// "No news found." when there are none, or an indented {error} object once
// the retries are exhausted.
func (t *NewsTool) Call(ctx context.Context, input string) (string, error) {
	var in newsInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	if err := validator.Struct(&in); err != nil {
		return "", err
	}
	limit := DefaultNewsLimit
	if in.Limit != nil {
		limit = *in.Limit
	}
	format, err := news.ParseFormat(in.Format)
	if err != nil {
		return "", apperrors.NewInvalidInputError(err, "format")
	}

	ctx, c := beginCall(ctx, t.logger, t.Name())

	headlines, err := t.client.Latest(ctx, in.Tag, limit)
	if err != nil {
		c.failed(err, zap.String("tag", in.Tag))
		return jsonIndent(newsFailure{Error: err.Error()}), nil
	}

	for i := range headlines {
		if t.opts.CleanTitles {
			headlines[i].Title = textclean.RemoveUnwanted(headlines[i].Title)
		}
		if !t.opts.IncludeSource {
			headlines[i].Source = ""
		}
	}

	if len(headlines) == 0 {
		c.done("empty")
		return noNewsFound, nil
	}

	c.done("ok", zap.Int("headlines", len(headlines)), zap.String("format", string(format)))
	if format == news.FormatMarkup {
		return news.RenderMarkup(headlines), nil
	}
	return jsonIndent(headlines), nil
}
