// Package webcontent retrieves the readable text of a web page.
package webcontent

import (
	"context"

	"go.uber.org/zap"

	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/logger"
)

// Reader extracts a page's main text and falls back to the raw body.
type Reader struct {
	fetcher *Fetcher
	logger  *logger.Logger
}

// NewReader creates a Reader. A nil logger discards output.
func NewReader(fetcher *Fetcher, l *logger.Logger) *Reader {
	if fetcher == nil {
		fetcher = NewFetcher(0, "", 0)
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &Reader{fetcher: fetcher, logger: l}
}

// Read returns the extracted main text of rawURL. When extraction yields
// nothing, a second plain GET is issued and its body returned as-is,
// whatever its status. The extraction step never fails the call; only the
// fallback GET can return an error. An empty string with a nil error means
// neither step produced text.
func (r *Reader) Read(ctx context.Context, rawURL string) (string, error) {
	log := r.logger.WithContext(ctx)

	if text := r.extract(ctx, rawURL, log); text != "" {
		return text, nil
	}

	page, err := r.fetcher.Get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	log.Debug("using raw body",
		zap.String("url", rawURL),
		zap.Int("status", page.StatusCode),
		zap.Int("bytes", len(page.Body)))
	return string(page.Body), nil
}

func (r *Reader) extract(ctx context.Context, rawURL string, log *logger.Logger) string {
	page, err := r.fetcher.Get(ctx, rawURL)
	if err != nil {
		log.Debug("extraction fetch failed", zap.String("url", rawURL), zap.Error(err))
		return ""
	}
	if !page.OK() || !isHTML(page.ContentType, page.Body) {
		return ""
	}

	text, err := Extract(page.Body)
	if err != nil {
		log.Debug("extraction failed", zap.String("url", rawURL), zap.Error(err))
		return ""
	}
	return text
}
