package slides

import (
	"context"
	"strings"

	"github.com/pocketprof/profreplay/internal/core"
	"github.com/pocketprof/profreplay/pkg/log"
)

// Client is the fallback-first rendering boundary: every failure, including a
// missing system renderer or an unsupported deck format, degrades to the
// placeholder slide set.
type Client struct {
	poppler *Poppler
}

var _ core.SlideRenderer = (*Client)(nil)

func NewClient() *Client {
	return NewClientWith(NewPoppler())
}

func NewClientWith(poppler *Poppler) *Client {
	return &Client{poppler: poppler}
}

func (c *Client) Render(ctx context.Context, deck []byte, mimeType string) ([][]byte, error) {
	logger := log.FromCtx(ctx)

	switch {
	case mimeType == "application/pdf":
		pages, err := c.poppler.Render(ctx, deck)
		if err != nil {
			logger.Warn().Err(err).Msg("pdf rendering failed, falling back to placeholder slides")
			return PlaceholderSlides(), nil
		}
		logger.Info().Int("pages", len(pages)).Msg("slide deck rendered")
		return pages, nil
	case strings.Contains(mimeType, "presentation") || strings.Contains(mimeType, "powerpoint"):
		logger.Warn().Str("mime", mimeType).Msg("presentation decks are not rasterized, using placeholder slides")
		return PlaceholderSlides(), nil
	default:
		logger.Warn().Str("mime", mimeType).Msg("unsupported deck type, using placeholder slides")
		return PlaceholderSlides(), nil
	}
}
