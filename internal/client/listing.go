package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/nkzzz-xD/EasyPastPapers/internal/apperrors"
	"github.com/nkzzz-xD/EasyPastPapers/internal/config"
	"github.com/nkzzz-xD/EasyPastPapers/internal/metrics"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
	"github.com/nkzzz-xD/EasyPastPapers/internal/parser"
)

// maxPageSize caps how much of an archive page is read into memory
const maxPageSize = 8 << 20

// page is a fetched archive page before parsing
type page struct {
	url         string // final URL after redirects
	contentType string
	body        []byte
}

func newRetryPolicy(maxRetries int) retrypolicy.RetryPolicy[*page] {
	return retrypolicy.NewBuilder[*page]().
		HandleIf(func(_ *page, err error) bool {
			return isRetryable(err)
		}).
		WithBackoff(250*time.Millisecond, 2*time.Second).
		WithMaxRetries(maxRetries).
		ReturnLastFailure().
		Build()
}

// isRetryable reports whether a failed page fetch is worth another attempt.
// Cancellation and client errors such as 404 are final.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *apperrors.ErrHTTPStatus
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return true
}

// FetchListing downloads an archive page and extracts its links in document order
func (c *client) FetchListing(ctx context.Context, pageURL string) (*models.ListingPage, error) {
	logger := config.GetLogger()

	p, err := c.fetchPage(ctx, pageURL)
	if err != nil {
		metrics.ListingFetchesTotal.WithLabelValues("error").Inc()
		logger.Debug().Err(err).Str("url", pageURL).Msg("Listing fetch failed")
		return nil, err
	}
	metrics.ListingFetchesTotal.WithLabelValues("success").Inc()

	links, err := parsePage(c.linkParser, p)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	logger.Debug().Str("url", p.url).Int("links", len(links)).Msg("Fetched listing page")
	return &models.ListingPage{URL: p.url, Links: links}, nil
}

// fetchPage GETs pageURL with the retry policy applied
func (c *client) fetchPage(ctx context.Context, pageURL string) (*page, error) {
	logger := config.GetLogger()
	attempt := 0
	return failsafe.With(c.retryPolicy).WithContext(ctx).Get(func() (*page, error) {
		attempt++
		if attempt > 1 {
			logger.Debug().Str("url", pageURL).Int("attempt", attempt).Msg("Retrying page fetch")
		}
		return c.fetchPageOnce(ctx, pageURL)
	})
}

func (c *client) fetchPageOnce(ctx context.Context, pageURL string) (*page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", pageURL, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.ErrHTTPStatus{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", pageURL, err)
	}

	return &page{
		url:         resp.Request.URL.String(),
		contentType: resp.Header.Get("Content-Type"),
		body:        body,
	}, nil
}

// parsePage converts the page to UTF-8 and hands it to p
func parsePage[T any](p parser.Parser[T], pg *page) ([]T, error) {
	reader, err := parser.NewUTF8Reader(bytes.NewReader(pg.body), pg.contentType)
	if err != nil {
		return nil, err
	}
	return p.ParseHtml(reader)
}

// parseSinglePage is parsePage for parsers producing one value
func parseSinglePage[T any](p parser.SingleResultParser[T], pg *page) (T, error) {
	reader, err := parser.NewUTF8Reader(bytes.NewReader(pg.body), pg.contentType)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.ParseHtml(reader)
}
