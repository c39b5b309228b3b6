package client

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/nkzzz-xD/EasyPastPapers/internal/config"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
	"github.com/nkzzz-xD/EasyPastPapers/internal/parser"
)

// Client defines the interface for reading the past papers archive
type Client interface {
	// FetchListing downloads and parses an archive page into its links.
	// Server errors, rate limiting and connection failures are retried.
	FetchListing(ctx context.Context, pageURL string) (*models.ListingPage, error)

	// DiscoverDirectory scrapes the home page and every category page
	// to build the subject directory.
	DiscoverDirectory(ctx context.Context) (models.SubjectDirectory, error)

	// HTTPClient returns the underlying client, configured with the connect and read timeouts.
	HTTPClient() *http.Client

	// BaseURL returns the archive root
	BaseURL() string

	// Close releases idle connections.
	Close() error
}

// client implements the Client interface
type client struct {
	httpClient     *http.Client
	baseURL        string
	linkParser     parser.Parser[models.Link]
	categoryParser parser.SingleResultParser[map[string]string]
	subjectParser  parser.SingleResultParser[map[string]string]
	retryPolicy    retrypolicy.RetryPolicy[*page]
}

// NewClient creates a new client from the configured base URL, timeouts and retry budget
func NewClient(cfg *config.Config) Client {
	connectTimeout := cfg.ConnectTimeoutDuration()
	readTimeout := cfg.ReadTimeoutDuration()

	// Clone DefaultTransport to preserve its proxy, pooling and HTTP/2 settings
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	baseTransport.DialContext = dialer.DialContext
	baseTransport.TLSHandshakeTimeout = connectTimeout
	baseTransport.ResponseHeaderTimeout = readTimeout

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}

	// No overall http.Client timeout: a large paper may legitimately take longer than
	// readTimeout to stream. The session transport bounds each read instead.
	httpClient := &http.Client{
		Transport: newSessionTransport(newCompressionTransport(baseTransport), userAgent, readTimeout),
	}

	return &client{
		httpClient:     httpClient,
		baseURL:        cfg.BaseURL,
		linkParser:     parser.NewLinkParser(),
		categoryParser: parser.NewCategoryParser(),
		subjectParser:  parser.NewSubjectParser(),
		retryPolicy:    newRetryPolicy(cfg.MaxRetries),
	}
}

func (c *client) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *client) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections held by the transport.
func (c *client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
