package client

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"
)

// sessionTransport sets the User-Agent and bounds every body read by the read timeout.
// When a read stalls longer than the timeout the request context is cancelled with
// ErrReadTimeout, which unblocks the read.
type sessionTransport struct {
	transport   http.RoundTripper
	userAgent   string
	readTimeout time.Duration
}

func newSessionTransport(base http.RoundTripper, userAgent string, readTimeout time.Duration) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &sessionTransport{transport: base, userAgent: userAgent, readTimeout: readTimeout}
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithCancelCause(req.Context())
	req = cloneRequest(req).WithContext(ctx)
	if req.Header.Get("User-Agent") == "" && t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		cancel(nil)
		return nil, err
	}
	if resp.Body == nil || resp.Body == http.NoBody || t.readTimeout <= 0 {
		resp.Body = &cancelOnClose{ReadCloser: bodyOrEmpty(resp.Body), cancel: cancel}
		return resp, nil
	}

	resp.Body = newIdleTimeoutBody(ctx, resp.Body, t.readTimeout, cancel)
	return resp, nil
}

func bodyOrEmpty(rc io.ReadCloser) io.ReadCloser {
	if rc == nil {
		return http.NoBody
	}
	return rc
}

// cancelOnClose releases the request context once the body is closed
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelCauseFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel(nil)
	return err
}

// idleTimeoutBody arms a timer around every Read. The timer is idle between reads,
// so time spent by the caller writing to disk does not count.
type idleTimeoutBody struct {
	ctx     context.Context
	body    io.ReadCloser
	timeout time.Duration
	cancel  context.CancelCauseFunc

	mu    sync.Mutex
	timer *time.Timer
}

func newIdleTimeoutBody(ctx context.Context, body io.ReadCloser, timeout time.Duration, cancel context.CancelCauseFunc) *idleTimeoutBody {
	b := &idleTimeoutBody{ctx: ctx, body: body, timeout: timeout, cancel: cancel}
	b.timer = time.AfterFunc(timeout, func() { cancel(ErrReadTimeout) })
	b.timer.Stop()
	return b
}

func (b *idleTimeoutBody) Read(p []byte) (int, error) {
	b.mu.Lock()
	b.timer.Reset(b.timeout)
	b.mu.Unlock()

	n, err := b.body.Read(p)

	b.mu.Lock()
	b.timer.Stop()
	b.mu.Unlock()

	if err != nil && err != io.EOF {
		if cause := context.Cause(b.ctx); cause != nil {
			return n, cause
		}
	}
	return n, err
}

func (b *idleTimeoutBody) Close() error {
	b.mu.Lock()
	b.timer.Stop()
	b.mu.Unlock()

	err := b.body.Close()
	b.cancel(nil)
	return err
}
