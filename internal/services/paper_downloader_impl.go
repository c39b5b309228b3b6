package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/nkzzz-xD/EasyPastPapers/internal/apperrors"
	"github.com/nkzzz-xD/EasyPastPapers/internal/config"
	"github.com/nkzzz-xD/EasyPastPapers/internal/metrics"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
	"github.com/spf13/afero"
)

const (
	chunkSize        = 8 << 10
	progressBytes    = 64 << 10
	progressInterval = 500 * time.Millisecond
)

// DefaultPaperDownloader streams files from the archive onto an afero filesystem
type DefaultPaperDownloader struct {
	httpClient *http.Client
	fs         afero.Fs
	prompter   Prompter
	progress   ProgressReporter
	report     ErrorReporter
	now        func() time.Time
}

// DownloaderOption customizes a DefaultPaperDownloader
type DownloaderOption func(*DefaultPaperDownloader)

// WithFs replaces the OS filesystem
func WithFs(fsys afero.Fs) DownloaderOption {
	return func(d *DefaultPaperDownloader) { d.fs = fsys }
}

// WithPrompter sets who answers overwrite questions. Without one, Ask declines.
func WithPrompter(p Prompter) DownloaderOption {
	return func(d *DefaultPaperDownloader) { d.prompter = p }
}

// WithProgress sets the progress sink
func WithProgress(p ProgressReporter) DownloaderOption {
	return func(d *DefaultPaperDownloader) { d.progress = p }
}

// WithErrorReporter replaces Sentry as the destination of unexpected errors
func WithErrorReporter(r ErrorReporter) DownloaderOption {
	return func(d *DefaultPaperDownloader) { d.report = r }
}

// WithClock sets the time source used to throttle progress updates
func WithClock(now func() time.Time) DownloaderOption {
	return func(d *DefaultPaperDownloader) { d.now = now }
}

// NewPaperDownloader creates a downloader using httpClient, which carries the
// configured connect and read timeouts
func NewPaperDownloader(httpClient *http.Client, opts ...DownloaderOption) PaperDownloader {
	d := &DefaultPaperDownloader{
		httpClient: httpClient,
		fs:         afero.NewOsFs(),
		prompter:   AlwaysConfirm(false),
		progress:   NopProgress(),
		report:     func(err error) { sentry.CaptureException(err) },
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download implements PaperDownloader
func (d *DefaultPaperDownloader) Download(ctx context.Context, req models.DownloadRequest) *models.DownloadResult {
	logger := config.GetLogger()
	path := filepath.Join(req.Folder, req.FileName)
	result := &models.DownloadResult{Path: path, Expected: -1}

	exists, err := d.exists(path)
	if err != nil {
		return d.finish(req, d.fail(result, models.ErrorKindFileSystem, err))
	}
	if exists && req.Policy == models.OverwriteSkipExisting {
		logger.Debug().Str("path", path).Msg("File exists, skipping")
		result.Outcome = models.OutcomeAlreadyExists
		return d.finish(req, result)
	}

	logger.Info().Str("url", req.URL).Str("path", path).Msg("Downloading paper")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return d.finish(req, d.fail(result, models.ErrorKindOther, fmt.Errorf("failed to create request: %w", err)))
	}
	// Content-Length must describe the bytes we write
	httpReq.Header.Set("Accept-Encoding", "identity")

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return d.finish(req, d.fail(result, models.ErrorKindNetwork, fmt.Errorf("failed to download %s: %w", req.URL, err)))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return d.finish(req, d.fail(result, models.ErrorKindHTTPStatus, &apperrors.ErrHTTPStatus{URL: req.URL, StatusCode: resp.StatusCode}))
	}
	result.Expected = resp.ContentLength

	if exists && req.Policy == models.OverwriteAsk {
		ok, err := d.prompter.Confirm(ctx, fmt.Sprintf("File at %s already exists. Overwrite?", path))
		if err != nil {
			return d.finish(req, d.fail(result, models.ErrorKindOther, fmt.Errorf("failed to read answer: %w", err)))
		}
		if !ok {
			result.Outcome = models.OutcomeAlreadyExists
			return d.finish(req, result)
		}
	}

	if err := d.fs.MkdirAll(req.Folder, 0o755); err != nil {
		return d.finish(req, d.fail(result, models.ErrorKindFileSystem, fmt.Errorf("failed to create %s: %w", req.Folder, err)))
	}

	transfer := newTransfer(d.fs, path, result.Expected)
	defer func() { _ = transfer.Release() }()

	d.progress.Start(req.FileName, result.Expected)
	kind, err := d.stream(transfer, resp.Body, result.Expected)
	result.Written = transfer.Written()
	metrics.DownloadedBytesTotal.Add(float64(result.Written))
	if err == nil {
		transfer.Complete()
	}
	// released before the result is reported so CleanupErr is printed with it
	if relErr := transfer.Release(); relErr != nil {
		logger.Warn().Err(relErr).Str("path", path).Msg("Failed to clean up partial download")
		result.CleanupErr = relErr
	}
	if err != nil {
		return d.finish(req, d.fail(result, kind, err))
	}

	result.Outcome = models.OutcomeDownloaded
	logger.Info().Str("path", path).Int64("bytes", result.Written).Msg("Paper downloaded")
	return d.finish(req, result)
}

// stream copies body into the transfer's file in fixed-size chunks
func (d *DefaultPaperDownloader) stream(t *Transfer, body io.Reader, expected int64) (models.ErrorKind, error) {
	f, err := t.Create()
	if err != nil {
		return models.ErrorKindFileSystem, fmt.Errorf("failed to create file: %w", err)
	}

	throttle := newProgressThrottle(d.now)
	buf := make([]byte, chunkSize)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := f.Write(buf[:n]); err != nil {
				_ = f.Close()
				return models.ErrorKindFileSystem, fmt.Errorf("failed to write file: %w", err)
			}
			t.Add(n)
			if throttle.observe(n) {
				d.progress.Update(t.Written(), expected, percent(t.Written(), expected))
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			_ = f.Close()
			return models.ErrorKindNetwork, fmt.Errorf("download interrupted: %w", readErr)
		}
	}

	if err := f.Close(); err != nil {
		return models.ErrorKindFileSystem, fmt.Errorf("failed to close file: %w", err)
	}
	if expected >= 0 && t.Written() < expected {
		return models.ErrorKindNetwork, fmt.Errorf("download incomplete: got %d of %d bytes: %w", t.Written(), expected, io.ErrUnexpectedEOF)
	}
	d.progress.Update(t.Written(), expected, percent(t.Written(), expected))
	return models.ErrorKindNone, nil
}

func (d *DefaultPaperDownloader) exists(path string) (bool, error) {
	_, err := d.fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (d *DefaultPaperDownloader) fail(result *models.DownloadResult, kind models.ErrorKind, err error) *models.DownloadResult {
	result.Outcome = models.OutcomeFailed
	result.ErrKind = kind
	result.Err = err
	if kind == models.ErrorKindOther && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		d.report(err)
	}
	return result
}

// finish records metrics and notifies the progress sink. Quiet failures are
// guesses that did not pan out and are not counted.
func (d *DefaultPaperDownloader) finish(req models.DownloadRequest, result *models.DownloadResult) *models.DownloadResult {
	if req.Quiet && result.Outcome == models.OutcomeFailed {
		d.progress.Clear()
		return result
	}
	metrics.PaperDownloadsTotal.WithLabelValues(result.Outcome.String()).Inc()
	d.progress.Finish(result)
	return result
}

func percent(written, expected int64) int {
	if expected <= 0 {
		return 0
	}
	p := int(written * 100 / expected)
	if p > 100 {
		return 100
	}
	return p
}

// progressThrottle fires after 64 KiB of new data or half a second, whichever comes first
type progressThrottle struct {
	now     func() time.Time
	last    time.Time
	pending int64
}

func newProgressThrottle(now func() time.Time) *progressThrottle {
	return &progressThrottle{now: now, last: now()}
}

func (p *progressThrottle) observe(n int) bool {
	p.pending += int64(n)
	t := p.now()
	if p.pending < progressBytes && t.Sub(p.last) < progressInterval {
		return false
	}
	p.pending = 0
	p.last = t
	return true
}
