// Package cli wires the command tree, the interactive shell and the services
// that back them.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nkzzz-xD/EasyPastPapers/internal/apperrors"
	"github.com/nkzzz-xD/EasyPastPapers/internal/cache"
	"github.com/nkzzz-xD/EasyPastPapers/internal/client"
	"github.com/nkzzz-xD/EasyPastPapers/internal/config"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
	"github.com/nkzzz-xD/EasyPastPapers/internal/services"
	"github.com/nkzzz-xD/EasyPastPapers/internal/ui"
	"github.com/spf13/afero"
)

// CacheGroup labels the listing page cache in metrics
const CacheGroup = "listing_pages"

var (
	// ErrExit is returned when the user asked to leave the shell
	ErrExit = errors.New("exit requested")

	// ErrCommandFailed is returned by ExecuteArgs when a command failed after
	// its error was already printed
	ErrCommandFailed = errors.New("command failed")
)

// App holds the state shared by every command of a session: the configuration,
// the HTTP client and the listing page cache
type App struct {
	cfg      *config.Config
	client   client.Client
	pages    services.PageCache
	printer  *ui.Printer
	progress *ui.ProgressBar
	prompter services.Prompter
	fs       afero.Fs
	in       io.Reader
	out      io.Writer
	now      func() time.Time
	open     func(path string) error
	inShell  bool
}

// Option customizes an App
type Option func(*App)

// WithFs sets the filesystem downloads are written to
func WithFs(fsys afero.Fs) Option {
	return func(a *App) { a.fs = fsys }
}

// WithIO sets where commands read answers from and write output to
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
	}
}

// WithClock sets the time source
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithOpener replaces the OS file opener used by get --open
func WithOpener(open func(path string) error) Option {
	return func(a *App) { a.open = open }
}

// New creates an App. The page cache lives as long as the App.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{
		cfg:  cfg,
		fs:   afero.NewOsFs(),
		in:   os.Stdin,
		out:  os.Stdout,
		now:  time.Now,
		open: ui.OpenFile,
	}
	for _, opt := range opts {
		opt(a)
	}

	logger := config.GetLogger()
	pages, err := cache.New(cache.ProviderConfig[models.PageKey, *models.ListingPage]{
		Size:  cfg.MaxPageCache,
		Group: CacheGroup,
		OnEvict: func(key models.PageKey, _ *models.ListingPage) {
			logger.Debug().Str("key", key.String()).Msg("Listing page evicted")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page cache: %w", err)
	}

	a.pages = pages
	a.client = client.NewClient(cfg)
	a.printer = ui.NewPrinter(a.out)
	a.progress = ui.NewProgressBar(a.printer)
	a.prompter = ui.NewLinePrompter(a.in, a.out)
	return a, nil
}

// Close releases the cache and idle connections
func (a *App) Close() error {
	return errors.Join(a.pages.Close(), a.client.Close())
}

// Printer returns the printer commands write through
func (a *App) Printer() *ui.Printer {
	return a.printer
}

func (a *App) resolver() *services.Resolver {
	downloader := services.NewPaperDownloader(a.client.HTTPClient(),
		services.WithFs(a.fs),
		services.WithPrompter(a.prompter),
		services.WithProgress(a.progress),
	)
	return services.NewResolver(a.cfg, a.client, downloader, a.pages)
}

// reconnect rebuilds the HTTP client after a timeout or base URL change
func (a *App) reconnect() {
	logger := config.GetLogger()
	if err := a.client.Close(); err != nil {
		logger.Debug().Err(err).Msg("Failed to close previous client")
	}
	a.client = client.NewClient(a.cfg)
}

// RefreshDirectory scrapes the archive for its categories and subjects and saves
// them. A save failure is returned as *apperrors.ErrConfigSave.
func (a *App) RefreshDirectory(ctx context.Context) (models.SubjectDirectory, error) {
	dir, err := a.client.DiscoverDirectory(ctx)
	if err != nil {
		return models.SubjectDirectory{}, err
	}
	a.cfg.SetDirectory(dir, a.now())
	if err := a.cfg.Save(); err != nil {
		return dir, err
	}
	return dir, nil
}

// EnsureDirectory refreshes the subject directory when it was never discovered
// or is older than config.MaxConfigAge. A failed discovery is reported and the
// session continues with whatever directory is on file.
func (a *App) EnsureDirectory(ctx context.Context) error {
	now := a.now()
	if !a.cfg.NeedsRefresh() && !a.cfg.IsStale(now) {
		return nil
	}

	logger := config.GetLogger()
	logger.Info().Bool("missing", a.cfg.NeedsRefresh()).Msg("Refreshing subject directory")

	_, err := a.RefreshDirectory(ctx)
	if err == nil {
		return nil
	}
	var saveErr *apperrors.ErrConfigSave
	if errors.As(err, &saveErr) || errors.Is(err, context.Canceled) {
		return err
	}
	a.printer.Error("Could not read the subject list from "+a.cfg.BaseURL, err)
	return nil
}

func (a *App) subjectCodes() []string {
	return a.cfg.Directory().SubjectCodes()
}
