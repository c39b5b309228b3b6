package services

import (
	"context"

	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
)

// PaperDownloader defines the interface for streaming archive files to disk
type PaperDownloader interface {
	// Download fetches req.URL into req.Folder/req.FileName. It never returns an error:
	// every failure is reported through the result's Outcome, ErrKind and Err.
	Download(ctx context.Context, req models.DownloadRequest) *models.DownloadResult
}

// Prompter asks the user a yes/no question and blocks until answered or ctx is done
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ProgressReporter receives the progress of a single download
type ProgressReporter interface {
	// Start is called once the response headers arrived. expected is -1 when unknown.
	Start(fileName string, expected int64)
	// Update is called at most every 64 KiB or half a second
	Update(written, expected int64, percent int)
	// Finish is called with the terminal result
	Finish(result *models.DownloadResult)
	// Clear removes any progress output without reporting a result
	Clear()
}

// ErrorReporter forwards unexpected errors to an external tracker
type ErrorReporter func(err error)

// nopProgress discards progress events
type nopProgress struct{}

func (nopProgress) Start(string, int64) {}
func (nopProgress) Update(int64, int64, int) {}
func (nopProgress) Finish(*models.DownloadResult) {}
func (nopProgress) Clear() {}

// NopProgress returns a reporter that ignores every event
func NopProgress() ProgressReporter {
	return nopProgress{}
}

// AlwaysConfirm is a Prompter answering every question with answer
type AlwaysConfirm bool

// Confirm implements Prompter
func (a AlwaysConfirm) Confirm(context.Context, string) (bool, error) {
	return bool(a), nil
}
