package services

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/nkzzz-xD/EasyPastPapers/internal/config"
	"github.com/spf13/afero"
)

// Transfer tracks one download in flight. Release must be deferred right after
// the handle is created so a failed or interrupted download never leaves a
// truncated file behind. Only the first Release call acts.
type Transfer struct {
	fs        afero.Fs
	path      string
	expected  int64 // -1 when the server sent no Content-Length
	written   int64
	created   bool
	completed bool
	released  bool
}

func newTransfer(fsys afero.Fs, path string, expected int64) *Transfer {
	return &Transfer{fs: fsys, path: path, expected: expected}
}

// Create truncates or creates the target file
func (t *Transfer) Create() (afero.File, error) {
	f, err := t.fs.Create(t.path)
	if err != nil {
		return nil, err
	}
	t.created = true
	return f, nil
}

// Add records n more bytes written to disk
func (t *Transfer) Add(n int) {
	t.written += int64(n)
}

// Written returns the bytes written so far
func (t *Transfer) Written() int64 {
	return t.written
}

// Complete marks the body as fully read and the file as closed
func (t *Transfer) Complete() {
	t.completed = true
}

// Release deletes the target when it is a partial download. With a known length
// a file shorter than expected is partial; with an unknown length any transfer
// that did not complete is.
func (t *Transfer) Release() error {
	if !t.created || t.released {
		return nil
	}
	t.released = true

	info, err := t.fs.Stat(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", t.path, err)
	}

	partial := !t.completed
	if t.expected >= 0 {
		partial = info.Size() < t.expected
	}
	if !partial {
		return nil
	}

	if err := t.fs.Remove(t.path); err != nil {
		return fmt.Errorf("failed to delete partial file %s: %w", t.path, err)
	}
	logger := config.GetLogger()
	logger.Debug().
		Str("path", t.path).
		Int64("written", t.written).
		Int64("expected", t.expected).
		Msg("Deleted partial download")
	return nil
}
