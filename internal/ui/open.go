package ui

import (
	"io"

	"github.com/pkg/browser"
)

func init() {
	// silence xdg-open and friends
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// OpenFile opens path with the operating system's default handler
func OpenFile(path string) error {
	return browser.OpenFile(path)
}
