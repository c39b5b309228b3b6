package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer writes user-facing messages. Log output goes to stderr through zerolog;
// everything a user is meant to read goes through a Printer.
type Printer struct {
	out io.Writer
	num *message.Printer
}

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, num: message.NewPrinter(language.English)}
}

// Writer returns the destination of the printer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Error prints "✗ message: detail". A nil detail prints the message alone.
func (p *Printer) Error(msg string, detail error) {
	line := crossMark + " " + msg
	if detail != nil {
		line += ": " + detail.Error()
	}
	fmt.Fprintln(p.out, errorStyle.Render(line))
}

// Success prints a line prefixed with ✓
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, successStyle.Render(checkMark+" "+fmt.Sprintf(format, args...)))
}

// Warn prints a highlighted line
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.out, warningStyle.Render(fmt.Sprintf(format, args...)))
}

// Info prints a plain informational line
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.out, infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Field prints "label: value"
func (p *Printer) Field(label, value string) {
	fmt.Fprintf(p.out, "%s %s\n", labelStyle.Render(label+":"), value)
}

// Usage prints a dimmed usage line
func (p *Printer) Usage(usage string) {
	fmt.Fprintln(p.out, dimStyle.Render("Usage: "+usage))
}

// Bytes formats n with thousands separators
func (p *Printer) Bytes(n int64) string {
	return p.num.Sprintf("%d bytes", n)
}

// Number formats n with thousands separators
func (p *Printer) Number(n float64) string {
	return p.num.Sprintf("%.0f", n)
}

// DownloadResult prints the terminal state of a download
func (p *Printer) DownloadResult(res *models.DownloadResult) {
	switch res.Outcome {
	case models.OutcomeDownloaded:
		p.Success("Downloaded %s (%s)", res.Path, p.Bytes(res.Written))
	case models.OutcomeAlreadyExists:
		fmt.Fprintln(p.out, dimStyle.Render(skipMark+" File already exists: "+res.Path))
	default:
		p.Error("Download failed", res.Err)
	}
	if res.CleanupErr != nil {
		p.Warn("Could not delete incomplete file %s: %v", res.Path, res.CleanupErr)
	}
}

// BulkResult prints a per-session summary followed by totals
func (p *Printer) BulkResult(res *models.BulkResult) {
	for _, t := range res.Tokens {
		token := res.SubjectCode + "_" + t.Token.String()
		switch {
		case t.Err != nil:
			p.Error("Could not read listing for "+token, t.Err)
		case t.Matched == 0:
			fmt.Fprintln(p.out, dimStyle.Render(skipMark+" No papers found for "+token))
		default:
			parts := []string{fmt.Sprintf("%d downloaded", t.Downloaded)}
			if t.Skipped > 0 {
				parts = append(parts, fmt.Sprintf("%d skipped", t.Skipped))
			}
			if t.Failed > 0 {
				parts = append(parts, fmt.Sprintf("%d failed", t.Failed))
			}
			p.Field(token, strings.Join(parts, ", "))
		}
	}
	downloaded, skipped, failed := res.Totals()
	p.Success("Done: %d downloaded, %d skipped, %d failed", downloaded, skipped, failed)
}
