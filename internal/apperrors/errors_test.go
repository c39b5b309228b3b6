// Package apperrors tests verify the custom error types, their Error()
// messages, Is() matching semantics, constructor helpers, and compatibility
// with errors.Is() including through fmt.Errorf wrapping.
package apperrors

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// ErrInvalidPaperCode
// ---------------------------------------------------------------------------

func TestErrInvalidPaperCode_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *ErrInvalidPaperCode
		expected string
	}{
		{
			name:     "format with code",
			err:      NewInvalidPaperCodeError("abc", KindInvalidFormat, ""),
			expected: `invalid paper code format "abc"`,
		},
		{
			name:     "with detail",
			err:      NewInvalidPaperCodeError("0452_s20_qp", KindMissingPaperNumber, "qp"),
			expected: `paper number is required for this paper type "0452_s20_qp": qp`,
		},
		{
			name:     "empty code",
			err:      &ErrInvalidPaperCode{Kind: KindIllegalYearRange},
			expected: "year range is only allowed for syllabus papers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrInvalidPaperCode_Is(t *testing.T) {
	t.Parallel()
	err := NewInvalidPaperCodeError("0620_y20_qp_1", KindSpecimenTypeMismatch, "")

	t.Run("matches same kind sentinel", func(t *testing.T) {
		if !errors.Is(err, ErrSpecimenTypeMismatch) {
			t.Error("expected errors.Is to match ErrSpecimenTypeMismatch")
		}
	})

	t.Run("does not match other kind sentinel", func(t *testing.T) {
		if errors.Is(err, ErrNonSpecimenTypeMismatch) {
			t.Error("expected errors.Is not to match ErrNonSpecimenTypeMismatch")
		}
	})

	t.Run("matches any-kind target", func(t *testing.T) {
		if !errors.Is(err, &ErrInvalidPaperCode{}) {
			t.Error("expected errors.Is to match an any-kind *ErrInvalidPaperCode")
		}
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("get: %w", err)
		if !errors.Is(wrapped, ErrSpecimenTypeMismatch) {
			t.Error("expected errors.Is to match through fmt.Errorf wrapping")
		}
	})

	t.Run("does not match unrelated error type", func(t *testing.T) {
		if errors.Is(err, &ErrInvalidRange{}) {
			t.Error("expected errors.Is not to match *ErrInvalidRange")
		}
	})
}

func TestParseErrorKind_StringsAreDistinct(t *testing.T) {
	t.Parallel()
	seen := map[string]ParseErrorKind{}
	for k := KindInvalidFormat; k <= KindIllegalYearRange; k++ {
		msg := k.String()
		if prev, ok := seen[msg]; ok {
			t.Errorf("kinds %d and %d share message %q", prev, k, msg)
		}
		seen[msg] = k
	}
}

// ---------------------------------------------------------------------------
// Lookup and range errors
// ---------------------------------------------------------------------------

func TestLookupErrors_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"unknown subject", &ErrUnknownSubjectCode{Code: "1234"}, "subject code 1234 not found in any exam category"},
		{"file with site", &ErrFileNotFound{Code: "0452_w04_qp_3", Site: "https://example.com"}, "file 0452_w04_qp_3 not found on https://example.com"},
		{"file without site", &ErrFileNotFound{Code: "0452_w04_qp_3"}, "file 0452_w04_qp_3 not found"},
		{"range", &ErrInvalidRange{Range: "s17-14", Reason: "end year before start year"}, `invalid range "s17-14": end year before start year`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLookupErrors_Is(t *testing.T) {
	t.Parallel()
	if !errors.Is(fmt.Errorf("wrap: %w", &ErrUnknownSubjectCode{Code: "1"}), &ErrUnknownSubjectCode{}) {
		t.Error("expected ErrUnknownSubjectCode to match through wrapping")
	}
	if errors.Is(&ErrUnknownSubjectCode{}, &ErrFileNotFound{}) {
		t.Error("ErrUnknownSubjectCode must not match ErrFileNotFound")
	}
	if !errors.Is(&ErrFileNotFound{Code: "x"}, &ErrFileNotFound{Code: "y"}) {
		t.Error("ErrFileNotFound should match regardless of fields")
	}
	if !errors.Is(&ErrInvalidRange{Range: "a"}, &ErrInvalidRange{}) {
		t.Error("ErrInvalidRange should match regardless of fields")
	}
}

// ---------------------------------------------------------------------------
// ErrHTTPStatus
// ---------------------------------------------------------------------------

func TestErrHTTPStatus(t *testing.T) {
	t.Parallel()
	err := &ErrHTTPStatus{URL: "https://example.com/x.pdf", StatusCode: http.StatusNotFound}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "https://example.com/x.pdf") {
		t.Errorf("Error() = %q, want status and URL", err.Error())
	}
	if !errors.Is(fmt.Errorf("fetch: %w", err), &ErrHTTPStatus{}) {
		t.Error("expected ErrHTTPStatus to match through wrapping")
	}

	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusNotFound, false},
		{http.StatusForbidden, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
	}
	for _, tt := range tests {
		e := &ErrHTTPStatus{StatusCode: tt.status}
		if got := e.Retryable(); got != tt.want {
			t.Errorf("Retryable() for %d = %v, want %v", tt.status, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// ErrConfigSave
// ---------------------------------------------------------------------------

func TestErrConfigSave(t *testing.T) {
	t.Parallel()
	err := &ErrConfigSave{Path: "/tmp/config.json", Err: fs.ErrPermission}

	if !strings.Contains(err.Error(), "/tmp/config.json") {
		t.Errorf("Error() = %q, want path", err.Error())
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("expected Unwrap to expose the underlying error")
	}
	if !errors.Is(fmt.Errorf("save: %w", err), &ErrConfigSave{}) {
		t.Error("expected ErrConfigSave to match through wrapping")
	}
}
