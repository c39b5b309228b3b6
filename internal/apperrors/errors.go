package apperrors

import (
	"fmt"
	"net/http"
)

// ParseErrorKind identifies which paper code rule was violated
type ParseErrorKind int

const (
	// KindAny matches every parse error kind in Is()
	KindAny ParseErrorKind = iota
	KindInvalidFormat
	KindSpecimenTypeMismatch
	KindNonSpecimenTypeMismatch
	KindMissingPaperNumber
	KindUnexpectedPaperNumber
	KindIllegalYearRange
)

// String returns the short message for the kind
func (k ParseErrorKind) String() string {
	switch k {
	case KindInvalidFormat:
		return "invalid paper code format"
	case KindSpecimenTypeMismatch:
		return "specimen session used with a non-specimen paper type"
	case KindNonSpecimenTypeMismatch:
		return "specimen paper type used outside the specimen session"
	case KindMissingPaperNumber:
		return "paper number is required for this paper type"
	case KindUnexpectedPaperNumber:
		return "paper type does not take a paper number"
	case KindIllegalYearRange:
		return "year range is only allowed for syllabus papers"
	default:
		return "invalid paper code"
	}
}

// ErrInvalidPaperCode is returned when a paper code fails the grammar.
type ErrInvalidPaperCode struct {
	Code   string
	Kind   ParseErrorKind
	Detail string
}

// Sentinels for errors.Is() matching on a specific kind.
var (
	ErrInvalidFormat           = &ErrInvalidPaperCode{Kind: KindInvalidFormat}
	ErrSpecimenTypeMismatch    = &ErrInvalidPaperCode{Kind: KindSpecimenTypeMismatch}
	ErrNonSpecimenTypeMismatch = &ErrInvalidPaperCode{Kind: KindNonSpecimenTypeMismatch}
	ErrMissingPaperNumber      = &ErrInvalidPaperCode{Kind: KindMissingPaperNumber}
	ErrUnexpectedPaperNumber   = &ErrInvalidPaperCode{Kind: KindUnexpectedPaperNumber}
	ErrIllegalYearRange        = &ErrInvalidPaperCode{Kind: KindIllegalYearRange}
)

// Error implements the error interface.
func (e *ErrInvalidPaperCode) Error() string {
	msg := e.Kind.String()
	if e.Code != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Code)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is allows for error checking with errors.Is(). A target with KindAny matches every kind.
func (e *ErrInvalidPaperCode) Is(target error) bool {
	t, ok := target.(*ErrInvalidPaperCode)
	if !ok {
		return false
	}
	return t.Kind == KindAny || t.Kind == e.Kind
}

// NewInvalidPaperCodeError creates a new ErrInvalidPaperCode.
func NewInvalidPaperCodeError(code string, kind ParseErrorKind, detail string) *ErrInvalidPaperCode {
	return &ErrInvalidPaperCode{
		Code:   code,
		Kind:   kind,
		Detail: detail,
	}
}

// ErrInvalidRange is returned when a getmany range token cannot be expanded.
type ErrInvalidRange struct {
	Range  string
	Reason string
}

// Error implements the error interface.
func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid range %q: %s", e.Range, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrInvalidRange) Is(target error) bool {
	_, ok := target.(*ErrInvalidRange)
	return ok
}

// ErrUnknownSubjectCode is returned when no category lists the subject code.
type ErrUnknownSubjectCode struct {
	Code string
}

// Error implements the error interface.
func (e *ErrUnknownSubjectCode) Error() string {
	return fmt.Sprintf("subject code %s not found in any exam category", e.Code)
}

// Is allows for error checking with errors.Is().
func (e *ErrUnknownSubjectCode) Is(target error) bool {
	_, ok := target.(*ErrUnknownSubjectCode)
	return ok
}

// ErrFileNotFound is returned when no link on the listing page matches the paper code.
type ErrFileNotFound struct {
	Code string
	Site string
}

// Error implements the error interface.
func (e *ErrFileNotFound) Error() string {
	if e.Site != "" {
		return fmt.Sprintf("file %s not found on %s", e.Code, e.Site)
	}
	return fmt.Sprintf("file %s not found", e.Code)
}

// Is allows for error checking with errors.Is().
func (e *ErrFileNotFound) Is(target error) bool {
	_, ok := target.(*ErrFileNotFound)
	return ok
}

// ErrHTTPStatus is returned when the archive answers with a non-2xx status.
type ErrHTTPStatus struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *ErrHTTPStatus) Error() string {
	return fmt.Sprintf("unexpected status %d %s from %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrHTTPStatus) Is(target error) bool {
	_, ok := target.(*ErrHTTPStatus)
	return ok
}

// Retryable reports whether the status is worth retrying (server errors and rate limiting)
func (e *ErrHTTPStatus) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// ErrConfigSave is returned when the configuration cannot be persisted. It is fatal.
type ErrConfigSave struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ErrConfigSave) Error() string {
	return fmt.Sprintf("failed to save config to %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ErrConfigSave) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrConfigSave) Is(target error) bool {
	_, ok := target.(*ErrConfigSave)
	return ok
}
