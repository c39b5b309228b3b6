package models

// OverwritePolicy decides what happens when the target file already exists
type OverwritePolicy int

const (
	// OverwriteAsk prompts the user before replacing an existing file
	OverwriteAsk OverwritePolicy = iota
	// OverwriteForce replaces existing files without asking
	OverwriteForce
	// OverwriteSkipExisting keeps existing files and skips the download entirely
	OverwriteSkipExisting
)

// String returns a human-readable name for the policy
func (p OverwritePolicy) String() string {
	switch p {
	case OverwriteForce:
		return "force"
	case OverwriteSkipExisting:
		return "skip-existing"
	default:
		return "ask"
	}
}

// DownloadOutcome is the terminal state of a single download
type DownloadOutcome int

const (
	OutcomeDownloaded DownloadOutcome = iota
	OutcomeAlreadyExists
	OutcomeFailed
)

// String returns the metric label of the outcome
func (o DownloadOutcome) String() string {
	switch o {
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeAlreadyExists:
		return "already_exists"
	default:
		return "failed"
	}
}

// ErrorKind classifies why a download failed
type ErrorKind int

const (
	ErrorKindNone ErrorKind = iota
	ErrorKindNetwork
	ErrorKindHTTPStatus
	ErrorKindFileSystem
	ErrorKindOther
)

// String returns a human-readable name for the kind
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNetwork:
		return "network"
	case ErrorKindHTTPStatus:
		return "http_status"
	case ErrorKindFileSystem:
		return "filesystem"
	case ErrorKindOther:
		return "other"
	default:
		return "none"
	}
}

// DownloadRequest describes one file to fetch and where to put it
type DownloadRequest struct {
	URL      string          // absolute file URL
	Folder   string          // destination directory, created on demand
	FileName string          // destination file name inside Folder
	Policy   OverwritePolicy // behaviour when the destination exists
	Quiet    bool            // suppress user-facing messages (fast path attempts)
}

// DownloadResult is what a download produced
type DownloadResult struct {
	Outcome  DownloadOutcome
	Path     string
	Written  int64 // bytes written to disk
	Expected int64 // Content-Length, -1 when unknown
	ErrKind  ErrorKind
	Err      error

	// CleanupErr is set when a partial file could not be deleted
	CleanupErr error
}

// Succeeded reports whether the file is present on disk after the call
func (r *DownloadResult) Succeeded() bool {
	return r.Outcome == OutcomeDownloaded || r.Outcome == OutcomeAlreadyExists
}

// GetOptions are the user options shared by get and getmany
type GetOptions struct {
	Policy         OverwritePolicy
	SessionFolders bool // place files under a per-session sub-folder
	Open           bool // open the file after a successful get
}

// DefaultGetOptions returns the options used when no flag is given
func DefaultGetOptions() GetOptions {
	return GetOptions{Policy: OverwriteAsk, SessionFolders: true}
}

// ResolvedFile is a paper located on the archive, with its local destination
type ResolvedFile struct {
	Code        PaperCode
	URL         string
	FileName    string
	Folder      string
	Path        string
	Category    string
	SubjectPath string
}

// GetResult is the result of resolving and downloading one paper code
type GetResult struct {
	File     ResolvedFile
	Download *DownloadResult
	FastPath bool // served without fetching a listing page
}

// TokenResult summarises a getmany run for one session token
type TokenResult struct {
	Token      SessionToken
	Matched    int
	Downloaded int
	Skipped    int
	Failed     int
	Err        error // listing fetch failure; nil when the page was read
}

// BulkResult is the result of a getmany invocation
type BulkResult struct {
	SubjectCode string
	Tokens      []TokenResult
}

// Totals sums the per-token counters
func (b *BulkResult) Totals() (downloaded, skipped, failed int) {
	for _, t := range b.Tokens {
		downloaded += t.Downloaded
		skipped += t.Skipped
		failed += t.Failed
	}
	return downloaded, skipped, failed
}
