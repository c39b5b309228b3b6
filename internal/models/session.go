package models

import "strings"

// Session represents the administration window of an exam paper
type Session int

const (
	SessionUnknown Session = iota
	SessionFebMarch
	SessionMayJune
	SessionOctNov
	SessionSpecimen
)

// AllSessions lists the sessions in the order the archive publishes them
var AllSessions = []Session{SessionFebMarch, SessionMayJune, SessionOctNov, SessionSpecimen}

// String returns the single-letter code used in paper codes
func (s Session) String() string {
	switch s {
	case SessionFebMarch:
		return "m"
	case SessionMayJune:
		return "s"
	case SessionOctNov:
		return "w"
	case SessionSpecimen:
		return "y"
	default:
		return ""
	}
}

// Name returns the human-readable session name used for download sub-folders
func (s Session) Name() string {
	switch s {
	case SessionFebMarch:
		return "Feb-March"
	case SessionMayJune:
		return "May-June"
	case SessionOctNov:
		return "Oct-Nov"
	case SessionSpecimen:
		return "Specimen"
	default:
		return "Unknown"
	}
}

// IsSpecimen reports whether the session is the non-administered specimen window
func (s Session) IsSpecimen() bool {
	return s == SessionSpecimen
}

// ParseSession converts a session letter to Session enum
func ParseSession(letter string) Session {
	switch strings.ToLower(letter) {
	case "m":
		return SessionFebMarch
	case "s":
		return SessionMayJune
	case "w":
		return SessionOctNov
	case "y":
		return SessionSpecimen
	default:
		return SessionUnknown
	}
}

// MarshalJSON implements json.Marshaler interface
func (s Session) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (s *Session) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	*s = ParseSession(str)
	return nil
}
