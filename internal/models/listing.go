package models

// Link is an anchor found on an archive page
type Link struct {
	Text string `json:"text"` // visible text, whitespace-trimmed
	Href string `json:"href"` // raw href attribute
}

// ListingPage is a parsed index page enumerating the files of one subject/year/session.
// URL is the address the page was actually fetched from, which may be the subject root
// when the year page did not exist.
type ListingPage struct {
	URL   string `json:"url"`
	Links []Link `json:"links"`
}

// PageKey identifies a cached listing page. Token is the two-digit year for
// administered sessions and "y" for the shared specimen page.
type PageKey struct {
	Subject string
	Token   string
}

// NewPageKey builds the cache key for a subject and a session/year pair
func NewPageKey(subject string, session Session, year string) PageKey {
	if session.IsSpecimen() {
		return PageKey{Subject: subject, Token: session.String()}
	}
	return PageKey{Subject: subject, Token: year}
}

// String renders the key as subject/token for logging
func (k PageKey) String() string {
	return k.Subject + "/" + k.Token
}

// SessionToken is a session letter followed by a two-digit year, e.g. "s14"
type SessionToken struct {
	Session Session
	Year    string
}

// String returns the token as it appears in file names
func (t SessionToken) String() string {
	return t.Session.String() + t.Year
}
