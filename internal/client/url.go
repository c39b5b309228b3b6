package client

import (
	"fmt"
	"net/url"
	"strings"
)

// JoinURL appends unescaped path segments to base. Segments may contain "/" and
// characters such as spaces or parentheses; each path element is escaped on its own.
func JoinURL(base string, segments ...string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	var elems []string
	for _, seg := range segments {
		for _, part := range strings.Split(strings.Trim(seg, "/"), "/") {
			if part != "" {
				elems = append(elems, url.PathEscape(part))
			}
		}
	}
	return u.JoinPath(elems...).String(), nil
}

// ResolveLink resolves href against the page it was found on. The page URL is
// treated as a directory even when it was fetched without a trailing slash.
func ResolveLink(pageURL, href string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
		if base.RawPath != "" {
			base.RawPath += "/"
		}
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
