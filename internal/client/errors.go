package client

import "errors"

// ErrReadTimeout is returned by a response body when no data arrived within the read timeout
var ErrReadTimeout = errors.New("read timed out waiting for data")

// ErrNoCategories is returned when the home page links to no known exam category
var ErrNoCategories = errors.New("no exam categories found on the archive home page")
