package parser

import (
	"io"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader converts an archive page to UTF-8 before it reaches goquery.
// contentType is the response Content-Type header; when it names no charset the
// encoding is sniffed from <meta> tags, a byte order mark, or the content itself.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(body, contentType)
}
