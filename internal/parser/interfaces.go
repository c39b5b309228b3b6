package parser

import "io"

// Parser defines a generic interface for parsing HTML content into a list of items
type Parser[T any] interface {
	ParseHtml(body io.Reader) ([]T, error)
}

// SingleResultParser defines a generic interface for parsing HTML content into one value
type SingleResultParser[T any] interface {
	ParseHtml(body io.Reader) (T, error)
}
