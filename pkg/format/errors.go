package format

import "errors"

var (
	// ErrTruncated indicates a read past the end of the dictionary buffer.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrMalformed indicates a reserved or impossible encoding.
	ErrMalformed = errors.New("format: malformed data")
	// ErrAddressRange indicates an offset that does not fit any address width.
	ErrAddressRange = errors.New("format: address out of range")
	// ErrNotFound indicates a word or address missing from the trie.
	ErrNotFound = errors.New("format: not found")
)
