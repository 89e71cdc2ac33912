package format

import (
	"encoding/binary"
	"fmt"
)

const (
	// Magic opens every dictionary carrying a header.
	Magic uint32 = 0x9BC13AFE
	// Version is the format version written by AppendHeader.
	Version = 2
	// HeaderSize is the size of the fixed header written by AppendHeader.
	HeaderSize = 12

	// OptionGermanUmlautProcessing asks callers to fold umlaut digraphs for this dictionary.
	OptionGermanUmlautProcessing = 0x1
)

// Header describes the optional dictionary header.
// A headerless buffer has a zero Header whose Size is 0, so its root sits at offset 0.
type Header struct {
	Version uint16
	Options uint16
	Size    int
}

// RequiresGermanUmlautProcessing reports the per-dictionary digraph capability.
func (h Header) RequiresGermanUmlautProcessing() bool {
	return h.Options&OptionGermanUmlautProcessing != 0
}

// ReadHeader parses the header at the start of dict.
func ReadHeader(dict []byte) (Header, error) {
	if len(dict) < 4 || binary.BigEndian.Uint32(dict) != Magic {
		return Header{}, nil
	}
	if len(dict) < HeaderSize {
		return Header{}, fmt.Errorf("header: %w", ErrTruncated)
	}
	h := Header{
		Version: binary.BigEndian.Uint16(dict[4:]),
		Options: binary.BigEndian.Uint16(dict[6:]),
		Size:    int(binary.BigEndian.Uint32(dict[8:])),
	}
	if h.Version < Version {
		return Header{}, fmt.Errorf("header version %d: %w", h.Version, ErrMalformed)
	}
	if h.Size < HeaderSize || h.Size > len(dict) {
		return Header{}, fmt.Errorf("header size %d: %w", h.Size, ErrTruncated)
	}
	return h, nil
}

// AppendHeader appends a version 2 header with the given options.
func AppendHeader(buf []byte, options uint16) []byte {
	buf = binary.BigEndian.AppendUint32(buf, Magic)
	buf = binary.BigEndian.AppendUint16(buf, Version)
	buf = binary.BigEndian.AppendUint16(buf, options)
	return binary.BigEndian.AppendUint32(buf, HeaderSize)
}
