package dictionary

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/keyserve/pkg/format"
)

// FileFormat represents different dictionary sources
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatTrie               // compiled binary trie (.dict)
	FormatChunk              // directory of ranked word chunks (dict_*.bin)
	FormatText               // word list (.txt)
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatTrie: {
		Format:      FormatTrie,
		Description: "Binary Trie Dictionary",
		Extensions:  []string{".dict"},
		MinSize:     2, // group count and a flags byte
	},
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Ranked Word Chunks",
		Extensions:  []string{".bin"},
		MinSize:     4, // word count header
	},
	FormatText: {
		Format:      FormatText,
		Description: "Word List",
		Extensions:  []string{".txt"},
		MinSize:     1,
	},
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(f FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[f]
	return info, exists
}

// DetectFileFormat works out what kind of source path is. A directory holding chunk
// files is FormatChunk; a file is recognised by its header magic, then by extension.
func DetectFileFormat(path string) (FileFormat, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, err
	}
	if stat.IsDir() {
		chunks, err := ListChunks(path)
		if err != nil {
			return FormatUnknown, err
		}
		if len(chunks) == 0 {
			return FormatUnknown, fmt.Errorf("no chunk files in %s", path)
		}
		return FormatChunk, nil
	}

	if hasMagic(path) {
		return FormatTrie, nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range []FileFormat{FormatTrie, FormatText} {
		info := supportedFormats[f]
		for _, e := range info.Extensions {
			if ext == e {
				if stat.Size() < info.MinSize {
					return FormatUnknown, fmt.Errorf("file %s is too small (%d bytes) for %s", path, stat.Size(), info.Description)
				}
				return f, nil
			}
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", path)
}

func hasMagic(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	var magic uint32
	if err := binary.Read(f, binary.BigEndian, &magic); err != nil {
		return false
	}
	return magic == format.Magic
}
