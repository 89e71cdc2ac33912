package dictionary

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// Dictionary is a compiled trie held in memory, either mapped from a .dict file or
// built from a word source. The bytes must not be modified.
type Dictionary struct {
	Path   string
	Format FileFormat
	data   []byte
	unmap  func() error
}

// Bytes returns the compiled trie.
func (d *Dictionary) Bytes() []byte {
	return d.data
}

// Close releases the mapping, if any. The bytes are invalid afterwards.
func (d *Dictionary) Close() error {
	d.data = nil
	if d.unmap == nil {
		return nil
	}
	unmap := d.unmap
	d.unmap = nil
	return unmap()
}

// FromBytes wraps an already compiled trie.
func FromBytes(data []byte) *Dictionary {
	return &Dictionary{Format: FormatTrie, data: data}
}

// Open maps a compiled .dict file read-only. Platforms without mmap read it instead.
func Open(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	data, unmap, err := mapFile(f, int(stat.Size()))
	if err != nil {
		log.Debugf("mmap of %s failed, reading instead: %v", path, err)
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
		unmap = nil
	}
	return &Dictionary{Path: path, Format: FormatTrie, data: data, unmap: unmap}, nil
}

// Load opens path whatever its format: compiled tries are mapped, word lists and
// chunk directories are compiled in memory with opts.
func Load(path string, opts BuildOptions) (*Dictionary, error) {
	f, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("Loading %s as %s", path, f)

	var wl *WordList
	switch f {
	case FormatTrie:
		return Open(path)
	case FormatText:
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		if wl, err = ParseWordList(file); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case FormatChunk:
		if wl, err = LoadChunks(path); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format for %s", path)
	}

	b := NewBuilder(opts)
	if err := b.AddList(wl); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	data, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Compiled %d words from %s", b.Len(), path)
	return &Dictionary{Path: path, Format: f, data: data}, nil
}

// Save writes the compiled bytes of d to path.
func (d *Dictionary) Save(path string) error {
	return os.WriteFile(path, d.data, 0644)
}
