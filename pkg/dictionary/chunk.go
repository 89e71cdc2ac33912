package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bastiangx/keyserve/pkg/format"
	"github.com/charmbracelet/log"
)

// ChunkInfo describes one ranked word chunk file (dict_0001.bin, ...).
type ChunkInfo struct {
	ID        int
	Filename  string
	WordCount int
}

// RankedWord is a chunk entry. Rank 1 is the most frequent word.
type RankedWord struct {
	Word string
	Rank int
}

// ListChunks scans dirPath for chunk files, sorted by ID.
func ListChunks(dirPath string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dirPath, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}
	var chunks []ChunkInfo
	for _, file := range files {
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		count, err := chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			continue
		}
		chunks = append(chunks, ChunkInfo{ID: id, Filename: file, WordCount: count})
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].ID < chunks[j].ID })
	return chunks, nil
}

func chunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	var count int32
	if err := binary.Read(file, binary.LittleEndian, &count); err != nil {
		return 0, err
	}
	return int(count), nil
}

// ReadChunk decodes a chunk: a little endian int32 word count followed by, per word,
// a uint16 length, the UTF-8 bytes and a uint16 rank.
func ReadChunk(r io.Reader) ([]RankedWord, error) {
	reader := bufio.NewReader(r)
	var total int32
	if err := binary.Read(reader, binary.LittleEndian, &total); err != nil {
		return nil, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if total < 0 {
		return nil, fmt.Errorf("negative word count %d: %w", total, format.ErrMalformed)
	}
	words := make([]RankedWord, 0, total)
	for len(words) < int(total) {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read word length: %w", err)
		}
		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return nil, fmt.Errorf("failed to read word: %w", err)
		}
		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return nil, fmt.Errorf("failed to read rank: %w", err)
		}
		words = append(words, RankedWord{Word: string(wordBytes), Rank: int(rank)})
	}
	return words, nil
}

// WriteChunk encodes words in the chunk layout read by ReadChunk.
func WriteChunk(w io.Writer, words []RankedWord) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(words))); err != nil {
		return err
	}
	for _, rw := range words {
		if len(rw.Word) > 0xFFFF || rw.Rank < 0 || rw.Rank > 0xFFFF {
			return fmt.Errorf("chunk word %q rank %d: %w", rw.Word, rw.Rank, format.ErrAddressRange)
		}
		binary.Write(bw, binary.LittleEndian, uint16(len(rw.Word)))
		bw.WriteString(rw.Word)
		binary.Write(bw, binary.LittleEndian, uint16(rw.Rank))
	}
	return bw.Flush()
}

// RankFrequency maps a rank onto the 1..255 terminal frequency scale, linearly over
// maxRank ranks.
func RankFrequency(rank, maxRank int) int {
	if maxRank <= 1 || rank <= 1 {
		return format.MaxFrequency
	}
	rank = min(rank, maxRank)
	return max(1, format.MaxFrequency-(rank-1)*(format.MaxFrequency-1)/(maxRank-1))
}

// LoadChunks reads every chunk of dirPath concurrently and returns the words as
// entries ready for a Builder.
func LoadChunks(dirPath string) (*WordList, error) {
	chunks, err := ListChunks(dirPath)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunk files found in %s: %w", dirPath, ErrEmpty)
	}
	log.Debugf("Found %d chunk files", len(chunks))

	results := make([][]RankedWord, len(chunks))
	errs := make([]error, len(chunks))
	var wg sync.WaitGroup
	for i, c := range chunks {
		wg.Add(1)
		go func(i int, c ChunkInfo) {
			defer wg.Done()
			f, err := os.Open(c.Filename)
			if err != nil {
				errs[i] = err
				return
			}
			defer f.Close()
			results[i], errs[i] = ReadChunk(f)
		}(i, c)
	}
	wg.Wait()

	maxRank := 0
	for i, words := range results {
		if errs[i] != nil {
			return nil, fmt.Errorf("chunk %d: %w", chunks[i].ID, errs[i])
		}
		for _, w := range words {
			maxRank = max(maxRank, w.Rank)
		}
	}
	wl := &WordList{}
	for _, words := range results {
		for _, w := range words {
			wl.Entries = append(wl.Entries, Entry{Word: w.Word, Freq: RankFrequency(w.Rank, maxRank)})
		}
	}
	if len(wl.Entries) == 0 {
		return nil, ErrEmpty
	}
	return wl, nil
}
