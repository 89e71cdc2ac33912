// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/keyserve/internal/logger"
	"github.com/bastiangx/keyserve/internal/utils"
	"github.com/bastiangx/keyserve/pkg/correction"
	"github.com/bastiangx/keyserve/pkg/flags"
	"github.com/bastiangx/keyserve/pkg/proximity"
	"github.com/bastiangx/keyserve/pkg/queue"
	"github.com/bastiangx/keyserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// InputHandler reads typed words from stdin and prints the suggestions the
// dictionary finds for them. Lines starting with ':' are lookup commands:
//
//	:valid word
//	:like word
//	:bigram context word
type InputHandler struct {
	dict     *suggest.UnigramDictionary
	layout   *proximity.Layout
	flags    flags.Flags
	limit    int
	noFilter bool

	pool *queue.Pool
	corr *correction.Correction
	out  *log.Logger
	num  *message.Printer
}

// NewInputHandler handles initialization of the InputHandler. A nil layout
// searches the typed characters without neighbouring keys.
func NewInputHandler(dict *suggest.UnigramDictionary, layout *proximity.Layout, f flags.Flags, limit int, noFilter bool, w io.Writer) *InputHandler {
	return &InputHandler{
		dict:     dict,
		layout:   layout,
		flags:    f,
		limit:    limit,
		noFilter: noFilter,
		pool:     dict.NewPool(),
		corr:     dict.NewCorrection(),
		out:      logger.NewWithWriter(w, ""),
		num:      message.NewPrinter(language.English),
	}
}

// Start runs the loop until r is exhausted.
func (h *InputHandler) Start(r io.Reader) error {
	h.out.Print("KeyServe CLI [BETA]")
	h.out.Print("type a word and press Enter to see the suggestions (Ctrl+C to exit):")
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			h.handleCommand(strings.Fields(line[1:]))
			continue
		}
		h.handleInput(line)
	}
	return scanner.Err()
}

func (h *InputHandler) handleCommand(args []string) {
	if len(args) == 0 {
		return
	}
	switch {
	case args[0] == "valid" && len(args) == 2:
		h.out.Printf("%s: valid=%t", args[1], h.dict.IsValidWord([]rune(args[1])))
	case args[0] == "like" && len(args) == 2:
		word, freq := h.dict.MostFrequentWordLikeRunes([]rune(args[1]))
		if word == nil {
			h.out.Warnf("No word like '%s'", args[1])
			return
		}
		h.out.Printf("%s -> %s (freq: %d)", args[1], string(word), freq)
	case args[0] == "bigram" && len(args) == 3:
		pos, ok := h.dict.BigramPosition(suggest.NotFound, []rune(args[1]), []rune(args[2]))
		if !ok {
			h.out.Printf("%s %s: no bigram", args[1], args[2])
			return
		}
		h.out.Printf("%s %s: bigram at %d", args[1], args[2], pos)
	default:
		h.out.Errorf("Unknown command: :%s", strings.Join(args, " "))
	}
}

func (h *InputHandler) handleInput(typed string) {
	if !h.noFilter && !utils.IsValidInput(typed) {
		h.out.Warnf("No suggestions found for '%s' (filtered out)", typed)
		return
	}
	var in *proximity.Input
	var pi proximity.Info
	if h.layout != nil {
		in, pi = h.layout.Tap(typed), h.layout
	} else {
		in = proximity.FromWord(typed)
	}

	start := time.Now()
	cands, err := h.dict.Suggest(pi, h.pool, h.corr, in, h.flags)
	if err != nil {
		h.out.Errorf("Search failed: %v", err)
		return
	}
	log.Debugf("Took [ %v ] for '%s'", time.Since(start), typed)

	if len(cands) == 0 {
		h.out.Warnf("No suggestions found for '%s'", typed)
		return
	}
	if h.limit > 0 && len(cands) > h.limit {
		cands = cands[:h.limit]
	}
	casing := utils.DetectCasing([]rune(typed))
	h.out.Printf("Found %d suggestions for '%s':", len(cands), typed)
	for i, c := range cands {
		word := utils.ApplyCasing(c.Word, casing)
		h.out.Printf("%2d. %-40s (score: %8s)", i+1, word, h.num.Sprintf("%d", c.Score))
	}
}
