package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bastiangx/keyserve/internal/utils"
	"github.com/bastiangx/keyserve/pkg/config"
	"github.com/bastiangx/keyserve/pkg/correction"
	"github.com/bastiangx/keyserve/pkg/flags"
	"github.com/bastiangx/keyserve/pkg/proximity"
	"github.com/bastiangx/keyserve/pkg/queue"
	"github.com/bastiangx/keyserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// reloadEvery is the number of requests between config reloads.
const reloadEvery = 200

// state is the working memory of one request.
type state struct {
	pool *queue.Pool
	corr *correction.Correction
}

// Server answers msgpack requests against one dictionary.
type Server struct {
	dict       *suggest.UnigramDictionary
	layout     *proximity.Layout
	configPath string
	reader     io.Reader
	writer     io.Writer

	mu           sync.RWMutex
	config       *config.Config
	requestCount int

	states sync.Pool
}

// NewServer creates a server reading requests from r and writing responses to w.
// A nil layout treats plain text input as exact key codes. configPath, when set,
// is reloaded periodically.
func NewServer(dict *suggest.UnigramDictionary, layout *proximity.Layout, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		dict:       dict,
		layout:     layout,
		config:     cfg,
		configPath: configPath,
		reader:     r,
		writer:     w,
	}
	s.states.New = func() any {
		return &state{pool: dict.NewPool(), corr: dict.NewCorrection()}
	}
	return s
}

// Start signals readiness and serves requests until the input ends.
func (s *Server) Start() error {
	log.Debug("Starting Server.")
	enc := msgpack.NewEncoder(s.writer)
	if err := enc.Encode(Status{Status: "ready"}); err != nil {
		return err
	}
	dec := msgpack.NewDecoder(bufio.NewReader(s.reader))
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.send(enc, Error{Error: "invalid msgpack request", Code: 400})
			return err
		}
		s.send(enc, s.Handle(req))
		s.maybeReload()
	}
}

func (s *Server) send(enc *msgpack.Encoder, resp any) {
	if err := enc.Encode(resp); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// Handle answers one request. It is safe for concurrent use.
func (s *Server) Handle(req Request) any {
	s.mu.Lock()
	s.requestCount++
	s.mu.Unlock()

	switch req.Action {
	case "", ActionSuggest:
		return s.handleSuggest(req)
	case ActionValid:
		return LookupResponse{ID: req.ID, Found: s.dict.IsValidWord([]rune(req.Input))}
	case ActionBigram:
		pos, ok := s.dict.BigramPosition(suggest.NotFound, []rune(req.Context), []rune(req.Input))
		if !ok {
			return LookupResponse{ID: req.ID}
		}
		return LookupResponse{ID: req.ID, Found: true, Position: pos}
	case ActionLike:
		word, freq := s.dict.MostFrequentWordLikeRunes([]rune(req.Input))
		if word == nil {
			return LookupResponse{ID: req.ID}
		}
		return LookupResponse{ID: req.ID, Found: true, Word: string(word), Frequency: freq}
	case ActionInfo:
		return s.info(req.ID)
	}
	return Error{ID: req.ID, Error: fmt.Sprintf("unknown action: %s", req.Action), Code: 400}
}

func (s *Server) handleSuggest(req Request) any {
	s.mu.RLock()
	cfg := *s.config
	s.mu.RUnlock()

	in, pi, err := s.input(req)
	if err != nil {
		return Error{ID: req.ID, Error: err.Error(), Code: 400}
	}
	if in.Len() == 0 {
		return Error{ID: req.ID, Error: "missing input", Code: 400}
	}
	if cfg.Server.MaxInput > 0 && in.Len() > cfg.Server.MaxInput {
		return Error{ID: req.ID, Error: fmt.Sprintf("input exceeds maximum length of %d", cfg.Server.MaxInput), Code: 400}
	}
	typed := in.PrimaryCodes()
	if cfg.Server.EnableFilter && !utils.IsValidInput(string(typed)) {
		log.Debug("Input filtered", "input", string(typed))
		return SuggestResponse{ID: req.ID, Suggestions: []Suggestion{}}
	}

	limit := req.Limit
	if limit < 1 || (cfg.Server.MaxLimit > 0 && limit > cfg.Server.MaxLimit) {
		limit = cfg.Server.MaxLimit
	}
	f := s.dict.DefaultFlags() | cfg.Engine.Flags() | flags.Flags(req.Flags)

	start := time.Now()
	st := s.states.Get().(*state)
	defer s.states.Put(st)
	cands, err := s.dict.Suggest(pi, st.pool, st.corr, in, f)
	if err != nil {
		code := 500
		if errors.Is(err, flags.ErrUnknown) || errors.Is(err, suggest.ErrInputTooLong) {
			code = 400
		}
		return Error{ID: req.ID, Error: err.Error(), Code: code}
	}

	casing := utils.DetectCasing(typed)
	filter := utils.NewSuggestionFilter()
	out := make([]Suggestion, 0, min(limit, len(cands)))
	for _, c := range cands {
		if limit > 0 && len(out) == limit {
			break
		}
		word := utils.ApplyCasing(c.Word, casing)
		if !filter.ShouldInclude(word) {
			continue
		}
		out = append(out, Suggestion{Word: word, Score: c.Score, Rank: uint16(len(out) + 1)})
	}
	return SuggestResponse{
		ID:          req.ID,
		Suggestions: out,
		Count:       len(out),
		TimeTaken:   time.Since(start).Microseconds(),
	}
}

// input builds the typed sequence of req and the proximity collaborator to use.
func (s *Server) input(req Request) (*proximity.Input, proximity.Info, error) {
	if len(req.Codes) > 0 {
		in, err := proximity.NewInput(req.Codes, req.X, req.Y)
		if err != nil {
			return nil, nil, err
		}
		if s.layout != nil && req.X != nil {
			return in, s.layout, nil
		}
		return in, proximity.CodesInfo{}, nil
	}
	if s.layout != nil {
		return s.layout.Tap(req.Input), s.layout, nil
	}
	return proximity.FromWord(req.Input), proximity.CodesInfo{}, nil
}

func (s *Server) info(id string) InfoResponse {
	h := s.dict.Header()
	opts := s.dict.Options()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return InfoResponse{
		ID:            id,
		Version:       h.Version,
		GermanUmlaut:  h.RequiresGermanUmlautProcessing(),
		DefaultFlags:  uint32(s.dict.DefaultFlags() | s.config.Engine.Flags()),
		MaxWords:      opts.MaxWords,
		MaxWordLength: opts.MaxWordLength,
		Requests:      s.requestCount,
	}
}

// maybeReload picks up [server] and [engine] flag changes from the config file.
// Engine budgets are fixed when the dictionary is created.
func (s *Server) maybeReload() {
	s.mu.RLock()
	due := s.configPath != "" && s.requestCount%reloadEvery == 0
	s.mu.RUnlock()
	if !due {
		return
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		log.Warnf("Config reload from %s failed: %v", s.configPath, err)
		return
	}
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	log.Debugf("Reloaded config from %s", s.configPath)
}
