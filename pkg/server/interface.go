/*
Package server implements msgpack IPC for keyboard suggestion services.

The server reads a stream of msgpack encoded requests from stdin and writes one
msgpack response per request to stdout. Messages are self delimiting, so no
framing is added around them. Requests are processed synchronously with timing
info included in responses.

# IPC

Every request carries an ID that is echoed back, an action and the typed input.
Suggestion requests use mainly this structure:

	{"id": "req_001", "a": "suggest", "i": "helo", "l": 10}

The server responds with suggestions ranked by score:

	{"id": "req_001", "s": [{"w": "hello", "sc": 86, "r": 1}, {"w": "help", "sc": 40, "r": 2}], "c": 2, "t": 145}

Callers that track touch points send the proximity codes of every position
(primary code first) with optional coordinates instead of plain text:

	{"id": "req_002", "k": [[104, 106, 103], [101, 119, 114]], "x": [55, 25], "y": [15, 5]}

The remaining actions answer dictionary lookups:

	{"id": "v1", "a": "valid", "i": "hello"}
	{"id": "b1", "a": "bigram", "ctx": "thank", "i": "you"}
	{"id": "m1", "a": "like", "i": "PARIS"}
	{"id": "n1", "a": "info"}

Failed requests are answered with an Error message carrying the request ID.

# Flags

The "f" field of a suggest request holds flags.Flags bits. They are OR'ed with
the dictionary's header defaults and the [engine] config section.
*/
package server

// Actions understood by the server. An empty action means ActionSuggest.
const (
	ActionSuggest = "suggest"
	ActionValid   = "valid"
	ActionBigram  = "bigram"
	ActionLike    = "like"
	ActionInfo    = "info"
)

// Request is the single request shape for every action.
type Request struct {
	ID      string   `msgpack:"id"`
	Action  string   `msgpack:"a,omitempty"`
	Input   string   `msgpack:"i,omitempty"`
	Codes   [][]rune `msgpack:"k,omitempty"`
	X       []int    `msgpack:"x,omitempty"`
	Y       []int    `msgpack:"y,omitempty"`
	Context string   `msgpack:"ctx,omitempty"`
	Limit   int      `msgpack:"l,omitempty"`
	Flags   uint32   `msgpack:"f,omitempty"`
}

// Suggestion is one ranked word.
type Suggestion struct {
	Word  string `msgpack:"w"`
	Score int    `msgpack:"sc"`
	Rank  uint16 `msgpack:"r"`
}

// SuggestResponse answers ActionSuggest.
type SuggestResponse struct {
	ID          string       `msgpack:"id"`
	Suggestions []Suggestion `msgpack:"s"`
	Count       int          `msgpack:"c"`
	TimeTaken   int64        `msgpack:"t"`
}

// LookupResponse answers ActionValid, ActionBigram and ActionLike.
type LookupResponse struct {
	ID        string `msgpack:"id"`
	Found     bool   `msgpack:"ok"`
	Position  int    `msgpack:"p,omitempty"`
	Word      string `msgpack:"w,omitempty"`
	Frequency int    `msgpack:"fr,omitempty"`
}

// InfoResponse answers ActionInfo.
type InfoResponse struct {
	ID            string `msgpack:"id"`
	Version       uint16 `msgpack:"version"`
	GermanUmlaut  bool   `msgpack:"german_umlaut"`
	DefaultFlags  uint32 `msgpack:"flags"`
	MaxWords      int    `msgpack:"max_words"`
	MaxWordLength int    `msgpack:"max_word_length"`
	Requests      int    `msgpack:"requests"`
}

// Error holds basic error information for a failed request
type Error struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// Status is written once when the server is ready.
type Status struct {
	Status string `msgpack:"status"`
}
