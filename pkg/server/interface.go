/*
Package server exposes a suggest.Completer over two transports: a msgpack
IPC loop on stdin/stdout and an HTTP JSON API.

# IPC

The client writes a stream of msgpack encoded Request values to stdin; the
server answers each one on stdout in order, after a first StatusResponse
with status "ready". Every request carries an ID echoed back in its response
and an Op naming the operation:

	{"id": "q1", "op": "complete", "p": "th", "k": 2}
	{"id": "q1", "s": [{"w": "the", "f": 3}, {"w": "then", "f": 4}], "c": 2, "t": 12}

	{"id": "c1", "op": "contains", "w": "then"}
	{"id": "c1", "w": "then", "ok": true}

	{"id": "l1", "op": "load", "t": ["some more text"]}
	{"id": "l1", "n": 11}

Supported ops are complete, contains, delete, load, size and health. A
request that breaks the input contract (empty word, prefix too short,
window not positive, non-letter characters) gets an ErrorResponse with code
400 and the loop carries on. Completions come back in lexicographic order;
the stored weight travels with each word but does not rank it.

# HTTP

	GET    /complete?prefix=th&k=2&limit=10
	GET    /contains/{word}
	DELETE /words/{word}
	POST   /load          {"texts": ["..."]}
	GET    /size
	GET    /health

The HTTP server handles requests concurrently and serializes every call
into the completer, which is not safe for concurrent use.
*/
package server

// Request is a single IPC request
type Request struct {
	ID     string   `msgpack:"id" json:"id,omitempty"`
	Op     string   `msgpack:"op" json:"op"`
	Prefix string   `msgpack:"p,omitempty" json:"prefix,omitempty"`
	Word   string   `msgpack:"w,omitempty" json:"word,omitempty"`
	Window *int     `msgpack:"k,omitempty" json:"k,omitempty"`
	Limit  int      `msgpack:"l,omitempty" json:"limit,omitempty"`
	Texts  []string `msgpack:"t,omitempty" json:"texts,omitempty"`
}

// CompletionSuggestion is one completed word with its stored weight
type CompletionSuggestion struct {
	Word   string `msgpack:"w" json:"word"`
	Weight int    `msgpack:"f" json:"weight"`
}

// CompletionResponse - completion response, TimeTaken in microseconds
type CompletionResponse struct {
	ID          string                 `msgpack:"id" json:"id,omitempty"`
	Suggestions []CompletionSuggestion `msgpack:"s" json:"suggestions"`
	Count       int                    `msgpack:"c" json:"count"`
	TimeTaken   int64                  `msgpack:"t" json:"time_us"`
}

// LookupResponse answers contains and delete
type LookupResponse struct {
	ID    string `msgpack:"id" json:"id,omitempty"`
	Word  string `msgpack:"w" json:"word"`
	Found bool   `msgpack:"ok" json:"found"`
}

// SizeResponse answers load and size with the stored term count
type SizeResponse struct {
	ID   string `msgpack:"id" json:"id,omitempty"`
	Size int    `msgpack:"n" json:"size"`
}

// StatusResponse - readiness and health
type StatusResponse struct {
	ID     string         `msgpack:"id,omitempty" json:"id,omitempty"`
	Status string         `msgpack:"status" json:"status"`
	Stats  map[string]int `msgpack:"stats,omitempty" json:"stats,omitempty"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id" json:"id,omitempty"`
	Error string `msgpack:"e" json:"error"`
	Code  int    `msgpack:"c" json:"status"`
}
