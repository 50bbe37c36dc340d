/*
Package server implements msgpack IPC for common-substring search.

The server operates on a request/response model over stdin/stdout:
clients send a msgpack-encoded QueryRequest and the server replies with
a msgpack-encoded QueryResponse, streamed back to back with no framing
beyond what msgpack's own encoding provides (each value self-describes
its length, so the decoder on either side reads exactly one message per
Decode call).

A minimal exchange looks like:

	{"id": "req_001", "w": "help", "mcl": 3, "limit": 10}

and the server responds with the matches in the order the search
produced them, plus timing:

	{"id": "req_001", "r": [{"d": "hello", "v": "H", "sp": 0, "cl": 3}], "c": 1, "t": 2}

msgpack encoding keeps message sizes small and parses faster than JSON,
the same tradeoff the original design intended for completion requests.
*/
package server

import "github.com/dictx/subtrie/pkg/search"

// QueryRequest is one search request.
type QueryRequest struct {
	ID               string `msgpack:"id"`
	Word             string `msgpack:"w"`
	MinCommonLen     int    `msgpack:"mcl"`
	MinDwordLen      int    `msgpack:"mdl,omitempty"`
	MaxDwordLen      int    `msgpack:"xdl,omitempty"`
	Limit            int    `msgpack:"limit,omitempty"`
	DepthFirstSearch bool   `msgpack:"dfs,omitempty"`
	ComPrefixOnly    bool   `msgpack:"cpo,omitempty"`
	AverageLimit     bool   `msgpack:"avg,omitempty"`
}

func (r *QueryRequest) toQuery() *search.Query {
	return &search.Query{
		Word:             r.Word,
		MinCommonLen:     r.MinCommonLen,
		MinDwordLen:      r.MinDwordLen,
		MaxDwordLen:      r.MaxDwordLen,
		Limit:            r.Limit,
		DepthFirstSearch: r.DepthFirstSearch,
		ComPrefixOnly:    r.ComPrefixOnly,
		AverageLimit:     r.AverageLimit,
	}
}

// ResultEntry is one matching result in a QueryResponse.
type ResultEntry struct {
	Dword     string `msgpack:"d"`
	Value     string `msgpack:"v"`
	StartPos  int    `msgpack:"sp"`
	CommonLen int    `msgpack:"cl"`
}

// QueryResponse answers a QueryRequest sharing its ID.
type QueryResponse struct {
	ID        string        `msgpack:"id"`
	Results   []ResultEntry `msgpack:"r"`
	Count     int           `msgpack:"c"`
	TimeTaken int64         `msgpack:"t"`
}

// ErrorResponse reports a request that failed before a search ran.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"code"`
}

// StatusResponse reports a non-search control response (e.g. "ready",
// "ok").
type StatusResponse struct {
	Status string `msgpack:"status"`
}
