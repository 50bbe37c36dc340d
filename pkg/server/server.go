package server

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dictx/subtrie/pkg/cache"
	"github.com/dictx/subtrie/pkg/engine"
	"github.com/dictx/subtrie/pkg/search"
)

// Server handles the msgpack IPC loop for search requests.
type Server struct {
	engine *engine.Engine
	cache  *cache.QueryCache
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
}

// NewServer returns a Server driven by e, serving over r/w. Passing nil
// for qc disables caching.
func NewServer(e *engine.Engine, qc *cache.QueryCache, r io.Reader, w io.Writer) *Server {
	return &Server{
		engine: e,
		cache:  qc,
		dec:    msgpack.NewDecoder(r),
		enc:    msgpack.NewEncoder(w),
	}
}

// NewStdioServer returns a Server wired to os.Stdin/os.Stdout, the way
// subtrie serve runs it.
func NewStdioServer(e *engine.Engine, qc *cache.QueryCache) *Server {
	return NewServer(e, qc, os.Stdin, os.Stdout)
}

// Start begins the request/response loop, returning nil on a clean EOF
// from the client and any other decode error otherwise.
func (s *Server) Start() error {
	log.Debug("server: starting")
	if err := s.enc.Encode(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		var req QueryRequest
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("server: client closed connection")
				return nil
			}
			log.Errorf("server: decoding request: %v", err)
			return err
		}
		s.handleRequest(&req)
	}
}

func (s *Server) handleRequest(req *QueryRequest) {
	if req.Word == "" {
		s.sendError(req.ID, "missing 'w' (word) field", 400)
		return
	}
	if req.MinCommonLen < 1 {
		s.sendError(req.ID, "'mcl' (min_common_len) must be >= 1", 400)
		return
	}

	q := req.toQuery()
	if q.MaxDwordLen == 0 {
		q.MaxDwordLen = len(q.Word) + 64
	}
	if q.Limit == 0 {
		q.Limit = 10
	}

	start := time.Now()
	var results []search.Result
	if s.cache != nil {
		if cached, ok := s.cache.Get(q); ok {
			results = cached
		} else {
			s.engine.Search(q, &results)
			s.cache.Put(q, results)
		}
	} else {
		s.engine.Search(q, &results)
	}
	elapsed := time.Since(start)

	entries := make([]ResultEntry, len(results))
	for i, r := range results {
		entries[i] = ResultEntry{Dword: r.Dword, Value: r.Value, StartPos: r.StartPos, CommonLen: r.CommonLen}
	}

	s.sendResponse(QueryResponse{
		ID:        req.ID,
		Results:   entries,
		Count:     len(entries),
		TimeTaken: elapsed.Milliseconds(),
	})
}

func (s *Server) sendResponse(resp any) {
	if err := s.enc.Encode(resp); err != nil {
		log.Errorf("server: encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}
