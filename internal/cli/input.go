// Package cli provides an interactive line-input REPL for driving an
// engine.Engine from a terminal, for debugging and manual testing.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dictx/subtrie/pkg/engine"
	"github.com/dictx/subtrie/pkg/search"
)

// InputHandler processes user input from stdin, running each line
// through engine.Search with a fixed set of query parameters.
type InputHandler struct {
	engine       *engine.Engine
	minCommonLen int
	maxDwordLen  int
	limit        int
	depthFirst   bool
	requestCount int
}

// NewInputHandler creates a new InputHandler bound to e.
func NewInputHandler(e *engine.Engine, minCommonLen, maxDwordLen, limit int, depthFirst bool) *InputHandler {
	return &InputHandler{
		engine:       e,
		minCommonLen: minCommonLen,
		maxDwordLen:  maxDwordLen,
		limit:        limit,
		depthFirst:   depthFirst,
	}
}

// Start begins the interface loop. It continuously prompts for input,
// reads a line from stdin, and passes the trimmed input to
// handleInput. The loop terminates if an error occurs while reading
// from stdin.
func (h *InputHandler) Start() error {
	log.Print("subtrie search [interactive]")
	reader := bufio.NewReader(os.Stdin)
	log.Printf("type a word and press Enter to search (min_common_len=%d), Ctrl+C to exit:", h.minCommonLen)

	for {
		log.Print("> ")
		word, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		h.handleInput(word)
	}
}

// handleInput runs a single query word and prints the results in the
// order the search produced them.
func (h *InputHandler) handleInput(word string) {
	h.requestCount++

	if len(word) < h.minCommonLen {
		log.Errorf("word shorter than min_common_len (%d): %s", h.minCommonLen, word)
		return
	}

	start := time.Now()
	var results []search.Result
	h.engine.Search(&search.Query{
		Word:             word,
		MinCommonLen:     h.minCommonLen,
		MinDwordLen:      1,
		MaxDwordLen:      h.maxDwordLen,
		Limit:            h.limit,
		DepthFirstSearch: h.depthFirst,
	}, &results)
	elapsed := time.Since(start)

	log.Debugf("took %v for word '%s'", elapsed, word)

	if len(results) == 0 {
		log.Warnf("no matches for word: '%s'", word)
		return
	}

	log.Printf("found %d matches for word '%s':", len(results), word)
	for i, r := range results {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", r.Dword)
		log.Printf("%2d. %-40s (common_len: %2d, start_pos: %2d, value: %s)", i+1, clWord, r.CommonLen, r.StartPos, r.Value)
	}
}
