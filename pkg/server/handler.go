package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/bastiangx/wordtrie/pkg/trie"
)

var (
	// ErrPrefixTooLong is returned for a prefix above the configured maximum.
	ErrPrefixTooLong = errors.New("prefix exceeds maximum length")
	// ErrUnknownOp is returned for a request naming no known operation.
	ErrUnknownOp = errors.New("unknown op")
)

// dispatcher runs requests against the completer for both transports
type dispatcher struct {
	index suggest.Completer
	cfg   config.ServerConfig
}

func newDispatcher(index suggest.Completer, cfg *config.Config) *dispatcher {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &dispatcher{index: index, cfg: cfg.Server}
}

// handle executes req and returns the response value to encode.
func (d *dispatcher) handle(req Request) (any, error) {
	switch req.Op {
	case "complete":
		return d.complete(req)
	case "contains":
		found, err := d.index.Contains(req.Word)
		if err != nil {
			return nil, err
		}
		return LookupResponse{ID: req.ID, Word: req.Word, Found: found}, nil
	case "delete":
		removed, err := d.index.Delete(req.Word)
		if err != nil {
			return nil, err
		}
		return LookupResponse{ID: req.ID, Word: req.Word, Found: removed}, nil
	case "load":
		return SizeResponse{ID: req.ID, Size: d.index.Load(req.Texts...)}, nil
	case "size":
		return SizeResponse{ID: req.ID, Size: d.index.Size()}, nil
	case "health":
		return StatusResponse{ID: req.ID, Status: "ok", Stats: d.index.Stats()}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, req.Op)
	}
}

// complete answers a prefix query. Without a window every completion is
// eligible; the result is cut to the request limit, itself capped by
// the configured max_limit.
func (d *dispatcher) complete(req Request) (CompletionResponse, error) {
	if d.cfg.MaxPrefix > 0 && len(req.Prefix) > d.cfg.MaxPrefix {
		return CompletionResponse{}, fmt.Errorf("%w of %d characters", ErrPrefixTooLong, d.cfg.MaxPrefix)
	}

	start := time.Now()
	var words []string
	var err error
	if req.Window == nil {
		words, err = d.index.WordsWithPrefix(req.Prefix)
	} else {
		words, err = d.index.WordsWithPrefixWindow(req.Prefix, *req.Window)
	}
	if err != nil {
		return CompletionResponse{}, err
	}

	limit := req.Limit
	if limit < 1 || (d.cfg.MaxLimit > 0 && limit > d.cfg.MaxLimit) {
		limit = d.cfg.MaxLimit
	}
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}

	suggestions := make([]CompletionSuggestion, len(words))
	for i, w := range words {
		weight, _ := d.index.Weight(w)
		suggestions[i] = CompletionSuggestion{Word: w, Weight: weight}
	}
	return CompletionResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   time.Since(start).Microseconds(),
	}, nil
}

// errorCode maps input-contract violations to 400 and anything else to 500.
func errorCode(err error) int {
	switch {
	case errors.Is(err, suggest.ErrEmptyInput),
		errors.Is(err, suggest.ErrPrefixTooShort),
		errors.Is(err, suggest.ErrNonPositiveWindow),
		errors.Is(err, trie.ErrInvalidCharacter),
		errors.Is(err, ErrPrefixTooLong),
		errors.Is(err, ErrUnknownOp):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(id string, err error) ErrorResponse {
	return ErrorResponse{ID: id, Error: err.Error(), Code: errorCode(err)}
}
