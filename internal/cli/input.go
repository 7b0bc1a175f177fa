// Package cli handles an interactive shell over the index for debugging and trying out queries.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const help = `commands:
  <prefix>          completions of prefix
  :k N <prefix>     completions within a window of N lengths
  :has <word>       is word stored
  :del <word>       delete word
  :load <text...>   load words from text
  :words            list every stored term
  :size             number of stored terms
  :stats            index and cache counters
  :set <key> <val>  window or limit for this session, or save
                    max_limit, max_prefix or http_addr to the config file
  :help             this message`

// InputHandler reads commands line by line and prints their results.
// Bare input is a prefix query using the default window and limit.
type InputHandler struct {
	completer    suggest.Completer
	window       int
	limit        int
	in           io.Reader
	prompt       io.Writer
	out          *log.Logger
	cfg          *config.Config
	cfgPath      string
	wordStyle    lipgloss.Style
	requestCount int
}

// NewInputHandler creates a shell on stdin/stdout. A window or limit of 0
// means unbounded.
func NewInputHandler(completer suggest.Completer, window, limit int) *InputHandler {
	return NewInputHandlerWithIO(completer, window, limit, os.Stdin, os.Stdout)
}

// NewInputHandlerWithIO creates a shell over custom streams
func NewInputHandlerWithIO(completer suggest.Completer, window, limit int, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		completer: completer,
		window:    window,
		limit:     limit,
		in:        in,
		prompt:    out,
		out:       logger.NewWithWriter(out, ""),
		wordStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
	}
}

// WithConfig lets :set save server settings into the config file at path.
func (h *InputHandler) WithConfig(cfg *config.Config, path string) *InputHandler {
	h.cfg = cfg
	h.cfgPath = path
	return h
}

// Start runs the loop until the input ends
func (h *InputHandler) Start() error {
	h.out.Print("wordtrie CLI")
	h.out.Print("type a prefix and press Enter, :help for commands (Ctrl+C to exit)")

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.prompt, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput runs a single command
func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	cmd, rest := utils.SplitCommand(line)

	switch cmd {
	case ":help":
		h.out.Print(help)
	case ":k":
		raw, prefix := utils.SplitCommand(rest)
		k, err := strconv.Atoi(raw)
		if err != nil {
			h.out.Errorf("Window must be a number: %q", raw)
			return
		}
		h.query(prefix, k)
	case ":has":
		found, err := h.completer.Contains(rest)
		if err != nil {
			h.out.Errorf("%v", err)
			return
		}
		h.out.Printf("%s: %t", rest, found)
	case ":del":
		removed, err := h.completer.Delete(rest)
		if err != nil {
			h.out.Errorf("%v", err)
			return
		}
		if removed {
			h.out.Printf("deleted %s", rest)
		} else {
			h.out.Printf("%s was not stored", rest)
		}
	case ":load":
		n := h.completer.Load(rest)
		h.out.Printf("%s terms stored", utils.FormatWithCommas(n))
	case ":words":
		words := slices.Collect(h.completer.Terms())
		h.printWords(words)
	case ":size":
		h.out.Printf("%s terms stored", utils.FormatWithCommas(h.completer.Size()))
	case ":stats":
		stats := h.completer.Stats()
		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			h.out.Printf("%-16s %s", k, utils.FormatWithCommas(stats[k]))
		}
	case ":set":
		h.set(rest)
	default:
		if strings.HasPrefix(cmd, ":") {
			h.out.Errorf("Unknown command %s, try :help", cmd)
			return
		}
		h.query(line, h.window)
	}
}

// set changes a session value or persists a server setting
func (h *InputHandler) set(args string) {
	key, value := utils.SplitCommand(args)
	if key == "" || value == "" {
		h.out.Error("Usage: :set <key> <value>")
		return
	}

	switch key {
	case "window", "limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			h.out.Errorf("%s must be a number >= 0: %q", key, value)
			return
		}
		if key == "window" {
			h.window = n
		} else {
			h.limit = n
		}
		h.out.Printf("%s set to %d for this session", key, n)
		return
	case "max_limit", "max_prefix", "http_addr":
	default:
		h.out.Errorf("Unknown setting %s, try :help", key)
		return
	}

	if h.cfg == nil || h.cfgPath == "" {
		h.out.Errorf("No config file to save %s to", key)
		return
	}
	var maxLimit, maxPrefix *int
	var httpAddr *string
	if key == "http_addr" {
		httpAddr = &value
	} else {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			h.out.Errorf("%s must be a positive number: %q", key, value)
			return
		}
		if key == "max_limit" {
			maxLimit = &n
		} else {
			maxPrefix = &n
		}
	}
	if err := h.cfg.Update(h.cfgPath, maxLimit, maxPrefix, httpAddr); err != nil {
		h.out.Errorf("Failed to save config: %v", err)
		return
	}
	h.out.Printf("%s = %s saved to %s", key, value, h.cfgPath)
}

// query prints the completions of prefix; k <= 0 uses the unbounded window
func (h *InputHandler) query(prefix string, k int) {
	start := time.Now()
	var words []string
	var err error
	if k > 0 {
		words, err = h.completer.WordsWithPrefixWindow(prefix, k)
	} else {
		words, err = h.completer.WordsWithPrefix(prefix)
	}
	if err != nil {
		h.out.Errorf("%v", err)
		return
	}
	log.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if len(words) == 0 {
		h.out.Warnf("No completions found for prefix: '%s'", prefix)
		return
	}
	total := len(words)
	if h.limit > 0 && total > h.limit {
		words = words[:h.limit]
	}
	h.out.Printf("Found %d completions for prefix '%s':", total, prefix)
	h.printWords(words)
}

func (h *InputHandler) printWords(words []string) {
	for i, w := range words {
		weight, _ := h.completer.Weight(w)
		h.out.Printf("%2d. %-24s (weight: %d)", i+1, h.wordStyle.Render(w), weight)
	}
}
