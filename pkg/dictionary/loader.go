/*
Package dictionary feeds text from readers and files into a suggest.Completer.

Lines go through Completer.Load in batches, so the same tokenization, case
folding and length filter apply as to texts passed in directly. Text corpora
are split on whitespace. Word lists hold one term per line: blank lines and
lines starting with '#' are ignored, and a line holding more than one word
is rejected whole instead of being split. Files are recognized by extension
(see DetectFileFormat) and checked to be text before they are read.
*/
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
)

const (
	// maxLineSize bounds a single line of input.
	maxLineSize = 1 << 20
	// batchLines is how many lines are handed to the completer per Load call.
	batchLines = 4096
)

// LoaderStats provides statistics about the loading process
type LoaderStats struct {
	Files         int
	Lines         int
	RejectedLines int
	TotalWords    int
}

// Loader reads dictionaries into a completer
type Loader struct {
	index  suggest.Completer
	logger *log.Logger
	stats  LoaderStats
}

// NewLoader creates a loader for index
func NewLoader(index suggest.Completer) *Loader {
	return &Loader{
		index:  index,
		logger: logger.New("dictionary"),
	}
}

// LoadReader loads r as free text and returns the resulting term count
func (l *Loader) LoadReader(r io.Reader) (int, error) {
	return l.load(r, FormatText)
}

// LoadWordList loads r as one term per line and returns the resulting term count
func (l *Loader) LoadWordList(r io.Reader) (int, error) {
	return l.load(r, FormatWordList)
}

func (l *Loader) load(r io.Reader, format FileFormat) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	total := l.index.Size()
	batch := make([]string, 0, batchLines)
	flush := func() {
		if len(batch) > 0 {
			total = l.index.Load(batch...)
			batch = batch[:0]
		}
	}

	for scanner.Scan() {
		l.stats.Lines++
		line := scanner.Text()
		if format == FormatWordList {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if strings.ContainsFunc(line, unicode.IsSpace) {
				l.stats.RejectedLines++
				l.logger.Debugf("Rejected word list line %d: %q", l.stats.Lines, line)
				continue
			}
		}
		batch = append(batch, line)
		if len(batch) == batchLines {
			flush()
		}
	}
	flush()

	l.stats.TotalWords = total
	if err := scanner.Err(); err != nil {
		return total, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return total, nil
}

// LoadFile loads a single dictionary file according to its format
func (l *Loader) LoadFile(path string) (int, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return l.index.Size(), err
	}
	info, _ := GetFormatInfo(format)

	file, err := os.Open(path)
	if err != nil {
		return l.index.Size(), fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	defer file.Close()

	start := time.Now()
	before := l.index.Size()
	total, err := l.load(file, format)
	if err != nil {
		return total, fmt.Errorf("%s: %w", path, err)
	}
	l.stats.Files++
	l.logger.Debug("Loaded dictionary",
		"file", path,
		"format", info.Description,
		"new", total-before,
		"total", total,
		"took", time.Since(start))
	return total, nil
}

// LoadFiles loads files in order, stopping at the first failure
func (l *Loader) LoadFiles(paths ...string) (int, error) {
	total := l.index.Size()
	for _, path := range paths {
		var err error
		if total, err = l.LoadFile(path); err != nil {
			return total, err
		}
	}
	return total, nil
}

// Stats returns current loading statistics
func (l *Loader) Stats() LoaderStats {
	return l.stats
}
