package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// FileFormat represents the dictionary file formats the loader accepts
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // free text, one or more words per line
	FormatWordList           // one word per line
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Corpus",
		Extensions:  []string{".txt", ".text", ".md"},
	},
	FormatWordList: {
		Format:      FormatWordList,
		Description: "Word List",
		Extensions:  []string{".lst", ".words", ".dic"},
	},
}

// sniffSize is how much of a file is read to check it holds text
const sniffSize = 1024

// DetectFileFormat picks the format from the file extension and checks the
// file is readable text
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, valid := range info.Extensions {
			if ext == valid {
				if err := validateText(filename); err != nil {
					return FormatUnknown, err
				}
				return format, nil
			}
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s: unsupported extension %q", filename, ext)
}

// validateText checks a file exists, is regular and starts with valid UTF-8
func validateText(filename string) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", filename)
	}
	if info.Size() == 0 {
		log.Debugf("Text file %s is empty", filename)
		return nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	buffer := make([]byte, sniffSize)
	n, err := file.Read(buffer)
	if err != nil {
		return fmt.Errorf("failed to read from text file %s: %w", filename, err)
	}
	sample := buffer[:n]
	// a multi-byte rune may be cut at the end of the sample
	for i := 0; i < utf8.UTFMax && len(sample) > 0 && !utf8.Valid(sample); i++ {
		sample = sample[:len(sample)-1]
	}
	if !utf8.Valid(sample) {
		return fmt.Errorf("file %s does not look like text", filename)
	}
	log.Debugf("Text file %s validated", filename)
	return nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}
