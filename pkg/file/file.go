package file

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// Option configures the Parser.
type Option func(*Parser)

// Parser reads line-oriented configuration files with customizable settings.
type Parser struct {
	maxSize        int
	skipComments   bool
	fieldDelimiter string
}

// WithMaxSize sets the maximum size (in bytes) of the file to be parsed.
// Default is 1MB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether to skip lines starting with '#'.
// Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithFieldDelimiter sets the delimiter used by GetFields to split each
// line into columns. Default is "|".
func WithFieldDelimiter(delim string) Option {
	return func(p *Parser) {
		p.fieldDelimiter = delim
	}
}

// NewParser creates a new file parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		maxSize:        1 << 20, // 1MB default
		skipComments:   true,
		fieldDelimiter: "|",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetLines reads the file at the given path and returns its non-empty,
// non-comment lines with surrounding whitespace trimmed. An error is
// returned if the file cannot be read, exceeds the maximum size, or
// contains invalid UTF-8 content.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content of file %q is not valid UTF-8", path)
	}

	if len(b) > p.maxSize {
		return nil, fmt.Errorf("file %q exceeds maximum size of %d bytes", path, p.maxSize)
	}

	parts := strings.Split(string(b), "\n")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		cleanPart := strings.TrimSpace(part)
		if cleanPart == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(cleanPart, "#") {
			continue
		}
		result = append(result, cleanPart)
	}

	return result, nil
}

// GetFields reads the file and splits every retained line into columns
// using the configured field delimiter, trimming whitespace around each
// column. Lines keep their original order.
func (p *Parser) GetFields(path string) ([][]string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}

	result := make([][]string, 0, len(lines))
	for _, line := range lines {
		cols := strings.Split(line, p.fieldDelimiter)
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		result = append(result, cols)
	}

	return result, nil
}
