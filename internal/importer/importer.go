package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Row is one input record with its position in the source.
type Row struct {
	Line   int // 1-based line (CSV) or sheet row (XLSX)
	Fields []string
	// Empty marks a spreadsheet row without any non-blank cell. Delimited
	// text never sets it; a row of bare delimiters is still a record.
	Empty bool
}

// Source yields rows in input order. Next returns io.EOF after the last row.
type Source interface {
	Next() (Row, error)
	Close() error
}

// Options control how a source reads its input.
type Options struct {
	Delimiter rune // field separator for delimited text
	Skip      int  // leading records to drop
	Width     int  // rows shorter than this are padded where the format drops trailing blanks
}

// Parser opens a Source for one input format.
type Parser interface {
	Open(r io.Reader, opts Options) (Source, error)
	Format() string
}

// Registry holds parsers keyed by format name, which doubles as the file
// extension the parser handles.
type Registry struct {
	parsers  map[string]Parser
	fallback string
}

// NewRegistry creates an empty parser registry. Paths with an unknown
// extension use the parser registered as fallback.
func NewRegistry(fallback string) *Registry {
	return &Registry{parsers: make(map[string]Parser), fallback: strings.ToLower(fallback)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForPath returns the parser for path's extension, or the fallback parser.
func (r *Registry) ForPath(path string) (Parser, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if p := r.parsers[ext]; p != nil {
		return p, nil
	}
	if p := r.parsers[r.fallback]; p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("no parser for %s", path)
}

// DefaultRegistry returns a registry with all built-in parsers, falling back
// to delimited text.
func DefaultRegistry() *Registry {
	r := NewRegistry(csvFormat)
	r.Register(&CSVParser{})
	r.Register(&XLSXParser{})
	return r
}
