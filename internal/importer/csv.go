package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

const csvFormat = "csv"

// CSVParser reads delimited text. Rows may have differing widths; short
// rows are left for the mapper to reject.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return csvFormat }

// Open returns a Source over r.
func (p *CSVParser) Open(r io.Reader, opts Options) (Source, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return &csvSource{cr: cr, skip: opts.Skip}, nil
}

type csvSource struct {
	cr   *csv.Reader
	skip int
}

func (s *csvSource) Next() (Row, error) {
	for {
		rec, err := s.cr.Read()
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		if err != nil {
			return Row{}, fmt.Errorf("reading CSV: %w", err)
		}
		if s.skip > 0 {
			s.skip--
			continue
		}
		line, _ := s.cr.FieldPos(0)
		return Row{Line: line, Fields: rec}, nil
	}
}

func (s *csvSource) Close() error { return nil }
