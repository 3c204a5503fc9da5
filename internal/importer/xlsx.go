package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const xlsxFormat = "xlsx"

// XLSXParser reads the first sheet of a workbook. Cell values are the
// formatted text shown in a spreadsheet application.
type XLSXParser struct{}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return xlsxFormat }

// Open returns a Source over the first sheet of the workbook in r.
func (p *XLSXParser) Open(r io.Reader, opts Options) (Source, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}

	sheet := f.GetSheetName(0)
	if sheet == "" {
		f.Close()
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	return &xlsxSource{file: f, rows: rows, skip: opts.Skip, width: opts.Width}, nil
}

type xlsxSource struct {
	file  *excelize.File
	rows  *excelize.Rows
	skip  int
	width int
	line  int
}

func (s *xlsxSource) Next() (Row, error) {
	for s.rows.Next() {
		s.line++
		cols, err := s.rows.Columns()
		if err != nil {
			return Row{}, fmt.Errorf("reading sheet row %d: %w", s.line, err)
		}
		if s.skip > 0 {
			s.skip--
			continue
		}
		empty := blankCells(cols)
		// Trailing empty cells are not stored in the sheet.
		for len(cols) < s.width {
			cols = append(cols, "")
		}
		return Row{Line: s.line, Fields: cols, Empty: empty}, nil
	}
	if err := s.rows.Error(); err != nil {
		return Row{}, fmt.Errorf("reading sheet: %w", err)
	}
	return Row{}, io.EOF
}

func blankCells(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (s *xlsxSource) Close() error {
	if err := s.rows.Close(); err != nil {
		s.file.Close()
		return fmt.Errorf("closing sheet: %w", err)
	}
	return s.file.Close()
}
