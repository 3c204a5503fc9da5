package convert

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/cleared-dev/csv2beancount/internal/beancount"
	"github.com/cleared-dev/csv2beancount/internal/config"
	"github.com/cleared-dev/csv2beancount/internal/importer"
	"github.com/cleared-dev/csv2beancount/internal/logging"
	"github.com/cleared-dev/csv2beancount/internal/mapper"
)

// Result summarizes a conversion run.
type Result struct {
	Transactions int
	BlankRows    int // empty spreadsheet rows passed over
}

// Converter runs the single pass from input rows to ledger text.
type Converter struct {
	cfg    *config.Config
	mapper *mapper.Mapper
	log    *zap.Logger
}

// New creates a Converter for cfg. A nil logger discards diagnostics.
func New(cfg *config.Config, log *zap.Logger) *Converter {
	if log == nil {
		log = logging.Nop()
	}
	return &Converter{cfg: cfg, mapper: mapper.New(cfg), log: log}
}

// Options returns the source options implied by the configuration.
func (c *Converter) Options() importer.Options {
	return importer.Options{
		Delimiter: c.cfg.Settings.Delimiter,
		Skip:      c.cfg.Settings.Skip,
		Width:     c.cfg.Settings.Width(),
	}
}

// ConvertFile opens path with the parser the registry picks for it and
// converts every row to w.
func (c *Converter) ConvertFile(path string, reg *importer.Registry, w io.Writer) (Result, error) {
	parser, err := reg.ForPath(path)
	if err != nil {
		return Result{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening input %s: %w", path, err)
	}
	defer f.Close()

	src, err := parser.Open(f, c.Options())
	if err != nil {
		return Result{}, fmt.Errorf("input %s: %w", path, err)
	}
	defer src.Close()

	c.log.Debug("converting", zap.String("path", path), zap.String("format", parser.Format()))
	res, err := c.Run(src, w)
	if err != nil {
		return res, fmt.Errorf("input %s: %w", path, err)
	}
	return res, nil
}

// Run converts rows from src in order, writing each transaction as soon as
// it is mapped. It stops at the first failing row; transactions already
// written stay written.
func (c *Converter) Run(src importer.Source, w io.Writer) (Result, error) {
	var res Result
	out := beancount.NewWriter(w)

	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}

		if row.Empty {
			c.log.Warn("skipping empty spreadsheet row", zap.Int("line", row.Line))
			res.BlankRows++
			continue
		}

		txn, err := c.mapper.Map(row.Line, row.Fields)
		if err != nil {
			return res, err
		}
		if err := out.Write(txn); err != nil {
			return res, err
		}
		res.Transactions++

		c.log.Debug("converted row",
			zap.Int("line", row.Line),
			zap.String("description", txn.Description),
			zap.String("account", txn.OtherAccount),
			zap.Stringer("amount", txn.Magnitude),
		)
	}

	c.log.Info("conversion finished",
		zap.Int("transactions", res.Transactions),
		zap.Int("blank_rows", res.BlankRows),
	)
	return res, nil
}
