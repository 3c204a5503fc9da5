package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/csv2beancount/internal/config"
	"github.com/cleared-dev/csv2beancount/internal/model"
)

// Mapper turns input rows into transactions using a resolved configuration.
// It holds no per-row state.
type Mapper struct {
	settings config.Settings
	rules    config.RuleTable
	width    int
}

// New creates a Mapper for cfg.
func New(cfg *config.Config) *Mapper {
	return &Mapper{
		settings: cfg.Settings,
		rules:    cfg.Rules,
		width:    cfg.Settings.Width(),
	}
}

// Map converts one row. line is the row's position in the input and is
// only used for error context.
func (m *Mapper) Map(line int, row []string) (model.Transaction, error) {
	s := m.settings

	var desc string
	if s.DescriptionColumn < len(row) {
		desc = row[s.DescriptionColumn]
	}
	if len(row) < m.width {
		return model.Transaction{}, &RowError{
			Line:        line,
			Description: desc,
			Err:         fmt.Errorf("%w: need %d fields, got %d", ErrIndexOutOfRange, m.width, len(row)),
		}
	}

	rawDate := row[s.DateColumn]
	date, err := time.Parse(s.DateLayout, strings.TrimSpace(rawDate))
	if err != nil {
		return model.Transaction{}, &RowError{
			Line:        line,
			Description: desc,
			Err:         fmt.Errorf("%w: %q does not match %s", ErrBadDate, rawDate, s.DateFormat),
		}
	}

	magnitude, err := m.amount(row)
	if err != nil {
		return model.Transaction{}, &RowError{Line: line, Description: desc, Err: err}
	}

	account, memo := m.rules.Resolve(desc, s.DefaultAccount)

	return model.Transaction{
		Date:              date,
		Description:       desc,
		ProcessingAccount: s.ProcessingAccount,
		OtherAccount:      account,
		Currency:          s.Currency,
		Magnitude:         magnitude,
		Memo:              memo,
	}, nil
}

// amount reads amount-in as a positive movement, falling back to amount-out
// as a negative one. toggle_sign inverts the result.
func (m *Mapper) amount(row []string) (decimal.Decimal, error) {
	in := strings.TrimSpace(row[m.settings.AmountInColumn])
	out := strings.TrimSpace(row[m.settings.AmountOutColumn])

	var magnitude decimal.Decimal
	if d, err := decimal.NewFromString(in); err == nil {
		magnitude = d
	} else if d, err := decimal.NewFromString(out); err == nil {
		magnitude = d.Neg()
	} else {
		return decimal.Decimal{}, fmt.Errorf("%w: amount in %q, amount out %q", ErrUnparsableAmount, in, out)
	}

	if m.settings.ToggleSign {
		magnitude = magnitude.Neg()
	}
	return magnitude, nil
}
