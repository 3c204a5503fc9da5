package beancount

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/csv2beancount/internal/model"
)

// DateFormat is the ISO date layout used for transaction headers.
const DateFormat = "2006-01-02"

const (
	flagCleared = "*"
	indent      = "  "
)

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}

// Format renders a transaction as a beancount block without a trailing
// newline:
//
//	2023-01-02 * "Coffee Shop" "latte"
//	  Assets:Checking -4.5 USD
//	  Expenses:Food:Coffee 4.5 USD
//
// The memo string is emitted only when the transaction carries one.
func Format(t model.Transaction) string {
	var b strings.Builder
	b.WriteString(t.Date.Format(DateFormat))
	b.WriteString(" " + flagCleared + " ")
	b.WriteString(quote(t.Description))
	if t.HasMemo() {
		b.WriteString(" ")
		b.WriteString(quote(t.Memo))
	}
	for _, p := range t.Postings() {
		fmt.Fprintf(&b, "\n%s%s %s %s", indent, p.Account, p.Amount.String(), p.Currency)
	}
	return b.String()
}

// CheckBalance verifies that the postings of t sum to zero in one currency.
func CheckBalance(t model.Transaction) error {
	sum := decimal.Zero
	postings := t.Postings()
	for _, p := range postings {
		if p.Currency != postings[0].Currency {
			return fmt.Errorf("postings mix currencies %s and %s", postings[0].Currency, p.Currency)
		}
		sum = sum.Add(p.Amount)
	}
	if !sum.IsZero() {
		return fmt.Errorf("postings sum to %s %s, not zero", sum, postings[0].Currency)
	}
	return nil
}

// Writer writes transaction blocks separated by blank lines.
type Writer struct {
	w     io.Writer
	count int
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write renders t after checking that it balances.
func (w *Writer) Write(t model.Transaction) error {
	if err := CheckBalance(t); err != nil {
		return fmt.Errorf("transaction %q: %w", t.Description, err)
	}

	var sep string
	if w.count > 0 {
		sep = "\n"
	}
	if _, err := io.WriteString(w.w, sep+Format(t)+"\n"); err != nil {
		return fmt.Errorf("writing transaction %d: %w", w.count+1, err)
	}
	w.count++
	return nil
}

// Count returns the number of transactions written.
func (w *Writer) Count() int { return w.count }
