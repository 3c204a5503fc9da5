package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one converted input row: a dated movement between the
// processing account and the resolved other account.
type Transaction struct {
	Date              time.Time
	Description       string // verbatim from the input row
	ProcessingAccount string
	OtherAccount      string
	Currency          string
	Magnitude         decimal.Decimal // amount posted to ProcessingAccount
	Memo              string          // empty = no memo
}

// Posting is one leg of a Transaction.
type Posting struct {
	Account  string
	Amount   decimal.Decimal
	Currency string
}

// Postings returns the processing-account leg followed by its counter-leg.
func (t Transaction) Postings() []Posting {
	return []Posting{
		{Account: t.ProcessingAccount, Amount: t.Magnitude, Currency: t.Currency},
		{Account: t.OtherAccount, Amount: t.Magnitude.Neg(), Currency: t.Currency},
	}
}

// HasMemo reports whether the transaction carries a memo.
func (t Transaction) HasMemo() bool { return t.Memo != "" }
