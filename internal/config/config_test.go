package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
csv:
  delimiter: ';'
  currency: USD
  processing_account: Assets:Checking
  default_account: Expenses:Unknown
  date: 0
  description: 1
  amount_in: 2
  amount_out: 3
  skip: 1
  date_format: "%d.%m.%Y"
  toggle_sign: true
transactions:
  "Coffee Shop":
    account: Expenses:Food:Coffee
    info: morning coffee
  "ACME PAYROLL":
    account: Income:Salary
  "Mystery":
    info: ask the bank
  "Empty Rule":
`

const minimalConfig = `
csv:
  currency: EUR
  processing_account: Assets:Bank
  default_account: Expenses:Misc
  date: 0
  description: 1
  amount_in: 2
  amount_out: 3
`

func requireConfigError(t *testing.T, err error) *ConfigError {
	t.Helper()
	require.Error(t, err)
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr), "expected *ConfigError, got %T: %v", err, err)
	return cerr
}

func TestParse_Full(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	s := cfg.Settings
	assert.Equal(t, ';', s.Delimiter)
	assert.Equal(t, "USD", s.Currency)
	assert.Equal(t, "Assets:Checking", s.ProcessingAccount)
	assert.Equal(t, "Expenses:Unknown", s.DefaultAccount)
	assert.Equal(t, 0, s.DateColumn)
	assert.Equal(t, 1, s.DescriptionColumn)
	assert.Equal(t, 2, s.AmountInColumn)
	assert.Equal(t, 3, s.AmountOutColumn)
	assert.Equal(t, 1, s.Skip)
	assert.Equal(t, "%d.%m.%Y", s.DateFormat)
	assert.Equal(t, "2.1.2006", s.DateLayout)
	assert.True(t, s.ToggleSign)
	assert.Equal(t, 4, s.Width())

	require.Len(t, cfg.Rules, 4)
	assert.Equal(t, Rule{Account: "Expenses:Food:Coffee", Info: "morning coffee"}, cfg.Rules["Coffee Shop"])
	assert.Equal(t, Rule{Account: "Income:Salary"}, cfg.Rules["ACME PAYROLL"])
	assert.Equal(t, Rule{Info: "ask the bank"}, cfg.Rules["Mystery"])
	assert.Equal(t, Rule{}, cfg.Rules["Empty Rule"])
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalConfig))
	require.NoError(t, err)

	s := cfg.Settings
	assert.Equal(t, ',', s.Delimiter)
	assert.Equal(t, 0, s.Skip)
	assert.Equal(t, DefaultDateFormat, s.DateFormat)
	assert.Equal(t, "1/2/2006", s.DateLayout)
	assert.False(t, s.ToggleSign)
	assert.NotNil(t, cfg.Rules)
	assert.Empty(t, cfg.Rules)
}

func TestParse_NullRulesSection(t *testing.T) {
	cfg, err := Parse([]byte(minimalConfig + "transactions:\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Rules)
}

func TestParse_MissingRequired(t *testing.T) {
	fields := []string{
		"currency",
		"processing_account",
		"default_account",
		"date",
		"description",
		"amount_in",
		"amount_out",
	}
	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			var lines []string
			for _, line := range strings.Split(minimalConfig, "\n") {
				if strings.HasPrefix(strings.TrimSpace(line), field+":") {
					continue
				}
				lines = append(lines, line)
			}
			_, err := Parse([]byte(strings.Join(lines, "\n")))
			cerr := requireConfigError(t, err)
			assert.Equal(t, KindMissing, cerr.Kind)
			assert.Equal(t, "csv."+field, cerr.Field)
			assert.Contains(t, cerr.Error(), "csv."+field)
			assert.Equal(t, 3, cerr.Line, "line of the csv mapping")
		})
	}
}

func TestParse_NullRequiredIsMissing(t *testing.T) {
	doc := strings.Replace(minimalConfig, "currency: EUR", "currency: ~", 1)
	_, err := Parse([]byte(doc))
	cerr := requireConfigError(t, err)
	assert.Equal(t, KindMissing, cerr.Kind)
	assert.Equal(t, "csv.currency", cerr.Field)
}

func TestParse_WrongType(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		field   string
	}{
		{"string index", [2]string{"date: 0", `date: "0"`}, "csv.date"},
		{"float index", [2]string{"amount_in: 2", "amount_in: 2.5"}, "csv.amount_in"},
		{"numeric currency", [2]string{"currency: EUR", "currency: 978"}, "csv.currency"},
		{"list account", [2]string{"default_account: Expenses:Misc", "default_account: [a, b]"}, "csv.default_account"},
		{"string toggle", [2]string{"amount_out: 3", "amount_out: 3\n  toggle_sign: \"yes\""}, "csv.toggle_sign"},
		{"bool skip", [2]string{"amount_out: 3", "amount_out: 3\n  skip: true"}, "csv.skip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(minimalConfig, tt.replace[0], tt.replace[1], 1)
			_, err := Parse([]byte(doc))
			cerr := requireConfigError(t, err)
			assert.Equal(t, KindWrongType, cerr.Kind)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"comment only", "# nothing here\n"},
		{"scalar", "just a string\n"},
		{"sequence", "- csv\n- transactions\n"},
		{"no settings section", "transactions:\n  foo:\n    account: A\n"},
		{"settings not mapping", "csv: [1, 2]\n"},
		{"rules not mapping", minimalConfig + "transactions:\n  - foo\n"},
		{"bad yaml", "csv: [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			cerr := requireConfigError(t, err)
			assert.Equal(t, KindMalformed, cerr.Kind)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		field   string
		line    int
	}{
		{"negative index", [2]string{"date: 0", "date: -1"}, "csv.date", 6},
		{"duplicate column", [2]string{"amount_out: 3", "amount_out: 2"}, "csv.amount_out", 9},
		{"long delimiter", [2]string{"amount_out: 3", "amount_out: 3\n  delimiter: ';;'"}, "csv.delimiter", 10},
		{"quote delimiter", [2]string{"amount_out: 3", "amount_out: 3\n  delimiter: '\"'"}, "csv.delimiter", 10},
		{"empty delimiter", [2]string{"amount_out: 3", "amount_out: 3\n  delimiter: ''"}, "csv.delimiter", 10},
		{"negative skip", [2]string{"amount_out: 3", "amount_out: 3\n  skip: -2"}, "csv.skip", 10},
		{"bad format", [2]string{"amount_out: 3", "amount_out: 3\n  date_format: '%Q'"}, "csv.date_format", 10},
		{"duplicate key", [2]string{"amount_out: 3", "amount_out: 3\n  currency: USD"}, "csv.currency", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(minimalConfig, tt.replace[0], tt.replace[1], 1)
			_, err := Parse([]byte(doc))
			cerr := requireConfigError(t, err)
			assert.Equal(t, KindInvalid, cerr.Kind)
			assert.Equal(t, tt.field, cerr.Field)
			assert.Equal(t, tt.line, cerr.Line)
			assert.Contains(t, cerr.Error(), fmt.Sprintf("(line %d)", tt.line))
		})
	}
}

func TestParse_TabDelimiter(t *testing.T) {
	doc := strings.Replace(minimalConfig, "amount_out: 3", "amount_out: 3\n  delimiter: \"\\t\"", 1)
	cfg, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, '\t', cfg.Settings.Delimiter)
}

func TestParse_RuleWrongTypes(t *testing.T) {
	tests := []struct {
		name  string
		rules string
		field string
	}{
		{"numeric account", "  Shop:\n    account: 12\n", `transactions."Shop".account`},
		{"mapping info", "  Shop:\n    info: {a: b}\n", `transactions."Shop".info`},
		{"scalar rule", "  Shop: Expenses:Food\n", `transactions."Shop"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(minimalConfig + "transactions:\n" + tt.rules))
			cerr := requireConfigError(t, err)
			assert.Equal(t, KindWrongType, cerr.Kind)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestParse_DuplicateRule(t *testing.T) {
	rules := "transactions:\n  Shop:\n    info: a\n  Shop:\n    info: b\n"
	_, err := Parse([]byte(minimalConfig + rules))
	cerr := requireConfigError(t, err)
	assert.Equal(t, KindInvalid, cerr.Kind)
	assert.Equal(t, `transactions."Shop"`, cerr.Field)
	assert.Equal(t, 13, cerr.Line)
}

func TestParse_NumericRuleKey(t *testing.T) {
	rules := "transactions:\n  12345:\n    account: Expenses:Fees\n"
	cfg, err := Parse([]byte(minimalConfig + rules))
	require.NoError(t, err)
	assert.Equal(t, "Expenses:Fees", cfg.Rules["12345"].Account)
}

func TestRuleTable_Resolve(t *testing.T) {
	rules := RuleTable{
		"Both":     {Account: "Expenses:Both", Info: "memo"},
		"InfoOnly": {Info: "just memo"},
		"AcctOnly": {Account: "Expenses:Acct"},
	}
	tests := []struct {
		desc        string
		wantAccount string
		wantMemo    string
	}{
		{"Both", "Expenses:Both", "memo"},
		{"InfoOnly", "Expenses:Default", "just memo"},
		{"AcctOnly", "Expenses:Acct", ""},
		{"Unknown", "Expenses:Default", ""},
		{"both", "Expenses:Default", ""},
		{" Both", "Expenses:Default", ""},
	}
	for _, tt := range tests {
		account, memo := rules.Resolve(tt.desc, "Expenses:Default")
		assert.Equal(t, tt.wantAccount, account, "account for %q", tt.desc)
		assert.Equal(t, tt.wantMemo, memo, "memo for %q", tt.desc)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Settings.Currency)
}

func TestLoadNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.yaml")
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
}

func TestLoadInvalidReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transactions: {}\n"), 0o644))

	_, err := Load(path)
	cerr := requireConfigError(t, err)
	assert.Equal(t, KindMalformed, cerr.Kind)
	assert.Contains(t, err.Error(), path)
}
