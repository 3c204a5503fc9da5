package config

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Top-level section keys of the configuration document.
const (
	SettingsSection = "csv"
	RulesSection    = "transactions"
)

// Defaults for optional settings.
const (
	DefaultDelimiter  = ','
	DefaultDateFormat = "%m/%d/%Y"
)

// Config is a resolved configuration document.
type Config struct {
	Settings Settings
	Rules    RuleTable
}

// Settings describes the input column layout and the fixed ledger values.
// It is read-only once resolved.
type Settings struct {
	Delimiter         rune
	Currency          string
	ProcessingAccount string
	DefaultAccount    string
	DateColumn        int
	DescriptionColumn int
	AmountInColumn    int
	AmountOutColumn   int
	Skip              int
	DateFormat        string // strftime pattern as configured
	DateLayout        string // DateFormat translated to a Go time layout
	ToggleSign        bool
}

// Width returns the minimum number of fields a row needs to carry every
// configured column.
func (s Settings) Width() int {
	w := s.DateColumn
	for _, c := range []int{s.DescriptionColumn, s.AmountInColumn, s.AmountOutColumn} {
		if c > w {
			w = c
		}
	}
	return w + 1
}

// Rule overrides the destination account and/or adds a memo for one exact
// description. Empty fields fall back to the default account and no memo.
type Rule struct {
	Account string
	Info    string
}

// RuleTable maps raw description text to its Rule.
type RuleTable map[string]Rule

// Resolve returns the destination account and memo for desc. Matching is
// exact and case-sensitive.
func (t RuleTable) Resolve(desc, defaultAccount string) (account, memo string) {
	r, ok := t[desc]
	if !ok {
		return defaultAccount, ""
	}
	if r.Account == "" {
		return defaultAccount, r.Info
	}
	return r.Account, r.Info
}

// Load reads and resolves a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse resolves a YAML configuration document. Every failure is a
// *ConfigError.
func Parse(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Kind: KindMalformed, Detail: err.Error(), Err: err}
	}

	root := &doc
	if root.Kind == 0 {
		return nil, malformed("document is empty")
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, malformed("document is empty")
		}
		root = root.Content[0]
	}
	root = resolve(root)
	if root.Kind != yaml.MappingNode {
		return nil, malformed("top level must be a mapping with %q and %q sections", SettingsSection, RulesSection)
	}

	top, err := newSection("", root)
	if err != nil {
		return nil, err
	}

	settingsNode, ok := top.get(SettingsSection)
	if !ok {
		return nil, malformed("missing %q section", SettingsSection)
	}
	if settingsNode.Kind != yaml.MappingNode {
		return nil, malformed("%q section must be a mapping", SettingsSection)
	}
	settings, err := parseSettings(settingsNode)
	if err != nil {
		return nil, err
	}

	rules := RuleTable{}
	if rulesNode, ok := top.get(RulesSection); ok {
		switch rulesNode.Kind {
		case yaml.MappingNode:
			rules, err = parseRules(rulesNode)
			if err != nil {
				return nil, err
			}
		case yaml.ScalarNode:
			if rulesNode.ShortTag() != nullTag {
				return nil, malformed("%q section must be a mapping", RulesSection)
			}
		default:
			return nil, malformed("%q section must be a mapping", RulesSection)
		}
	}

	return &Config{Settings: settings, Rules: rules}, nil
}

func parseSettings(n *yaml.Node) (Settings, error) {
	sec, err := newSection(SettingsSection, n)
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		Delimiter:  DefaultDelimiter,
		DateFormat: DefaultDateFormat,
	}

	if s.Currency, err = sec.requiredString("currency"); err != nil {
		return Settings{}, err
	}
	if s.ProcessingAccount, err = sec.requiredString("processing_account"); err != nil {
		return Settings{}, err
	}
	if s.DefaultAccount, err = sec.requiredString("default_account"); err != nil {
		return Settings{}, err
	}
	if s.DateColumn, err = sec.requiredIndex("date"); err != nil {
		return Settings{}, err
	}
	if s.AmountInColumn, err = sec.requiredIndex("amount_in"); err != nil {
		return Settings{}, err
	}
	if s.AmountOutColumn, err = sec.requiredIndex("amount_out"); err != nil {
		return Settings{}, err
	}
	if s.DescriptionColumn, err = sec.requiredIndex("description"); err != nil {
		return Settings{}, err
	}

	if d, ok, err := sec.optionalString("delimiter"); err != nil {
		return Settings{}, err
	} else if ok {
		if s.Delimiter, err = parseDelimiter(sec.field("delimiter"), sec.fields["delimiter"], d); err != nil {
			return Settings{}, err
		}
	}
	if skip, ok, err := sec.optionalIndex("skip"); err != nil {
		return Settings{}, err
	} else if ok {
		s.Skip = skip
	}
	if f, ok, err := sec.optionalString("date_format"); err != nil {
		return Settings{}, err
	} else if ok {
		s.DateFormat = f
	}
	if b, ok, err := sec.optionalBool("toggle_sign"); err != nil {
		return Settings{}, err
	} else if ok {
		s.ToggleSign = b
	}

	s.DateLayout, err = Layout(s.DateFormat)
	if err != nil {
		return Settings{}, invalid(sec.field("date_format"), sec.fields["date_format"], "%v", err)
	}

	if err := checkDistinct(sec, s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func parseDelimiter(field string, n *yaml.Node, d string) (rune, error) {
	r := []rune(d)
	if len(r) != 1 {
		return 0, invalid(field, n, "must be a single character, got %q", d)
	}
	switch r[0] {
	case '"', '\r', '\n', utf8.RuneError:
		return 0, invalid(field, n, "%q cannot be used as a delimiter", d)
	}
	return r[0], nil
}

func checkDistinct(sec section, s Settings) error {
	cols := []struct {
		name string
		idx  int
	}{
		{"date", s.DateColumn},
		{"description", s.DescriptionColumn},
		{"amount_in", s.AmountInColumn},
		{"amount_out", s.AmountOutColumn},
	}
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			if cols[i].idx == cols[j].idx {
				return invalid(sec.field(cols[j].name), sec.fields[cols[j].name],
					"column %d is already used by %s", cols[j].idx, cols[i].name)
			}
		}
	}
	return nil
}

func parseRules(n *yaml.Node) (RuleTable, error) {
	rules := make(RuleTable, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolve(n.Content[i])
		if key.Kind != yaml.ScalarNode {
			return nil, wrongType(RulesSection, "description text", key)
		}
		desc := key.Value
		field := fmt.Sprintf("%s.%q", RulesSection, desc)
		if _, dup := rules[desc]; dup {
			return nil, invalid(field, key, "duplicate rule")
		}

		val := resolve(n.Content[i+1])
		if val.Kind == yaml.ScalarNode && val.ShortTag() == nullTag {
			rules[desc] = Rule{}
			continue
		}
		if val.Kind != yaml.MappingNode {
			return nil, wrongType(field, "mapping", val)
		}

		sec, err := newSection(field, val)
		if err != nil {
			return nil, err
		}
		var r Rule
		if r.Account, _, err = sec.optionalString("account"); err != nil {
			return nil, err
		}
		if r.Info, _, err = sec.optionalString("info"); err != nil {
			return nil, err
		}
		rules[desc] = r
	}
	return rules, nil
}
