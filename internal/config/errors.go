package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrorKind classifies a ConfigError.
type ErrorKind int

const (
	KindMissing ErrorKind = iota + 1
	KindWrongType
	KindInvalid
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindWrongType:
		return "wrong type"
	case KindInvalid:
		return "invalid"
	case KindMalformed:
		return "malformed"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ConfigError reports a configuration document that cannot be resolved.
// Field is the dotted path of the offending key, e.g. "csv.currency".
type ConfigError struct {
	Field  string
	Kind   ErrorKind
	Detail string
	Line   int // line in the document, 0 if unknown
	Err    error
}

func (e *ConfigError) Error() string {
	var msg string
	switch e.Kind {
	case KindMissing:
		msg = fmt.Sprintf("missing required field %s", e.Field)
	case KindMalformed:
		msg = fmt.Sprintf("malformed configuration: %s", e.Detail)
	default:
		msg = fmt.Sprintf("%s %s: %s", e.Kind, e.Field, e.Detail)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// missing reports an absent key. line is the line of the enclosing mapping.
func missing(field string, line int) *ConfigError {
	return &ConfigError{Field: field, Kind: KindMissing, Line: line}
}

func wrongType(field, want string, n *yaml.Node) *ConfigError {
	return &ConfigError{
		Field:  field,
		Kind:   KindWrongType,
		Detail: fmt.Sprintf("expected %s, got %s", want, describe(n)),
		Line:   n.Line,
	}
}

// invalid reports a well-typed value that is out of range. n may be nil when
// the value came from a default.
func invalid(field string, n *yaml.Node, format string, args ...any) *ConfigError {
	e := &ConfigError{Field: field, Kind: KindInvalid, Detail: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Line = n.Line
	}
	return e
}

func malformed(format string, args ...any) *ConfigError {
	return &ConfigError{Kind: KindMalformed, Detail: fmt.Sprintf(format, args...)}
}
