package config

import "gopkg.in/yaml.v3"

const (
	nullTag  = "!!null"
	strTag   = "!!str"
	intTag   = "!!int"
	boolTag  = "!!bool"
	floatTag = "!!float"
)

// section is one mapping node of the document, indexed by key.
type section struct {
	name   string
	line   int
	fields map[string]*yaml.Node
}

func newSection(name string, n *yaml.Node) (section, error) {
	s := section{name: name, line: n.Line, fields: make(map[string]*yaml.Node, len(n.Content)/2)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolve(n.Content[i])
		if key.Kind != yaml.ScalarNode {
			return section{}, wrongType(s.orTop(), "string key", key)
		}
		if _, dup := s.fields[key.Value]; dup {
			return section{}, invalid(s.field(key.Value), key, "defined more than once")
		}
		s.fields[key.Value] = resolve(n.Content[i+1])
	}
	return s, nil
}

func (s section) orTop() string {
	if s.name == "" {
		return "document"
	}
	return s.name
}

// field returns the dotted path of key, used in error messages.
func (s section) field(key string) string {
	if s.name == "" {
		return key
	}
	return s.name + "." + key
}

// get returns the value node for key. Explicit nulls count as present.
func (s section) get(key string) (*yaml.Node, bool) {
	n, ok := s.fields[key]
	return n, ok
}

// lookup returns the value node for key, treating explicit nulls as absent.
func (s section) lookup(key string) (*yaml.Node, bool) {
	n, ok := s.fields[key]
	if !ok || (n.Kind == yaml.ScalarNode && n.ShortTag() == nullTag) {
		return nil, false
	}
	return n, true
}

func (s section) requiredString(key string) (string, error) {
	v, ok, err := s.optionalString(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", missing(s.field(key), s.line)
	}
	return v, nil
}

func (s section) optionalString(key string) (string, bool, error) {
	n, ok := s.lookup(key)
	if !ok {
		return "", false, nil
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != strTag {
		return "", false, wrongType(s.field(key), "string", n)
	}
	return n.Value, true, nil
}

func (s section) requiredIndex(key string) (int, error) {
	v, ok, err := s.optionalIndex(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, missing(s.field(key), s.line)
	}
	return v, nil
}

// optionalIndex reads a non-negative integer.
func (s section) optionalIndex(key string) (int, bool, error) {
	n, ok := s.lookup(key)
	if !ok {
		return 0, false, nil
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != intTag {
		return 0, false, wrongType(s.field(key), "integer", n)
	}
	var v int
	if err := n.Decode(&v); err != nil {
		return 0, false, invalid(s.field(key), n, "%v", err)
	}
	if v < 0 {
		return 0, false, invalid(s.field(key), n, "must not be negative, got %d", v)
	}
	return v, true, nil
}

func (s section) optionalBool(key string) (bool, bool, error) {
	n, ok := s.lookup(key)
	if !ok {
		return false, false, nil
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() != boolTag {
		return false, false, wrongType(s.field(key), "boolean", n)
	}
	var v bool
	if err := n.Decode(&v); err != nil {
		return false, false, invalid(s.field(key), n, "%v", err)
	}
	return v, true, nil
}

// resolve follows alias nodes to their anchors.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// describe names the YAML type of n for error messages.
func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case strTag:
			return "string"
		case intTag:
			return "integer"
		case floatTag:
			return "float"
		case boolTag:
			return "boolean"
		case nullTag:
			return "null"
		}
		return n.ShortTag()
	}
	return "unknown"
}
