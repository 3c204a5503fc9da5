package config

import (
	"fmt"
	"strings"
)

// strftime specifiers mapped to Go reference-time layout chunks. Month and
// day use the unpadded forms, which also accept zero-padded input.
var layoutChunks = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "1",
	'd': "2",
	'e': "_2",
	'b': "Jan",
	'h': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'j': "002",
	'H': "15",
	'M': "04",
	'S': "05",
	'F': "2006-01-02",
	'D': "01/02/06",
	'%': "%",
}

// Substrings that time.Parse would treat as layout elements rather than
// literal text.
var reservedLiterals = []string{"Jan", "Mon", "MST", "PM", "pm", "_"}

// Layout translates a strftime-style date format such as "%m/%d/%Y" into a
// Go time layout.
func Layout(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("date format is empty")
	}

	var b, lit strings.Builder
	flush := func() error {
		s := lit.String()
		lit.Reset()
		if strings.ContainsAny(s, "0123456789") {
			return fmt.Errorf("literal %q in date format must not contain digits", s)
		}
		for _, r := range reservedLiterals {
			if strings.Contains(s, r) {
				return fmt.Errorf("literal %q in date format is ambiguous", s)
			}
		}
		b.WriteString(s)
		return nil
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		if i+1 >= len(format) {
			return "", fmt.Errorf("date format %q ends with a bare %%", format)
		}
		i++
		chunk, ok := layoutChunks[format[i]]
		if !ok {
			return "", fmt.Errorf("unsupported specifier %%%c in date format %q", format[i], format)
		}
		if err := flush(); err != nil {
			return "", err
		}
		b.WriteString(chunk)
	}
	if err := flush(); err != nil {
		return "", err
	}
	return b.String(), nil
}
