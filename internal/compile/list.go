package compile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	errOpenBrace = errors.New("unmatched open brace in list")
	errOpenQuote = errors.New("unmatched open quote in list")
)

// ParseList splits brace-quoted list text into its top-level words. Braced
// words keep their inner text verbatim, so nested vectors are parsed again
// when a list is expected in their place.
func ParseList(text string) ([]any, error) {
	out := []any{}
	i, n := 0, len(text)
	for {
		for i < n && isSpace(text[i]) {
			i++
		}
		if i >= n {
			return out, nil
		}
		switch text[i] {
		case '{':
			depth, j := 1, i+1
			for ; j < n && depth > 0; j++ {
				switch text[j] {
				case '\\':
					j++
				case '{':
					depth++
				case '}':
					depth--
				}
			}
			if depth > 0 {
				return nil, errOpenBrace
			}
			if j < n && !isSpace(text[j]) {
				return nil, fmt.Errorf("list element in braces followed by %q instead of space", text[j:j+1])
			}
			out = append(out, text[i+1:j-1])
			i = j
		case '"':
			var b strings.Builder
			j := i + 1
			closed := false
			for j < n {
				c := text[j]
				if c == '"' {
					closed = true
					j++
					break
				}
				if c == '\\' && j+1 < n {
					b.WriteByte(unescape(text[j+1]))
					j += 2
					continue
				}
				b.WriteByte(c)
				j++
			}
			if !closed {
				return nil, errOpenQuote
			}
			if j < n && !isSpace(text[j]) {
				return nil, fmt.Errorf("list element in quotes followed by %q instead of space", text[j:j+1])
			}
			out = append(out, b.String())
			i = j
		default:
			var b strings.Builder
			for i < n && !isSpace(text[i]) {
				if text[i] == '\\' && i+1 < n {
					b.WriteByte(unescape(text[i+1]))
					i += 2
					continue
				}
				b.WriteByte(text[i])
				i++
			}
			out = append(out, b.String())
		}
	}
}

// FormatList renders words and nested vectors as list text that ParseList
// reads back to the same structure.
func FormatList(v []any) string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = formatElement(e)
	}
	return strings.Join(parts, " ")
}

func formatElement(e any) string {
	switch x := e.(type) {
	case []any:
		return "{" + FormatList(x) + "}"
	case []string:
		return "{" + FormatList(strVector(x)) + "}"
	}
	s := Text(e)
	if s == "" {
		return "{}"
	}
	if !strings.ContainsAny(s, " \t\n\r{}\"\\;$[]") {
		return s
	}
	if balanced(s) && !strings.HasSuffix(s, "\\") {
		return "{" + s + "}"
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(" \t\n\r{}\"\\;$[]", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Text renders a token as a single word.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		return FormatList(x)
	case []string:
		return FormatList(strVector(x))
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// Vector views a token as a list: vectors are used as is and text is parsed.
func Vector(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case []string:
		return strVector(x), nil
	case string:
		return ParseList(x)
	}
	return nil, fmt.Errorf("expected a list but got %T", v)
}

func strVector(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func balanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func isSpace(c byte) bool { return unicode.IsSpace(rune(c)) }

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	return c
}
