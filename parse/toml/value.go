package toml

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseValue parses a single TOML value literal, as it would appear on the
// right-hand side of an assignment. Multi-line literals are accepted.
func ParseValue(src string) (Node, error) {
	snippet := "__k__ = " + src + "\n"
	root, err := Parse(strings.NewReader(snippet))
	if err != nil {
		return nil, err
	}
	n, ok := root.Get("__k__")
	if !ok {
		return nil, errors.New("toml: empty value")
	}
	return n, nil
}

// parseValue dispatches on the leading bytes of a comment-free literal.
func parseValue(s string) (Node, error) {
	s = strings.TrimSpace(stripComment(s))
	if s == "" {
		return nil, errors.New("empty value")
	}
	switch {
	case strings.HasPrefix(s, `"""`):
		content, ok := cutTriple(s, `"""`)
		if !ok {
			return nil, errors.New("unterminated multiline string")
		}
		decoded, err := decodeBasicString(content, true)
		if err != nil {
			return nil, err
		}
		return &Value{Type: KindString, V: decoded}, nil
	case strings.HasPrefix(s, `'''`):
		content, ok := cutTriple(s, `'''`)
		if !ok {
			return nil, errors.New("unterminated multiline literal string")
		}
		return &Value{Type: KindString, V: content}, nil
	case strings.HasPrefix(s, `"`):
		content, ok := cutQuoted(s, '"')
		if !ok {
			return nil, errors.New("unterminated string")
		}
		decoded, err := decodeBasicString(content, false)
		if err != nil {
			return nil, err
		}
		return &Value{Type: KindString, V: decoded}, nil
	case strings.HasPrefix(s, `'`):
		content, ok := cutQuoted(s, '\'')
		if !ok {
			return nil, errors.New("unterminated literal string")
		}
		return &Value{Type: KindString, V: content}, nil
	case strings.HasPrefix(s, "["):
		return parseArray(s)
	case strings.HasPrefix(s, "{"):
		return parseInlineTable(s)
	}

	if s == "true" || s == "false" {
		return &Value{Type: KindBool, V: s == "true"}, nil
	}
	if s == "inf" || s == "+inf" {
		return &Value{Type: KindFloat, V: math.Inf(+1)}, nil
	}
	if s == "-inf" {
		return &Value{Type: KindFloat, V: math.Inf(-1)}, nil
	}
	if strings.EqualFold(s, "nan") {
		return &Value{Type: KindFloat, V: math.NaN()}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &Value{Type: KindDateTime, V: t}, nil
	}
	if n, ok := parseDateTimeToken(s); ok {
		return n, nil
	}
	if i, err := parseIntToken(s); err == nil {
		return &Value{Type: KindInt, V: i}, nil
	}
	if f, err := parseFloatToken(s); err == nil {
		return &Value{Type: KindFloat, V: f}, nil
	}
	return nil, fmt.Errorf("unsupported value %q", s)
}

// =========================
// Strings
// =========================

func cutTriple(s, delim string) (string, bool) {
	if len(s) < 6 {
		return "", false
	}
	idx := strings.Index(s[3:], delim)
	if idx < 0 {
		return "", false
	}
	content := s[3 : 3+idx]
	// A newline right after the opening delimiter is trimmed.
	if strings.HasPrefix(content, "\r\n") {
		content = content[2:]
	} else if strings.HasPrefix(content, "\n") {
		content = content[1:]
	}
	return content, true
}

func cutQuoted(s string, quote byte) (string, bool) {
	if len(s) < 2 || s[0] != quote || s[len(s)-1] != quote {
		return "", false
	}
	return s[1 : len(s)-1], true
}

func decodeBasicString(s string, multiline bool) (string, error) {
	if multiline {
		// A backslash at end of line swallows the newline and leading
		// whitespace of the continuation.
		var b strings.Builder
		for i := 0; i < len(s); i++ {
			if s[i] == '\\' && i+1 < len(s) && s[i+1] == '\n' {
				i++
				for i+1 < len(s) && (s[i+1] == ' ' || s[i+1] == '\t') {
					i++
				}
				continue
			}
			b.WriteByte(s[i])
		}
		s = b.String()
	}
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' {
			out.WriteByte(ch)
			continue
		}
		i++
		if i >= len(s) {
			return "", errors.New("invalid escape")
		}
		switch s[i] {
		case 'b':
			out.WriteByte('\b')
		case 't':
			out.WriteByte('\t')
		case 'n':
			out.WriteByte('\n')
		case 'f':
			out.WriteByte('\f')
		case 'r':
			out.WriteByte('\r')
		case '"':
			out.WriteByte('"')
		case '\\':
			out.WriteByte('\\')
		case 'u':
			if i+4 >= len(s) {
				return "", errors.New("invalid unicode escape")
			}
			r, err := parseHexRune(s[i+1 : i+5])
			if err != nil {
				return "", err
			}
			out.WriteRune(r)
			i += 4
		case 'U':
			if i+8 >= len(s) {
				return "", errors.New("invalid unicode escape")
			}
			r, err := parseHexRune(s[i+1 : i+9])
			if err != nil {
				return "", err
			}
			out.WriteRune(r)
			i += 8
		default:
			return "", errors.New("unsupported escape")
		}
	}
	return out.String(), nil
}

func parseHexRune(h string) (rune, error) {
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, err
	}
	return rune(v), nil
}

// =========================
// Collections
// =========================

func parseArray(s string) (*Array, error) {
	content := strings.TrimSpace(s)
	if !strings.HasSuffix(content, "]") {
		return nil, errors.New("invalid array")
	}
	inner := content[1 : len(content)-1]
	parts := splitTopLevel(inner, ',')
	arr := &Array{Elems: make([]Node, 0, len(parts))}
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		v, err := parseValue(part)
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, v)
	}
	return arr, nil
}

func parseInlineTable(s string) (*Table, error) {
	content := strings.TrimSpace(s)
	if !strings.HasSuffix(content, "}") {
		return nil, errors.New("invalid inline table")
	}
	inner := strings.TrimSpace(content[1 : len(content)-1])
	t := NewTable()
	for _, pair := range splitTopLevel(inner, ',') {
		if pair == "" {
			continue
		}
		eq := findUnquotedEqual(pair)
		if eq < 0 {
			return nil, errors.New("invalid inline table entry")
		}
		parts, err := parseKeyParts(strings.TrimSpace(pair[:eq]))
		if err != nil {
			return nil, err
		}
		if len(parts) == 0 {
			return nil, errors.New("empty inline table key")
		}
		cur, err := descendTable(t, parts[:len(parts)-1])
		if err != nil {
			return nil, err
		}
		last := parts[len(parts)-1]
		if _, exists := cur.Get(last); exists {
			return nil, fmt.Errorf("duplicate inline table key %q", last)
		}
		v, err := parseValue(strings.TrimSpace(pair[eq+1:]))
		if err != nil {
			return nil, err
		}
		cur.Set(last, v)
	}
	return t, nil
}

// =========================
// Scalars
// =========================

func parseDateTimeToken(s string) (Node, bool) {
	local := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
	}
	for _, layout := range local {
		if t, err := time.Parse(layout, s); err == nil {
			return &Value{Type: KindLocalDateTime, V: t}, true
		}
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return &Value{Type: KindDate, V: d}, true
	}
	clocks := []string{
		"15:04:05",
		"15:04:05.999999999",
	}
	for _, layout := range clocks {
		if t, err := time.Parse(layout, s); err == nil {
			return &Value{Type: KindTime, V: t}, true
		}
	}
	return nil, false
}

func parseIntToken(s string) (int64, error) {
	s = strings.ReplaceAll(s, "_", "")
	sign := int64(1)
	switch {
	case strings.HasPrefix(s, "-"):
		sign, s = -1, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	// strconv accepts a sign of its own; a second one here would let
	// doubled signs like --5 slip through.
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0o"):
		base, s = 8, s[2:]
	case strings.HasPrefix(s, "0b"):
		base, s = 2, s[2:]
	}
	if base != 10 {
		v, err := strconv.ParseUint(s, base, 64)
		if err != nil {
			return 0, err
		}
		return sign * int64(v), nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return sign * v, nil
}

func parseFloatToken(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
}
