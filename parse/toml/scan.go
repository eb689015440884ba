package toml

import (
	"errors"
	"strings"
)

// strScanner tracks TOML string-literal state while walking a line byte by
// byte, so callers can tell which bytes are part of a string. State survives
// across calls, which lets multi-line strings span physical lines.
type strScanner struct {
	inBasic   bool
	inLiteral bool
	multi     bool
}

// step consumes one token starting at s[i] and returns the index of the next
// unconsumed byte, plus whether the consumed bytes belong to a string literal
// (delimiters included).
func (q *strScanner) step(s string, i int) (int, bool) {
	switch {
	case q.inBasic:
		if s[i] == '\\' && i+1 < len(s) {
			return i + 2, true
		}
		if q.multi {
			if strings.HasPrefix(s[i:], `"""`) {
				q.inBasic, q.multi = false, false
				return i + 3, true
			}
			return i + 1, true
		}
		if s[i] == '"' {
			q.inBasic = false
		}
		return i + 1, true
	case q.inLiteral:
		if q.multi {
			if strings.HasPrefix(s[i:], `'''`) {
				q.inLiteral, q.multi = false, false
				return i + 3, true
			}
			return i + 1, true
		}
		if s[i] == '\'' {
			q.inLiteral = false
		}
		return i + 1, true
	case strings.HasPrefix(s[i:], `"""`):
		q.inBasic, q.multi = true, true
		return i + 3, true
	case strings.HasPrefix(s[i:], `'''`):
		q.inLiteral, q.multi = true, true
		return i + 3, true
	case s[i] == '"':
		q.inBasic = true
		return i + 1, true
	case s[i] == '\'':
		q.inLiteral = true
		return i + 1, true
	}
	return i + 1, false
}

// stripComment drops everything from the first '#' that is not inside a
// string literal.
func stripComment(s string) string {
	var q strScanner
	for i := 0; i < len(s); {
		next, quoted := q.step(s, i)
		if !quoted && s[i] == '#' {
			return s[:i]
		}
		i = next
	}
	return s
}

// findUnquotedEqual returns the index of the first '=' outside any string
// literal, or -1.
func findUnquotedEqual(s string) int {
	var q strScanner
	for i := 0; i < len(s); {
		next, quoted := q.step(s, i)
		if !quoted && s[i] == '=' {
			return i
		}
		i = next
	}
	return -1
}

// scanCompoundLine walks one physical line of a bracketed value with q
// carrying string state between lines. It returns the line truncated at any
// unquoted comment marker and the net bracket-depth change before it.
func scanCompoundLine(s string, q *strScanner) (string, int) {
	depth := 0
	for i := 0; i < len(s); {
		next, quoted := q.step(s, i)
		if !quoted {
			switch s[i] {
			case '[', '{':
				depth++
			case ']', '}':
				depth--
			case '#':
				return s[:i], depth
			}
		}
		i = next
	}
	return s, depth
}

// splitTopLevel splits s on sep wherever sep sits outside strings and outside
// bracket nesting. Empty parts are kept; callers skip them.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	var q strScanner
	start := 0
	depth := 0
	for i := 0; i < len(s); {
		next, quoted := q.step(s, i)
		if !quoted {
			switch s[i] {
			case '[', '{':
				depth++
			case ']', '}':
				depth--
			case sep:
				if depth == 0 {
					parts = append(parts, strings.TrimSpace(s[start:i]))
					start = i + 1
				}
			}
		}
		i = next
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

// parseKeyParts splits a dotted key into its segments, honouring quoted
// segments and backslash escapes inside double quotes.
func parseKeyParts(s string) ([]string, error) {
	var parts []string
	var cur strings.Builder
	inQuote := byte(0)
	escape := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inQuote != 0 {
			if inQuote == '"' && ch == '\\' && !escape {
				escape = true
				continue
			}
			if escape {
				cur.WriteByte(ch)
				escape = false
				continue
			}
			if ch == inQuote {
				inQuote = 0
				continue
			}
			cur.WriteByte(ch)
			continue
		}
		if ch == '"' || ch == '\'' {
			if strings.TrimSpace(cur.String()) != "" {
				return nil, errors.New("invalid quoted key position")
			}
			inQuote = ch
			cur.Reset()
			continue
		}
		if ch == '.' {
			if part := strings.TrimSpace(cur.String()); part != "" {
				parts = append(parts, part)
			}
			cur.Reset()
			continue
		}
		cur.WriteByte(ch)
	}
	if inQuote != 0 {
		return nil, errors.New("unterminated quoted key")
	}
	if last := strings.TrimSpace(cur.String()); last != "" {
		parts = append(parts, last)
	}
	return parts, nil
}
