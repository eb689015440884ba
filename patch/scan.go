package patch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Quote-aware text primitives. Everything here works on raw, still-quoted
// text; nothing consults the semantic parser.

// SplitPathTokens splits a dotted path on '.' characters that sit outside
// single- or double-quoted substrings. Tokens keep their quotes, e.g.
// `"my.key".child[2]` yields `"my.key"` and `child[2]`.
func SplitPathTokens(raw string) []string {
	s := strings.TrimSpace(raw)
	var out []string
	var buf strings.Builder
	inDQ, inSQ := false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inDQ:
			buf.WriteByte(ch)
			if ch == '\\' {
				if i+1 < len(s) {
					i++
					buf.WriteByte(s[i])
				}
			} else if ch == '"' {
				inDQ = false
			}
		case inSQ:
			buf.WriteByte(ch)
			if ch == '\'' {
				inSQ = false
			}
		case ch == '"':
			inDQ = true
			buf.WriteByte(ch)
		case ch == '\'':
			inSQ = true
			buf.WriteByte(ch)
		case ch == '.':
			out = append(out, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteByte(ch)
		}
	}
	if last := strings.TrimSpace(buf.String()); last != "" {
		out = append(out, last)
	}
	return out
}

// UnquoteKey strips a token's surrounding quotes. Double-quoted tokens get
// the short escapes interpreted; any other escape passes its literal
// following character through. Single-quoted tokens are verbatim. A bare
// token is returned trimmed.
func UnquoteKey(tok string) string {
	tok = strings.TrimSpace(tok)
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		body := tok[1 : len(tok)-1]
		var out strings.Builder
		for i := 0; i < len(body); i++ {
			ch := body[i]
			if ch != '\\' {
				out.WriteByte(ch)
				continue
			}
			i++
			if i >= len(body) {
				break
			}
			switch body[i] {
			case 'b':
				out.WriteByte('\b')
			case 't':
				out.WriteByte('\t')
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case '"':
				out.WriteByte('"')
			case '\\':
				out.WriteByte('\\')
			default:
				out.WriteByte(body[i])
			}
		}
		return out.String()
	}
	if len(tok) >= 2 && tok[0] == '\'' && tok[len(tok)-1] == '\'' {
		return tok[1 : len(tok)-1]
	}
	return tok
}

// IndexOutsideQuotes returns the index of the first target byte that is not
// enclosed in single or double quotes, or -1. Inside double quotes a
// backslash escapes the following byte.
func IndexOutsideQuotes(s string, target byte) int {
	inDQ, inSQ := false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inDQ && ch == '\\' {
			i++
			continue
		}
		switch {
		case ch == '"' && !inSQ:
			inDQ = !inDQ
		case ch == '\'' && !inDQ:
			inSQ = !inSQ
		case ch == target && !inDQ && !inSQ:
			return i
		}
	}
	return -1
}

var indexSuffixRE = regexp.MustCompile(`^(.+?)\[(\d+)\]$`)

// SplitIndexSuffix recognises a trailing [<digits>] suffix on a path token
// and splits it off.
func SplitIndexSuffix(tok string) (name string, index int, ok bool) {
	m := indexSuffixRE.FindStringSubmatch(tok)
	if m == nil {
		return tok, 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return tok, 0, false
	}
	return strings.TrimSpace(m[1]), n, true
}

// SplitSetExpr splits a set payload of the form
//
//	path = TOML_VALUE [# inline comment]
//
// into its parts. The '=' and '#' markers are located outside quotes.
func SplitSetExpr(s string) (path, valueSrc, comment string, err error) {
	eq := IndexOutsideQuotes(s, '=')
	if eq < 0 {
		return "", "", "", fmt.Errorf("%w: missing '=' in set expression", ErrInvalidPayload)
	}
	path = strings.TrimSpace(s[:eq])
	if path == "" {
		return "", "", "", fmt.Errorf("%w: empty path before '='", ErrInvalidPayload)
	}
	rhs := strings.TrimSpace(s[eq+1:])
	if hash := IndexOutsideQuotes(rhs, '#'); hash >= 0 {
		valueSrc = strings.TrimRight(rhs[:hash], " \t")
		comment = strings.TrimSpace(rhs[hash+1:])
	} else {
		valueSrc = rhs
	}
	if valueSrc == "" {
		return "", "", "", fmt.Errorf("%w: empty value in set expression", ErrInvalidPayload)
	}
	return path, valueSrc, comment, nil
}
