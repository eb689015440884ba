package patch

import "strings"

const (
	tripleDQ = `"""`
	tripleSQ = `'''`
)

// ValueEnd returns the 0-based inclusive index of the last physical line
// occupied by the value starting on lines[start] at column col (right after
// the '='). It tracks string state and bracket nesting, so multi-line
// arrays, inline tables, and triple-quoted strings are spanned without
// parsing their contents. An unquoted '#' at zero nesting ends the value on
// the current line.
func ValueEnd(lines []string, start, col int) int {
	var (
		squares, curlies       int
		inDQ, inSQ             bool
		inTripleDQ, inTripleSQ bool
	)
	for i := start; i < len(lines); i++ {
		text := lines[i]
		if i == start {
			if col >= len(text) {
				text = ""
			} else {
				text = text[col:]
			}
		}
		for j := 0; j < len(text); {
			switch {
			case inTripleDQ:
				if strings.HasPrefix(text[j:], tripleDQ) {
					inTripleDQ = false
					j += 3
				} else {
					j++
				}
			case inTripleSQ:
				if strings.HasPrefix(text[j:], tripleSQ) {
					inTripleSQ = false
					j += 3
				} else {
					j++
				}
			case inDQ:
				if text[j] == '\\' {
					j += 2
					continue
				}
				if text[j] == '"' {
					inDQ = false
				}
				j++
			case inSQ:
				if text[j] == '\'' {
					inSQ = false
				}
				j++
			case strings.HasPrefix(text[j:], tripleDQ):
				inTripleDQ = true
				j += 3
			case strings.HasPrefix(text[j:], tripleSQ):
				inTripleSQ = true
				j += 3
			case text[j] == '"':
				inDQ = true
				j++
			case text[j] == '\'':
				inSQ = true
				j++
			case text[j] == '[':
				squares++
				j++
			case text[j] == ']':
				if squares > 0 {
					squares--
				}
				j++
			case text[j] == '{':
				curlies++
				j++
			case text[j] == '}':
				if curlies > 0 {
					curlies--
				}
				j++
			case text[j] == '#' && squares == 0 && curlies == 0:
				return i
			default:
				j++
			}
		}
		if squares == 0 && curlies == 0 && !inDQ && !inSQ && !inTripleDQ && !inTripleSQ {
			return i
		}
	}
	return len(lines) - 1
}
