package patch

import (
	"regexp"
	"strings"
)

type HeaderKind uint8

const (
	// RootHeader is the synthetic section holding everything before the
	// first real header.
	RootHeader HeaderKind = iota
	TableHeader
	ArrayTableHeader
)

// Header describes one section of the document. Start is the header's own
// line (-1 for the root); End is the last content line the section owns,
// after trailing blank and comment-only lines have been given back to
// whatever follows.
type Header struct {
	Kind       HeaderKind
	Path       []string
	Occurrence int // 0-based, among ArrayTableHeader entries sharing Path
	Start      int
	End        int
}

// segments returns the header's identity as path segments; for an
// array-of-table occurrence the final segment carries the occurrence index.
func (h Header) segments() []PathSegment {
	segs := make([]PathSegment, len(h.Path))
	for i, name := range h.Path {
		segs[i] = PathSegment{Name: name}
	}
	if h.Kind == ArrayTableHeader && len(segs) > 0 {
		segs[len(segs)-1].Index = h.Occurrence
		segs[len(segs)-1].HasIndex = true
	}
	return segs
}

// The array pattern is tried first, so the table pattern never sees a
// double-bracket line.
var (
	arrayHeaderRE = regexp.MustCompile(`^\s*\[\[(.+?)\]\]\s*(?:#.*)?$`)
	tableHeaderRE = regexp.MustCompile(`^\s*\[(.+?)\]\s*(?:#.*)?$`)
)

func parseHeaderLine(line string) (HeaderKind, []string, bool) {
	// Lines arrive with their terminators kept; $ only anchors at end of
	// text, so drop the terminator before matching.
	line = strings.TrimRight(line, "\r\n")
	kind := ArrayTableHeader
	m := arrayHeaderRE.FindStringSubmatch(line)
	if m == nil {
		kind = TableHeader
		m = tableHeaderRE.FindStringSubmatch(line)
	}
	if m == nil {
		return 0, nil, false
	}
	toks := SplitPathTokens(strings.TrimSpace(m[1]))
	path := make([]string, len(toks))
	for i, tok := range toks {
		path[i] = UnquoteKey(tok)
	}
	return kind, path, true
}

func isBlankOrComment(line string) bool {
	s := strings.TrimSpace(line)
	return s == "" || strings.HasPrefix(s, "#")
}

// IndexHeaders scans the document's physical lines and returns its sections
// in order, the synthetic root first. Array-of-table headers sharing a path
// are numbered 0-based in document order.
func IndexHeaders(lines []string) []Header {
	headers := []Header{{Kind: RootHeader, Start: -1, End: -1}}
	counts := make(map[string]int)
	for i, line := range lines {
		kind, path, ok := parseHeaderLine(line)
		if !ok {
			continue
		}
		h := Header{Kind: kind, Path: path, Start: i, End: i}
		if kind == ArrayTableHeader {
			key := strings.Join(path, "\x00")
			h.Occurrence = counts[key]
			counts[key]++
		}
		headers = append(headers, h)
	}

	for idx := range headers {
		next := len(lines)
		if idx+1 < len(headers) {
			next = headers[idx+1].Start
		}
		h := &headers[idx]
		if h.Kind == RootHeader {
			h.End = next - 1
			continue
		}
		end := next - 1
		// Trailing comments belong to the next section, not this one.
		for end > h.Start && isBlankOrComment(lines[end]) {
			end--
		}
		h.End = end
	}
	return headers
}
