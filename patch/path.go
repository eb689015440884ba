package patch

import (
	"fmt"
	"strings"
)

// PathSegment is one component of a dotted path. HasIndex is set when the
// segment addresses a specific array-of-table occurrence, name[index].
type PathSegment struct {
	Name     string
	Index    int
	HasIndex bool
}

func (s PathSegment) String() string {
	if s.HasIndex {
		return fmt.Sprintf("%s[%d]", s.Name, s.Index)
	}
	return s.Name
}

// ParsePath parses a caller-supplied dotted path, with optional quoted keys
// and [index] suffixes, into segments.
func ParsePath(raw string) ([]PathSegment, error) {
	toks := SplitPathTokens(raw)
	if len(toks) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPayload)
	}
	segs := make([]PathSegment, 0, len(toks))
	for _, tok := range toks {
		if name, idx, ok := SplitIndexSuffix(tok); ok {
			segs = append(segs, PathSegment{Name: UnquoteKey(name), Index: idx, HasIndex: true})
		} else {
			segs = append(segs, PathSegment{Name: UnquoteKey(tok)})
		}
	}
	return segs, nil
}

func segmentsEqual(a, b []PathSegment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].HasIndex != b[i].HasIndex {
			return false
		}
		if a[i].HasIndex && a[i].Index != b[i].Index {
			return false
		}
	}
	return true
}

func pathNames(segs []PathSegment) []string {
	names := make([]string, len(segs))
	for i, s := range segs {
		names[i] = s.Name
	}
	return names
}

func namesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// findSection resolves a table path (a full path minus its final key) to the
// owning section. An explicit index on the last segment demands the exact
// array-of-table occurrence. Without one, an exact plain table wins; failing
// that, a single array-of-table occurrence is accepted and several are
// ambiguous.
func findSection(headers []Header, tablePath []PathSegment) (Header, error) {
	if len(tablePath) == 0 {
		return headers[0], nil // synthetic root, always first
	}
	names := pathNames(tablePath)
	last := tablePath[len(tablePath)-1]

	if last.HasIndex {
		for _, h := range headers {
			if h.Kind == ArrayTableHeader && namesEqual(h.Path, names) && h.Occurrence == last.Index {
				return h, nil
			}
		}
		return Header{}, ErrPathNotFound
	}

	for _, h := range headers {
		if h.Kind == TableHeader && namesEqual(h.Path, names) {
			return h, nil
		}
	}
	var matches []Header
	for _, h := range headers {
		if h.Kind == ArrayTableHeader && namesEqual(h.Path, names) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return Header{}, ErrPathNotFound
	case 1:
		return matches[0], nil
	}
	return Header{}, ErrAmbiguousPath
}

// Assignment is a located key assignment: the inclusive line span of its
// whole value plus the raw, still-quoted key tokens of the matched line.
type Assignment struct {
	Start     int
	End       int
	KeyTokens []string
}

// findAssignment resolves a full path to the single assignment owning it.
// Candidate lines inside the owning section are identified by their full
// identity path (header segments plus the line's own key segments); zero
// matches is ErrPathNotFound and several are ErrAmbiguousPath.
func findAssignment(lines []string, headers []Header, full []PathSegment) (Assignment, error) {
	if len(full) == 0 {
		return Assignment{}, fmt.Errorf("%w: empty path", ErrInvalidPayload)
	}
	tablePath := full[:len(full)-1]
	header, err := findSection(headers, tablePath)
	if err != nil {
		return Assignment{}, err
	}
	base := header.segments()

	var matches []Assignment
	start := header.Start + 1
	if start < 0 {
		start = 0
	}
	for i := start; i <= header.End && i < len(lines); i++ {
		line := lines[i]
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "[") {
			continue
		}
		eq := IndexOutsideQuotes(line, '=')
		if eq < 0 {
			continue
		}
		toks := SplitPathTokens(line[:eq])
		if len(toks) == 0 {
			continue
		}
		cand := make([]PathSegment, 0, len(base)+len(toks))
		cand = append(cand, base...)
		for _, tok := range toks {
			cand = append(cand, PathSegment{Name: UnquoteKey(tok)})
		}
		if segmentsEqual(cand, full) {
			matches = append(matches, Assignment{
				Start:     i,
				End:       ValueEnd(lines, i, eq+1),
				KeyTokens: toks,
			})
		}
	}

	if len(matches) == 0 {
		// The key may live under one of several [[...]] occurrences that
		// the caller addressed without an index.
		if len(tablePath) > 0 && !tablePath[len(tablePath)-1].HasIndex {
			names := pathNames(tablePath)
			n := 0
			for _, h := range headers {
				if h.Kind == ArrayTableHeader && namesEqual(h.Path, names) {
					n++
				}
			}
			if n > 1 {
				return Assignment{}, ErrAmbiguousPath
			}
		}
		return Assignment{}, ErrPathNotFound
	}
	if len(matches) > 1 {
		return Assignment{}, ErrAmbiguousPath
	}
	return matches[0], nil
}
