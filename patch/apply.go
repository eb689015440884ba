package patch

import (
	"strings"

	"github.com/dzjyyds666/tomlpatch/parse/toml"
)

// Document holds a TOML file as its sequence of physical lines, each keeping
// its original terminator, so every untouched line is emitted byte for byte.
// Every operation re-indexes headers before resolving its path, so earlier
// edits in the same run are always observed.
type Document struct {
	lines []string
}

func NewDocument(text string) *Document {
	return &Document{lines: splitLines(text)}
}

func splitLines(text string) []string {
	var out []string
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			out = append(out, text)
			break
		}
		out = append(out, text[:i+1])
		text = text[i+1:]
	}
	return out
}

func (d *Document) Text() string {
	return strings.Join(d.lines, "")
}

// lineEnding picks the terminator for a line replacing the given one.
func lineEnding(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// SetPatch replaces one assignment's value. An empty Comment means no
// trailing comment is emitted.
type SetPatch struct {
	Path    []PathSegment
	Value   toml.Node
	Comment string
}

type DeleteKeyPatch struct {
	Path []PathSegment
}

type DeleteSectionPatch struct {
	Path []PathSegment
}

func (d *Document) splice(start, end int, repl ...string) {
	out := make([]string, 0, len(d.lines)-(end-start+1)+len(repl))
	out = append(out, d.lines[:start]...)
	out = append(out, repl...)
	out = append(out, d.lines[end+1:]...)
	d.lines = out
}

// Set rewrites the assignment addressed by p.Path as one canonical line,
// replacing however many lines its current value occupies.
func (d *Document) Set(p SetPatch) error {
	headers := IndexHeaders(d.lines)
	a, err := findAssignment(d.lines, headers, p.Path)
	if err != nil {
		return err
	}

	var b strings.Builder
	for i, tok := range a.KeyTokens {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(formatKeySegment(UnquoteKey(tok)))
	}
	b.WriteString(" = ")
	b.WriteString(FormatValue(p.Value))
	if p.Comment != "" {
		b.WriteString(" # ")
		b.WriteString(p.Comment)
	}
	b.WriteString(lineEnding(d.lines[a.Start]))

	d.splice(a.Start, a.End, b.String())
	return nil
}

// DeleteKey removes the addressed assignment, value lines included.
func (d *Document) DeleteKey(p DeleteKeyPatch) error {
	headers := IndexHeaders(d.lines)
	a, err := findAssignment(d.lines, headers, p.Path)
	if err != nil {
		return err
	}
	d.splice(a.Start, a.End)
	return nil
}

// DeleteSection removes a section's header line through the end of its owned
// content. Trailing blank and comment-only lines are not owned, so they
// survive for whatever follows. Deleting the root is refused.
func (d *Document) DeleteSection(p DeleteSectionPatch) error {
	headers := IndexHeaders(d.lines)
	h, err := findSection(headers, p.Path)
	if err != nil {
		return err
	}
	if h.Kind == RootHeader {
		return ErrRootDeletion
	}
	d.splice(h.Start, h.End)
	return nil
}

// ReplaceTopComment replaces the run of blank and comment-only lines at the
// top of the document with text, one '#'-prefixed line per input line and a
// single blank separator after them.
func (d *Document) ReplaceTopComment(text string) {
	i := 0
	for i < len(d.lines) && isBlankOrComment(d.lines[i]) {
		i++
	}
	var repl []string
	if text != "" {
		for _, raw := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
			raw = strings.TrimRight(raw, " \t\r")
			if raw == "" {
				repl = append(repl, "#\n")
			} else {
				repl = append(repl, "# "+raw+"\n")
			}
		}
	}
	repl = append(repl, "\n")
	d.lines = append(repl, d.lines[i:]...)
}
