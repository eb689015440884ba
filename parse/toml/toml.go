// Package toml implements the semantic TOML parser behind the patch tool.
// It answers two questions: is a whole document valid, and what value does a
// single literal denote. Parsing produces an explicit AST (Table / Array /
// Value) with a kind tag per value and deterministic errors.
//
// Scope:
// - TOML v1.0.0 core features
// - Explicit AST with per-value kind tags
// - Safe dotted-key handling and table extension semantics
//
// Non-goals:
// - Comment preservation
// - Formatting round-trip
//
// Format-preserving edits live in the patch package; this parser never sees
// the document's layout.
package toml

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// =========================
// AST Definitions
// =========================

type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindDate
	KindTime
	KindDateTime
	KindLocalDateTime
	KindArray
	KindTable
)

type Node interface {
	Kind() Kind
}

// -------- Table --------

// Table preserves key insertion order so values can be re-emitted
// deterministically.
type Table struct {
	keys  []string
	items map[string]Node
}

func NewTable() *Table {
	return &Table{items: make(map[string]Node)}
}

func (*Table) Kind() Kind { return KindTable }

func (t *Table) Get(key string) (Node, bool) {
	n, ok := t.items[key]
	return n, ok
}

// Set inserts or replaces an entry; a new key is appended to the order.
func (t *Table) Set(key string, n Node) {
	if _, ok := t.items[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.items[key] = n
}

// Keys returns the table's keys in insertion order.
func (t *Table) Keys() []string { return t.keys }

func (t *Table) Len() int { return len(t.items) }

// -------- Array --------

type Array struct {
	Elems []Node
}

func (*Array) Kind() Kind { return KindArray }

// -------- Value --------

type Value struct {
	Type Kind
	V    any
}

func (v *Value) Kind() Kind { return v.Type }

// =========================
// Public API
// =========================

// Parse reads a whole TOML document from r and returns its root table.
func Parse(r io.Reader) (*Table, error) {
	p := &parser{
		scanner: bufio.NewScanner(r),
		root:    NewTable(),
	}
	p.cur = p.root

	for p.scanner.Scan() {
		line := strings.TrimSpace(p.scanner.Text())
		p.lineNo++

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "["):
			if err := p.parseTableHeader(line); err != nil {
				return nil, err
			}
		default:
			eq := findUnquotedEqual(line)
			if eq < 0 {
				return nil, p.errf("invalid syntax")
			}
			if err := p.parseKeyValue(line, eq); err != nil {
				return nil, err
			}
		}
	}

	if err := p.scanner.Err(); err != nil {
		return nil, err
	}

	return p.root, nil
}

// =========================
// Parser Implementation
// =========================

type parser struct {
	scanner *bufio.Scanner
	root    *Table
	cur     *Table
	lineNo  int
}

func (p *parser) errf(msg string) error {
	return fmt.Errorf("toml:%d: %s", p.lineNo, msg)
}

// descendTable walks parts downward from t, materialising intermediate
// tables on the way.
func descendTable(t *Table, parts []string) (*Table, error) {
	for _, part := range parts {
		n, ok := t.Get(part)
		if !ok {
			next := NewTable()
			t.Set(part, next)
			t = next
			continue
		}
		sub, ok := n.(*Table)
		if !ok {
			return nil, fmt.Errorf("key %q already defined and is not a table", part)
		}
		t = sub
	}
	return t, nil
}

func (p *parser) parseTableHeader(line string) error {
	s := strings.TrimSpace(stripComment(line))
	isArray := strings.HasPrefix(s, "[[")
	if isArray {
		if !strings.HasSuffix(s, "]]") {
			return p.errf("invalid array-of-table header")
		}
	} else if !strings.HasSuffix(s, "]") {
		return p.errf("invalid table header")
	}

	var body string
	if isArray {
		body = strings.TrimSpace(s[2 : len(s)-2])
	} else {
		body = strings.TrimSpace(s[1 : len(s)-1])
	}
	parts, err := parseKeyParts(body)
	if err != nil {
		return p.errf(err.Error())
	}
	if len(parts) == 0 {
		return p.errf("empty table name")
	}

	if !isArray {
		t, err := descendTable(p.root, parts)
		if err != nil {
			return p.errf(err.Error())
		}
		p.cur = t
		return nil
	}

	parent, err := descendTable(p.root, parts[:len(parts)-1])
	if err != nil {
		return p.errf(err.Error())
	}
	last := parts[len(parts)-1]
	var arr *Array
	if n, ok := parent.Get(last); ok {
		arr, ok = n.(*Array)
		if !ok {
			return p.errf(fmt.Sprintf("key %q already defined and is not an array", last))
		}
	} else {
		arr = &Array{}
		parent.Set(last, arr)
	}
	tbl := NewTable()
	arr.Elems = append(arr.Elems, tbl)
	p.cur = tbl
	return nil
}

func (p *parser) parseKeyValue(line string, eq int) error {
	key := strings.TrimSpace(line[:eq])
	val := strings.TrimSpace(line[eq+1:])

	parts, err := parseKeyParts(key)
	if err != nil {
		return p.errf(err.Error())
	}
	if len(parts) == 0 {
		return p.errf("empty key")
	}

	t, err := descendTable(p.cur, parts[:len(parts)-1])
	if err != nil {
		return p.errf(err.Error())
	}
	last := parts[len(parts)-1]
	if _, exists := t.Get(last); exists {
		return p.errf(fmt.Sprintf("duplicate key %q", last))
	}

	full, err := p.consumeValue(val)
	if err != nil {
		return p.errf(err.Error())
	}
	v, err := parseValue(full)
	if err != nil {
		return p.errf(err.Error())
	}

	t.Set(last, v)
	return nil
}

// consumeValue pulls further physical lines from the scanner until the value
// that starts on the current line is textually complete: an unterminated
// triple-quoted string or an open bracket keeps the value going.
func (p *parser) consumeValue(initial string) (string, error) {
	trimmed := strings.TrimSpace(stripComment(initial))
	if trimmed == "" {
		return "", errors.New("empty value")
	}
	if strings.HasPrefix(trimmed, `"""`) && !strings.Contains(trimmed[3:], `"""`) {
		return p.continueString(initial, `"""`)
	}
	if strings.HasPrefix(trimmed, `'''`) && !strings.Contains(trimmed[3:], `'''`) {
		return p.continueString(initial, `'''`)
	}
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		var b strings.Builder
		var q strScanner
		kept, depth := scanCompoundLine(initial, &q)
		b.WriteString(kept)
		for depth > 0 {
			if !p.scanner.Scan() {
				return "", errors.New("unterminated compound value")
			}
			p.lineNo++
			kept, d := scanCompoundLine(p.scanner.Text(), &q)
			depth += d
			b.WriteString("\n")
			b.WriteString(kept)
		}
		return b.String(), nil
	}
	return initial, nil
}

func (p *parser) continueString(initial, delim string) (string, error) {
	var b strings.Builder
	b.WriteString(initial)
	for {
		if !p.scanner.Scan() {
			return "", errors.New("unterminated multiline string")
		}
		p.lineNo++
		b.WriteString("\n")
		b.WriteString(p.scanner.Text())
		if strings.Contains(b.String()[len(initial):], delim) {
			return b.String(), nil
		}
	}
}

// =========================
// Safe Access Helpers
// =========================

func Get(root *Table, path ...string) (Node, bool) {
	var cur Node = root
	for _, part := range path {
		t, ok := cur.(*Table)
		if !ok {
			return nil, false
		}
		cur, ok = t.Get(part)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func MustString(n Node) string {
	return n.(*Value).V.(string)
}

func MustInt(n Node) int64 {
	return n.(*Value).V.(int64)
}
