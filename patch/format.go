package patch

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dzjyyds666/tomlpatch/parse/toml"
)

var bareKeyRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FormatValue renders a parsed TOML value as single-line canonical text.
// Re-parsing the output through toml.ParseValue yields an equal value.
func FormatValue(n toml.Node) string {
	switch v := n.(type) {
	case *toml.Value:
		return formatScalar(v)
	case *toml.Array:
		parts := make([]string, 0, len(v.Elems))
		for _, e := range v.Elems {
			parts = append(parts, FormatValue(e))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *toml.Table:
		keys := v.Keys()
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			e, _ := v.Get(k)
			parts = append(parts, formatKeySegment(k)+" = "+FormatValue(e))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	}
	return `""`
}

func formatScalar(v *toml.Value) string {
	// Boolean before integer: representations that conflate the two must
	// come out as true/false, never 1/0.
	switch v.Type {
	case toml.KindBool:
		if v.V.(bool) {
			return "true"
		}
		return "false"
	case toml.KindInt:
		return strconv.FormatInt(v.V.(int64), 10)
	case toml.KindFloat:
		return formatFloat(v.V.(float64))
	case toml.KindString:
		return escapeString(v.V.(string))
	case toml.KindDateTime:
		return v.V.(time.Time).Format(time.RFC3339Nano)
	case toml.KindLocalDateTime:
		return v.V.(time.Time).Format("2006-01-02T15:04:05.999999999")
	case toml.KindDate:
		return v.V.(time.Time).Format("2006-01-02")
	case toml.KindTime:
		return v.V.(time.Time).Format("15:04:05.999999999")
	}
	return `""`
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, +1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// An integral short form would re-parse as an integer.
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// escapeString double-quotes s, escaping backslash, the quote, and the short
// control characters. Everything else, non-ASCII included, passes through.
func escapeString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}

func formatKeySegment(seg string) string {
	if bareKeyRE.MatchString(seg) {
		return seg
	}
	return escapeString(seg)
}
