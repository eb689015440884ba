package patch

import (
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestValueEndSingleLine(t *testing.T) {
	convey.Convey("plain scalars end on their own line", t, func() {
		lines := docLines("a = 1\nb = 2\n")
		eq := strings.IndexByte(lines[0], '=')
		convey.So(ValueEnd(lines, 0, eq+1), convey.ShouldEqual, 0)
	})
}

func TestValueEndMultilineArray(t *testing.T) {
	convey.Convey("a multi-line array spans to its closing bracket", t, func() {
		lines := docLines(`ports = [
  8001,
  8002, # keep
]
next = 1
`)
		eq := strings.IndexByte(lines[0], '=')
		convey.So(ValueEnd(lines, 0, eq+1), convey.ShouldEqual, 3)
	})
}

func TestValueEndTripleString(t *testing.T) {
	convey.Convey("triple-quoted strings swallow everything inside", t, func() {
		lines := docLines(`desc = """has [brackets] and # hash
and a second line"""
next = 1
`)
		eq := strings.IndexByte(lines[0], '=')
		convey.So(ValueEnd(lines, 0, eq+1), convey.ShouldEqual, 1)
	})

	convey.Convey("literal triple strings ignore backslashes", t, func() {
		lines := docLines(`raw = '''c:\path
still going'''
next = 1
`)
		eq := strings.IndexByte(lines[0], '=')
		convey.So(ValueEnd(lines, 0, eq+1), convey.ShouldEqual, 1)
	})
}

func TestValueEndInlineComment(t *testing.T) {
	convey.Convey("an unquoted hash at zero depth ends the value", t, func() {
		lines := docLines("v = 3 # [not an array]\nw = 4\n")
		eq := strings.IndexByte(lines[0], '=')
		convey.So(ValueEnd(lines, 0, eq+1), convey.ShouldEqual, 0)
	})

	convey.Convey("a hash inside brackets does not terminate the scan", t, func() {
		lines := docLines(`v = [
  "#tag",
]
w = 4
`)
		eq := strings.IndexByte(lines[0], '=')
		convey.So(ValueEnd(lines, 0, eq+1), convey.ShouldEqual, 2)
	})
}

func TestValueEndMultilineInlineTable(t *testing.T) {
	convey.Convey("curly nesting spans lines too", t, func() {
		lines := docLines(`owner = { name = "Tom",
  dob = 1979-05-27 }
next = 1
`)
		eq := strings.IndexByte(lines[0], '=')
		convey.So(ValueEnd(lines, 0, eq+1), convey.ShouldEqual, 1)
	})
}

func TestValueEndUnterminated(t *testing.T) {
	convey.Convey("an unterminated value runs to the last line", t, func() {
		lines := docLines("v = [\n  1,\n  2,\n")
		eq := strings.IndexByte(lines[0], '=')
		convey.So(ValueEnd(lines, 0, eq+1), convey.ShouldEqual, 2)
	})
}
