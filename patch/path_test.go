package patch

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestParsePath(t *testing.T) {
	convey.Convey("paths parse into segments", t, func() {
		segs, err := ParsePath("servers[1].host")
		convey.So(err, convey.ShouldBeNil)
		convey.So(segs, convey.ShouldResemble, []PathSegment{
			{Name: "servers", Index: 1, HasIndex: true},
			{Name: "host"},
		})

		segs, err = ParsePath(`"my.key".child`)
		convey.So(err, convey.ShouldBeNil)
		convey.So(segs, convey.ShouldResemble, []PathSegment{
			{Name: "my.key"},
			{Name: "child"},
		})

		_, err = ParsePath("   ")
		convey.So(errors.Is(err, ErrInvalidPayload), convey.ShouldBeTrue)
	})
}

func TestPathSegmentString(t *testing.T) {
	convey.Convey("segments print with their index", t, func() {
		convey.So(PathSegment{Name: "a"}.String(), convey.ShouldEqual, "a")
		convey.So(PathSegment{Name: "a", Index: 3, HasIndex: true}.String(), convey.ShouldEqual, "a[3]")
	})
}

func TestFindSection(t *testing.T) {
	lines := docLines(`root_key = 1

[alpha]
a = 1

[[group]]
field = "x"

[[group]]
field = "y"
`)
	headers := IndexHeaders(lines)

	convey.Convey("section resolution", t, func() {
		convey.Convey("empty path is the root", func() {
			h, err := findSection(headers, nil)
			convey.So(err, convey.ShouldBeNil)
			convey.So(h.Kind, convey.ShouldEqual, RootHeader)
		})

		convey.Convey("plain table by name", func() {
			h, err := findSection(headers, []PathSegment{{Name: "alpha"}})
			convey.So(err, convey.ShouldBeNil)
			convey.So(h.Kind, convey.ShouldEqual, TableHeader)
			convey.So(h.Start, convey.ShouldEqual, 2)
		})

		convey.Convey("explicit occurrence index", func() {
			h, err := findSection(headers, []PathSegment{{Name: "group", Index: 1, HasIndex: true}})
			convey.So(err, convey.ShouldBeNil)
			convey.So(h.Occurrence, convey.ShouldEqual, 1)
		})

		convey.Convey("index out of range", func() {
			_, err := findSection(headers, []PathSegment{{Name: "group", Index: 5, HasIndex: true}})
			convey.So(errors.Is(err, ErrPathNotFound), convey.ShouldBeTrue)
		})

		convey.Convey("several occurrences without an index are ambiguous", func() {
			_, err := findSection(headers, []PathSegment{{Name: "group"}})
			convey.So(errors.Is(err, ErrAmbiguousPath), convey.ShouldBeTrue)
		})

		convey.Convey("unknown section", func() {
			_, err := findSection(headers, []PathSegment{{Name: "nope"}})
			convey.So(errors.Is(err, ErrPathNotFound), convey.ShouldBeTrue)
		})
	})
}

func TestFindAssignment(t *testing.T) {
	convey.Convey("assignment location", t, func() {
		lines := docLines(`root_key = 1

[alpha]
a = 1
"dot.ted" = 2

[[group]]
field = "x"

[[group]]
field = "y"
`)
		headers := IndexHeaders(lines)

		convey.Convey("root key", func() {
			a, err := findAssignment(lines, headers, []PathSegment{{Name: "root_key"}})
			convey.So(err, convey.ShouldBeNil)
			convey.So(a.Start, convey.ShouldEqual, 0)
			convey.So(a.End, convey.ShouldEqual, 0)
		})

		convey.Convey("key inside a table, raw tokens preserved", func() {
			a, err := findAssignment(lines, headers, []PathSegment{{Name: "alpha"}, {Name: "dot.ted"}})
			convey.So(err, convey.ShouldBeNil)
			convey.So(a.Start, convey.ShouldEqual, 4)
			convey.So(a.KeyTokens, convey.ShouldResemble, []string{`"dot.ted"`})
		})

		convey.Convey("indexed occurrence selects the right block", func() {
			a, err := findAssignment(lines, headers, []PathSegment{
				{Name: "group", Index: 1, HasIndex: true},
				{Name: "field"},
			})
			convey.So(err, convey.ShouldBeNil)
			convey.So(a.Start, convey.ShouldEqual, 10)
		})

		convey.Convey("unindexed occurrence is ambiguous", func() {
			_, err := findAssignment(lines, headers, []PathSegment{{Name: "group"}, {Name: "field"}})
			convey.So(errors.Is(err, ErrAmbiguousPath), convey.ShouldBeTrue)
		})

		convey.Convey("missing key", func() {
			_, err := findAssignment(lines, headers, []PathSegment{{Name: "alpha"}, {Name: "zzz"}})
			convey.So(errors.Is(err, ErrPathNotFound), convey.ShouldBeTrue)
		})
	})

	convey.Convey("duplicate keys in one section are ambiguous", t, func() {
		lines := docLines(`[s]
k = 1
k = 2
`)
		headers := IndexHeaders(lines)
		_, err := findAssignment(lines, headers, []PathSegment{{Name: "s"}, {Name: "k"}})
		convey.So(errors.Is(err, ErrAmbiguousPath), convey.ShouldBeTrue)
	})
}
