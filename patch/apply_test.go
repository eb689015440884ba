package patch

import (
	"errors"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/smartystreets/goconvey/convey"

	"github.com/dzjyyds666/tomlpatch/parse/toml"
)

// mustSet builds a SetPatch from CLI-style arguments.
func mustSet(t *testing.T, expr string) SetPatch {
	t.Helper()
	pathStr, valueSrc, comment, err := SplitSetExpr(expr)
	if err != nil {
		t.Fatalf("bad set expression %q: %v", expr, err)
	}
	path, err := ParsePath(pathStr)
	if err != nil {
		t.Fatalf("bad path in %q: %v", expr, err)
	}
	value, err := toml.ParseValue(valueSrc)
	if err != nil {
		t.Fatalf("bad value in %q: %v", expr, err)
	}
	return SetPatch{Path: path, Value: value, Comment: comment}
}

// expectText compares documents and logs a character diff on mismatch.
func expectText(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		dmp := diffmatchpatch.New()
		t.Logf("document mismatch:\n%s", dmp.DiffPrettyText(dmp.DiffMain(want, got, false)))
	}
	convey.So(got, convey.ShouldEqual, want)
}

func TestSetSimplest(t *testing.T) {
	convey.Convey("rewriting a single integer value", t, func() {
		doc := NewDocument("[simplest_config_possible]\nint_value = 1\n")
		err := doc.Set(mustSet(t, "simplest_config_possible.int_value = 42"))
		convey.So(err, convey.ShouldBeNil)
		expectText(t, doc.Text(), "[simplest_config_possible]\nint_value = 42\n")
	})
}

func TestSetTwoKeysIndependently(t *testing.T) {
	convey.Convey("two sets only touch their own lines", t, func() {
		doc := NewDocument("[logger]\nstdout_level = 1\nfile_level = 1\n")
		convey.So(doc.Set(mustSet(t, "logger.stdout_level = 4")), convey.ShouldBeNil)
		convey.So(doc.Set(mustSet(t, "logger.file_level = 4")), convey.ShouldBeNil)
		expectText(t, doc.Text(), "[logger]\nstdout_level = 4\nfile_level = 4\n")
	})
}

func TestSetIndexedArrayTable(t *testing.T) {
	convey.Convey("an explicit occurrence index picks one block", t, func() {
		src := `[[servers]]
host = "a"

[[servers]]
host = "b"
`
		doc := NewDocument(src)
		err := doc.Set(mustSet(t, `servers[1].host = "x"`))
		convey.So(err, convey.ShouldBeNil)
		expectText(t, doc.Text(), `[[servers]]
host = "a"

[[servers]]
host = "x"
`)
	})
}

func TestSetAmbiguousWithoutIndex(t *testing.T) {
	convey.Convey("two occurrences and no index is ambiguous", t, func() {
		src := `[[group]]
field = 1

[[group]]
field = 2
`
		doc := NewDocument(src)
		err := doc.Set(mustSet(t, "group.field = 3"))
		convey.So(errors.Is(err, ErrAmbiguousPath), convey.ShouldBeTrue)
		// the failed edit must not have touched the document
		expectText(t, doc.Text(), src)
	})
}

func TestSetLocality(t *testing.T) {
	convey.Convey("bytes outside the resolved span are untouched", t, func() {
		src := "# heading comment\n" +
			"[app]   # inline\n" +
			"name   =   \"untidy\"    # spacing preserved elsewhere\n" +
			"port = 8080\n" +
			"\n" +
			"# trailing notes\n"
		doc := NewDocument(src)
		convey.So(doc.Set(mustSet(t, "app.port = 9090")), convey.ShouldBeNil)
		got := doc.Text()

		wantPrefix := "# heading comment\n" +
			"[app]   # inline\n" +
			"name   =   \"untidy\"    # spacing preserved elsewhere\n"
		wantSuffix := "\n# trailing notes\n"
		convey.So(strings.HasPrefix(got, wantPrefix), convey.ShouldBeTrue)
		convey.So(strings.HasSuffix(got, wantSuffix), convey.ShouldBeTrue)
		convey.So(got, convey.ShouldEqual, wantPrefix+"port = 9090\n"+wantSuffix)
	})
}

func TestSetMultilineValueCollapses(t *testing.T) {
	convey.Convey("a set over a multi-line value replaces the whole span", t, func() {
		src := `[app]
ports = [
  8001,
  8002,
]
after = true
`
		doc := NewDocument(src)
		convey.So(doc.Set(mustSet(t, "app.ports = [9001, 9002]")), convey.ShouldBeNil)
		expectText(t, doc.Text(), `[app]
ports = [9001, 9002]
after = true
`)
	})
}

func TestSetWithComment(t *testing.T) {
	convey.Convey("a supplied trailing comment is appended", t, func() {
		doc := NewDocument("[logger]\nstdout_level = 1\n")
		convey.So(doc.Set(mustSet(t, "logger.stdout_level = 6 # disable")), convey.ShouldBeNil)
		expectText(t, doc.Text(), "[logger]\nstdout_level = 6 # disable\n")
	})
}

func TestSetPreservesCRLF(t *testing.T) {
	convey.Convey("replacement lines keep the replaced line's terminator", t, func() {
		doc := NewDocument("[s]\r\nk = 1\r\nother = 2\r\n")
		convey.So(doc.Set(mustSet(t, "s.k = 9")), convey.ShouldBeNil)
		expectText(t, doc.Text(), "[s]\r\nk = 9\r\nother = 2\r\n")
	})
}

func TestSetQuotedKeyReemitted(t *testing.T) {
	convey.Convey("non-bare keys come back quoted", t, func() {
		doc := NewDocument("[s]\n\"dot.ted\" = 1\n")
		convey.So(doc.Set(mustSet(t, `s."dot.ted" = 2`)), convey.ShouldBeNil)
		expectText(t, doc.Text(), "[s]\n\"dot.ted\" = 2\n")
	})
}

func TestDeleteKey(t *testing.T) {
	convey.Convey("delete-key removes the assignment's whole span", t, func() {
		src := `[app]
keep = 1
gone = [
  1,
  2,
]
also_keep = 3
`
		doc := NewDocument(src)
		err := doc.DeleteKey(DeleteKeyPatch{Path: []PathSegment{{Name: "app"}, {Name: "gone"}}})
		convey.So(err, convey.ShouldBeNil)
		expectText(t, doc.Text(), `[app]
keep = 1
also_keep = 3
`)
	})
}

func TestDeleteSection(t *testing.T) {
	convey.Convey("delete-section keeps trailing standalone comments", t, func() {
		src := `[first]
a = 1

[victim]
b = 2

# comment that belongs to third
[third]
c = 3
`
		doc := NewDocument(src)
		err := doc.DeleteSection(DeleteSectionPatch{Path: []PathSegment{{Name: "victim"}}})
		convey.So(err, convey.ShouldBeNil)
		expectText(t, doc.Text(), `[first]
a = 1


# comment that belongs to third
[third]
c = 3
`)
	})

	convey.Convey("array-of-table deletion needs an index", t, func() {
		src := `[[w]]
x = 1

[[w]]
x = 2
`
		doc := NewDocument(src)
		err := doc.DeleteSection(DeleteSectionPatch{Path: []PathSegment{{Name: "w"}}})
		convey.So(errors.Is(err, ErrAmbiguousPath), convey.ShouldBeTrue)

		err = doc.DeleteSection(DeleteSectionPatch{Path: []PathSegment{{Name: "w", Index: 0, HasIndex: true}}})
		convey.So(err, convey.ShouldBeNil)
		expectText(t, doc.Text(), `
[[w]]
x = 2
`)
	})

	convey.Convey("the root section cannot be deleted", t, func() {
		doc := NewDocument("a = 1\n")
		err := doc.DeleteSection(DeleteSectionPatch{Path: nil})
		convey.So(errors.Is(err, ErrRootDeletion), convey.ShouldBeTrue)
	})
}

func TestReplaceTopComment(t *testing.T) {
	convey.Convey("the leading comment block is swapped out", t, func() {
		src := `# old header
# more old header

a = 1
`
		doc := NewDocument(src)
		doc.ReplaceTopComment("managed by deploy\n\ndo not edit")
		expectText(t, doc.Text(), `# managed by deploy
#
# do not edit

a = 1
`)
	})

	convey.Convey("a document with no top comment gains one", t, func() {
		doc := NewDocument("a = 1\n")
		doc.ReplaceTopComment("hello")
		expectText(t, doc.Text(), "# hello\n\na = 1\n")
	})

	convey.Convey("CRLF breaks in the text leave no stray carriage returns", t, func() {
		doc := NewDocument("a = 1\n")
		doc.ReplaceTopComment("first\r\n\r\nsecond\r\n")
		expectText(t, doc.Text(), "# first\n#\n# second\n\na = 1\n")
	})
}

func TestEditedDocumentStillValidates(t *testing.T) {
	convey.Convey("edits never introduce syntax errors", t, func() {
		src := `top = 1

[alpha]
a = "x"
b = [1, 2]
`
		doc := NewDocument(src)
		convey.So(doc.Set(mustSet(t, `alpha.a = "y"`)), convey.ShouldBeNil)
		convey.So(doc.DeleteKey(DeleteKeyPatch{Path: []PathSegment{{Name: "alpha"}, {Name: "b"}}}), convey.ShouldBeNil)
		_, err := toml.Parse(strings.NewReader(doc.Text()))
		convey.So(err, convey.ShouldBeNil)
	})
}
