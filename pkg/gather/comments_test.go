package gather

import (
	"strings"
	"testing"
)

func TestStripCommentsGo(t *testing.T) {
	in := "// Package doc.\npackage main\n\n/* block\ncomment */\nfunc main() {} // trailing\n"
	out := StripComments("main.go", in)
	if strings.Contains(out, "Package doc") || strings.Contains(out, "block") || strings.Contains(out, "trailing") {
		t.Fatalf("comments survived:\n%s", out)
	}
	if !strings.Contains(out, "package main") || !strings.Contains(out, "func main() {}") {
		t.Fatalf("code lost:\n%s", out)
	}
}

func TestStripCommentsPython(t *testing.T) {
	in := "\"\"\"Module docstring.\"\"\"\n# a comment\nx = 1  # inline\n"
	out := StripComments("script.py", in)
	if strings.Contains(out, "docstring") || strings.Contains(out, "comment") || strings.Contains(out, "inline") {
		t.Fatalf("comments survived:\n%s", out)
	}
	if !strings.Contains(out, "x = 1") {
		t.Fatalf("code lost:\n%s", out)
	}
}

func TestStripCommentsHTML(t *testing.T) {
	in := "<div>keep</div>\n<!-- drop\nme -->\n<span>also keep</span>\n"
	out := StripComments("page.html", in)
	if strings.Contains(out, "drop") {
		t.Fatalf("comment survived:\n%s", out)
	}
	if !strings.Contains(out, "<div>keep</div>") || !strings.Contains(out, "<span>also keep</span>") {
		t.Fatalf("markup lost:\n%s", out)
	}
}

func TestStripCommentsUnknownExtension(t *testing.T) {
	in := "# looks like a comment but the format is unknown\n"
	if out := StripComments("data.unknownext", in); out != in {
		t.Fatalf("unknown extensions must pass through untouched: %q", out)
	}
}

func TestStripCommentsCollapsesBlankRuns(t *testing.T) {
	in := "a := 1\n// one\n// two\n// three\nb := 2\n"
	out := StripComments("x.go", in)
	if strings.Contains(out, "\n\n\n") {
		t.Fatalf("blank runs not collapsed: %q", out)
	}
}
