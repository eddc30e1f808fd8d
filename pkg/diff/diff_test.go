package diff_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/nodemutation/pkg/diff"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for empty inputs", func(t *testing.T) {
		t.Parallel()

		if d := diff.Generate("a.go", nil, nil); d != nil {
			t.Error("expected nil for empty inputs")
		}
	})

	t.Run("returns nil for identical content", func(t *testing.T) {
		t.Parallel()

		content := []byte("hello\nworld\n")
		if d := diff.Generate("a.go", content, content); d != nil {
			t.Error("expected nil for identical content")
		}
	})

	t.Run("detects replacement", func(t *testing.T) {
		t.Parallel()

		d := diff.Generate("a.js", []byte("foo\nbar\nbaz\n"), []byte("foo\nqux\nbaz\n"))
		if d == nil {
			t.Fatal("expected non-nil diff")
		}

		want := "--- a/a.js\n+++ b/a.js\n@@ -1,3 +1,3 @@\n foo\n-bar\n+qux\n baz\n"
		if got := d.String(); got != want {
			t.Errorf("String() =\n%s\nwant:\n%s", got, want)
		}
		if d.Additions != 1 || d.Deletions != 1 {
			t.Errorf("Additions/Deletions = %d/%d, want 1/1", d.Additions, d.Deletions)
		}
	})

	t.Run("detects addition", func(t *testing.T) {
		t.Parallel()

		d := diff.Generate("a.md", []byte("line1\nline2\n"), []byte("line1\nline2\nline3\n"))
		if d == nil {
			t.Fatal("expected non-nil diff")
		}
		if !strings.Contains(d.String(), "+line3\n") {
			t.Errorf("expected diff to contain +line3, got:\n%s", d.String())
		}
		if d.Additions != 1 || d.Deletions != 0 {
			t.Errorf("Additions/Deletions = %d/%d, want 1/0", d.Additions, d.Deletions)
		}
	})

	t.Run("handles new file", func(t *testing.T) {
		t.Parallel()

		d := diff.Generate("a.md", nil, []byte("new content\n"))
		if d == nil {
			t.Fatal("expected non-nil diff")
		}
		if !strings.Contains(d.String(), "@@ -0,0 +1,1 @@\n+new content\n") {
			t.Errorf("unexpected diff output:\n%s", d.String())
		}
	})

	t.Run("handles content without trailing newline", func(t *testing.T) {
		t.Parallel()

		d := diff.Generate("a.md", []byte("line1\nline2"), []byte("line1\nline3"))
		if d == nil {
			t.Fatal("expected diff for changed content")
		}
		if !strings.Contains(d.String(), "-line2\n+line3\n") {
			t.Errorf("unexpected diff output:\n%s", d.String())
		}
	})
}

func TestGenerate_Hunks(t *testing.T) {
	t.Parallel()

	t.Run("separates distant changes", func(t *testing.T) {
		t.Parallel()

		var origLines, modLines []string
		for lineIdx := range 20 {
			origLines = append(origLines, "line"+string(rune('a'+lineIdx)))
			modLines = append(modLines, "line"+string(rune('a'+lineIdx)))
		}
		origLines[1], modLines[1] = "original2", "modified2"
		origLines[17], modLines[17] = "original18", "modified18"

		d := diff.Generate("a.go",
			[]byte(strings.Join(origLines, "\n")+"\n"),
			[]byte(strings.Join(modLines, "\n")+"\n"))
		if d == nil {
			t.Fatal("expected non-nil diff")
		}
		if len(d.Hunks) != 2 {
			t.Fatalf("expected 2 hunks, got %d", len(d.Hunks))
		}
		if got := d.Hunks[1].Header(); got != "@@ -15,6 +15,6 @@" {
			t.Errorf("second hunk header = %q", got)
		}
	})

	t.Run("second hunk keeps its own lines", func(t *testing.T) {
		t.Parallel()

		orig := "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nk\nl\n"
		mod := "a\nB\nc\nd\ne\nf\ng\nh\ni\nj\nK\nl\n"

		d := diff.Generate("a.txt", []byte(orig), []byte(mod))
		if d == nil {
			t.Fatal("expected non-nil diff")
		}
		if len(d.Hunks) != 2 {
			t.Fatalf("expected 2 hunks, got %d", len(d.Hunks))
		}
		if got := d.Hunks[1].Header(); got != "@@ -8,5 +8,5 @@" {
			t.Errorf("second hunk header = %q", got)
		}
		want := "@@ -8,5 +8,5 @@\n h\n i\n j\n-k\n+K\n l\n"
		if !strings.HasSuffix(d.String(), want) {
			t.Errorf("diff does not end with second hunk:\n%s", d.String())
		}
		if d.Additions != 2 || d.Deletions != 2 {
			t.Errorf("additions/deletions = %d/%d, want 2/2", d.Additions, d.Deletions)
		}
	})

	t.Run("final newline added", func(t *testing.T) {
		t.Parallel()

		d := diff.Generate("a.txt", []byte("x\ny"), []byte("x\ny\n"))
		if !d.HasChanges() {
			t.Fatal("expected a change for the added final newline")
		}
		if d.Additions != 1 || d.Deletions != 1 {
			t.Errorf("additions/deletions = %d/%d, want 1/1", d.Additions, d.Deletions)
		}
	})

	t.Run("merges close changes", func(t *testing.T) {
		t.Parallel()

		d := diff.Generate("a.go", []byte("a\nb\nc\nd\ne\n"), []byte("a\nB\nc\nD\ne\n"))
		if d == nil {
			t.Fatal("expected non-nil diff")
		}
		if len(d.Hunks) != 1 {
			t.Errorf("expected 1 merged hunk, got %d", len(d.Hunks))
		}
	})
}

func TestDiff_Nil(t *testing.T) {
	t.Parallel()

	var d *diff.Diff
	if d.String() != "" || d.FullString() != "" || d.GitHeader() != "" {
		t.Error("expected empty strings for nil diff")
	}
	if d.HasChanges() {
		t.Error("expected HasChanges() = false for nil diff")
	}
}

func TestDiff_FullString(t *testing.T) {
	t.Parallel()

	d := diff.Generate("/src/a.ts", []byte("x\n"), []byte("y\n"))
	if !strings.HasPrefix(d.FullString(), "diff --git a/src/a.ts b/src/a.ts\n--- a/src/a.ts\n") {
		t.Errorf("unexpected full diff:\n%s", d.FullString())
	}
}
