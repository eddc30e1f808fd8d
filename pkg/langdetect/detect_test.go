package langdetect_test

import (
	"testing"

	"github.com/yaklabco/nodemutation/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		content  string
		expected langdetect.Language
	}{
		{
			name:     "go extension",
			filename: "cmd/main.go",
			content:  "package main",
			expected: langdetect.Go,
		},
		{
			name:     "javascript extension",
			filename: "src/app.js",
			expected: langdetect.JavaScript,
		},
		{
			name:     "module javascript extension",
			filename: "src/app.mjs",
			expected: langdetect.JavaScript,
		},
		{
			name:     "ambiguous typescript extension",
			filename: "src/app.ts",
			content:  "export const x: number = 1;",
			expected: langdetect.TypeScript,
		},
		{
			name:     "tsx extension",
			filename: "src/view.tsx",
			expected: langdetect.TSX,
		},
		{
			name:     "ambiguous markdown extension",
			filename: "README.md",
			content:  "# Title",
			expected: langdetect.Markdown,
		},
		{
			name:     "unsupported extension falls back to content",
			filename: "notes.txt",
			content:  "package main\n\nfunc main() {}",
			expected: langdetect.Go,
		},
		{
			name:     "node shebang",
			content:  "#!/usr/bin/env node\nconsole.log(1)",
			expected: langdetect.JavaScript,
		},
		{
			name:     "unsupported shebang",
			content:  "#!/bin/bash\necho hello",
			expected: langdetect.Unknown,
		},
		{
			name:     "markdown heading",
			content:  "# Title\n\nSome text.",
			expected: langdetect.Markdown,
		},
		{
			name:     "javascript code",
			content:  "const x = () => { return 42; };",
			expected: langdetect.JavaScript,
		},
		{
			name:     "typescript code",
			content:  "interface Foo {\n  bar: string\n}",
			expected: langdetect.TypeScript,
		},
		{
			name:     "empty content",
			expected: langdetect.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := langdetect.Detect(tt.filename, []byte(tt.content))

			if result != tt.expected {
				t.Errorf("Detect() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestDetect_ExtensionTakesPrecedence(t *testing.T) {
	t.Parallel()

	// Content looks like Go but the file is Markdown.
	result := langdetect.Detect("doc.markdown", []byte("package main\n"))

	if result != langdetect.Markdown {
		t.Errorf("Detect() = %q, want %q (extension should take precedence)", result, langdetect.Markdown)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want langdetect.Language
	}{
		{name: "golang", want: langdetect.Go},
		{name: "JS", want: langdetect.JavaScript},
		{name: "ts", want: langdetect.TypeScript},
		{name: "tsx", want: langdetect.TSX},
		{name: " md ", want: langdetect.Markdown},
		{name: "cobol", want: langdetect.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := langdetect.Parse(tt.name); got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestLanguageString(t *testing.T) {
	t.Parallel()

	if got := langdetect.Unknown.String(); got != "unknown" {
		t.Errorf("Unknown.String() = %q, want %q", got, "unknown")
	}
	if got := langdetect.TSX.String(); got != "tsx" {
		t.Errorf("TSX.String() = %q, want %q", got, "tsx")
	}
}
