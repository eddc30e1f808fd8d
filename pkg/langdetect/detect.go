// Package langdetect picks the syntax tree provider for a source file.
// It uses go-enry to recognise languages from file names and content.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language is a language the mutation adapters can parse.
type Language string

// Supported languages.
const (
	Unknown    Language = ""
	Go         Language = "go"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	Markdown   Language = "markdown"
)

// String returns the language name, or "unknown".
func (l Language) String() string {
	if l == Unknown {
		return "unknown"
	}
	return string(l)
}

// Parse maps a user supplied name such as "ts" or "golang" to a Language.
func Parse(name string) Language {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "go", "golang":
		return Go
	case "js", "javascript", "jsx":
		return JavaScript
	case "ts", "typescript":
		return TypeScript
	case "tsx":
		return TSX
	case "md", "markdown":
		return Markdown
	default:
		return Unknown
	}
}

//nolint:gochecknoglobals // Classifier candidates, in enry naming.
var candidates = []string{"Go", "JavaScript", "TypeScript", "TSX", "Markdown"}

// Detect returns the language of a file from its name and content.
// Returns Unknown when no supported language matches.
func Detect(filename string, content []byte) Language {
	// Strategy 1: the extension is authoritative when it is unambiguous.
	if filename != "" {
		if lang, safe := enry.GetLanguageByExtension(filename); safe {
			if l := fromEnry(lang); l != Unknown {
				return l
			}
		}
		for _, lang := range enry.GetLanguagesByExtension(filename, content, candidates) {
			if l := fromEnry(lang); l != Unknown {
				return l
			}
		}
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return Unknown
	}

	// Strategy 2: interpreter directive.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fromEnry(lang)
	}

	// Strategy 3: highly indicative patterns.
	if l := detectByPattern(content); l != Unknown {
		return l
	}

	// Strategy 4: classifier restricted to supported languages.
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe {
		return fromEnry(lang)
	}

	return Unknown
}

// detectByPattern checks for language-specific patterns that are highly indicative.
func detectByPattern(content []byte) Language {
	trimmed := bytes.TrimSpace(content)
	contentStr := string(content)

	if bytes.HasPrefix(trimmed, []byte("package ")) {
		return Go
	}
	if bytes.HasPrefix(trimmed, []byte("# ")) || bytes.HasPrefix(trimmed, []byte("---\n")) {
		return Markdown
	}
	if strings.Contains(contentStr, "interface ") && strings.Contains(contentStr, ": ") ||
		strings.Contains(contentStr, "import type ") {
		return TypeScript
	}
	if strings.Contains(contentStr, "=>") ||
		strings.Contains(contentStr, "const ") ||
		strings.Contains(contentStr, "console.log") {
		return JavaScript
	}
	return Unknown
}

// fromEnry converts go-enry language names.
func fromEnry(lang string) Language {
	switch lang {
	case "Go":
		return Go
	case "JavaScript", "JSX":
		return JavaScript
	case "TypeScript":
		return TypeScript
	case "TSX":
		return TSX
	case "Markdown":
		return Markdown
	case "Node":
		return JavaScript
	default:
		return Unknown
	}
}
