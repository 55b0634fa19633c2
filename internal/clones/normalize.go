// Package clones finds duplicated code across the scanned corpus by
// fingerprinting normalized statement windows. It runs strictly after the
// per-file stage: it consumes normalized representations held in the unit
// arena, never raw file handles.
package clones

import (
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/sloppy/internal/classify"
)

// Statement is one normalized source statement with its original line.
type Statement struct {
	Line int
	Text string
}

// Token classes replaced during identifier renaming. Renaming maps every
// identifier to the same placeholder, which catches copy-paste-with-rename
// while keeping keywords and operators significant.
const (
	placeholderIdent  = "$id"
	placeholderNumber = "$num"
	placeholderString = "$str"
)

var (
	stringRe = regexp.MustCompile(`"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'|` + "`[^`]*`")
	tokenRe  = regexp.MustCompile(`"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'|` + "`[^`]*`" + `|[A-Za-z_][A-Za-z0-9_]*|\d[\w.]*`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// pythonKeywords, goKeywords, and jsKeywords survive identifier renaming;
// control flow stays significant in the fingerprint.
var pythonKeywords = keywordSet(
	"False", "None", "True", "and", "as", "assert", "async", "await", "break",
	"class", "continue", "def", "del", "elif", "else", "except", "finally",
	"for", "from", "global", "if", "import", "in", "is", "lambda", "nonlocal",
	"not", "or", "pass", "raise", "return", "try", "while", "with", "yield",
)

var goKeywords = keywordSet(
	"break", "case", "chan", "const", "continue", "default", "defer", "else",
	"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
	"map", "package", "range", "return", "select", "struct", "switch", "type",
	"var", "nil", "true", "false",
)

var jsKeywords = keywordSet(
	"async", "await", "break", "case", "catch", "class", "const", "continue",
	"default", "delete", "do", "else", "export", "extends", "finally", "for",
	"function", "if", "import", "in", "instanceof", "let", "new", "of",
	"return", "static", "super", "switch", "this", "throw", "try", "typeof",
	"var", "void", "while", "with", "yield", "null", "true", "false",
	"undefined", "interface", "type", "enum", "implements",
)

func keywordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}

	return set
}

func keywordsFor(language string) map[string]bool {
	switch language {
	case classify.LangPython:
		return pythonKeywords
	case classify.LangGo:
		return goKeywords
	case classify.LangJavaScript, classify.LangTypeScript:
		return jsKeywords
	default:
		return nil
	}
}

// Normalize turns raw content into the statement sequence used for
// fingerprinting: comments and blank lines are stripped, whitespace is
// collapsed, and (optionally) identifiers, numbers, and strings are renamed
// to positional placeholders.
func Normalize(language string, content []byte, renameIdents bool) []Statement {
	keywords := keywordsFor(language)
	inBlockComment := false

	lines := strings.Split(string(content), "\n")
	statements := make([]Statement, 0, len(lines))

	for i, line := range lines {
		line, inBlockComment = stripComments(language, line, inBlockComment)

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if renameIdents {
			line = renameTokens(line, keywords)
		}

		line = spaceRe.ReplaceAllString(line, " ")
		statements = append(statements, Statement{Line: i + 1, Text: line})
	}

	return statements
}

// stripComments removes the comment portion of a line. Python uses #;
// Go and JS/TS use // and /* */ block comments. The heuristic ignores
// comment markers inside string literals by masking strings first.
func stripComments(language, line string, inBlock bool) (string, bool) {
	if language == classify.LangPython {
		masked := stringRe.ReplaceAllStringFunc(line, mask)
		if idx := strings.Index(masked, "#"); idx >= 0 {
			return line[:idx], false
		}

		return line, false
	}

	if inBlock {
		end := strings.Index(line, "*/")
		if end < 0 {
			return "", true
		}

		line = line[end+2:]
	}

	masked := stringRe.ReplaceAllStringFunc(line, mask)

	for {
		start := strings.Index(masked, "/*")
		if start < 0 {
			break
		}

		end := strings.Index(masked[start:], "*/")
		if end < 0 {
			return line[:start], true
		}

		line = line[:start] + line[start+end+2:]
		masked = masked[:start] + masked[start+end+2:]
	}

	if idx := strings.Index(masked, "//"); idx >= 0 {
		return line[:idx], false
	}

	return line, false
}

// mask replaces a string literal with same-length filler so comment markers
// inside it are invisible to the index scans.
func mask(s string) string {
	return strings.Repeat("x", len(s))
}

// renameTokens replaces strings, numbers, and non-keyword identifiers with
// placeholders in a single pass, so placeholders are never re-tokenized.
func renameTokens(line string, keywords map[string]bool) string {
	return tokenRe.ReplaceAllStringFunc(line, func(tok string) string {
		switch c := tok[0]; {
		case c == '"' || c == '\'' || c == '`':
			return placeholderString
		case c >= '0' && c <= '9':
			return placeholderNumber
		case keywords[tok]:
			return tok
		default:
			return placeholderIdent
		}
	})
}
