// Package classify maps file paths to language tags using extension rules.
// Content is never consulted; classification is a pure function of the path.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/src-d/enry/v2"
)

// Language tags for the languages the engine ships detectors for.
const (
	LangPython     = "python"
	LangGo         = "go"
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"

	// Unknown marks files excluded from all downstream processing.
	Unknown = ""
)

// enryTags maps enry's language names to engine language tags. Languages
// without a detector catalog classify as Unknown.
var enryTags = map[string]string{
	"Python":     LangPython,
	"Go":         LangGo,
	"JavaScript": LangJavaScript,
	"TypeScript": LangTypeScript,
	"JSX":        LangJavaScript,
	"TSX":        LangTypeScript,
}

// Classifier resolves file paths to language tags. Overrides take precedence
// over the built-in extension rules; keys are extensions including the dot
// (".pyx"), values are language tags.
type Classifier struct {
	overrides map[string]string
}

// New creates a Classifier with the given extension overrides. A nil map is
// valid and leaves only the built-in rules.
func New(overrides map[string]string) *Classifier {
	normalized := make(map[string]string, len(overrides))
	for ext, tag := range overrides {
		normalized[strings.ToLower(ext)] = tag
	}

	return &Classifier{overrides: normalized}
}

// Classify returns the language tag for a path, or Unknown. It never fails:
// unmatched extensions simply classify as Unknown.
func (c *Classifier) Classify(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return Unknown
	}

	if tag, ok := c.overrides[ext]; ok {
		return tag
	}

	// An extension can map to several languages (".ts" is TypeScript and
	// XML to enry); take the first candidate with a detector catalog.
	for _, lang := range enry.GetLanguagesByExtension(path, nil, nil) {
		if tag, ok := enryTags[lang]; ok {
			return tag
		}
	}

	return Unknown
}

// IsBinary reports whether content looks binary. Binary files are skipped
// with a diagnostic rather than scanned.
func IsBinary(content []byte) bool {
	return enry.IsBinary(content)
}
