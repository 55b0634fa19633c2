package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyKnownExtensions(t *testing.T) {
	t.Parallel()

	classifier := New(nil)

	tests := []struct {
		path string
		want string
	}{
		{"src/main.py", LangPython},
		{"pkg/server.go", LangGo},
		{"web/app.js", LangJavaScript},
		{"web/app.ts", LangTypeScript},
		{"web/component.tsx", LangTypeScript},
		{"README.md", Unknown},
		{"Makefile", Unknown},
		{"archive.tar.gz", Unknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifier.Classify(tt.path), "path %s", tt.path)
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	classifier := New(nil)

	assert.Equal(t, LangPython, classifier.Classify("legacy/SCRIPT.PY"))
	assert.Equal(t, LangGo, classifier.Classify("cmd/MAIN.GO"))
}

func TestClassifyOverrides(t *testing.T) {
	t.Parallel()

	classifier := New(map[string]string{
		".PYX":  LangPython,
		".mjsx": LangJavaScript,
	})

	assert.Equal(t, LangPython, classifier.Classify("ext/module.pyx"))
	assert.Equal(t, LangJavaScript, classifier.Classify("web/entry.mjsx"))

	// Overrides win over built-in rules.
	override := New(map[string]string{".py": LangJavaScript})
	assert.Equal(t, LangJavaScript, override.Classify("weird.py"))
}

func TestClassifyNoExtension(t *testing.T) {
	t.Parallel()

	classifier := New(map[string]string{".py": LangPython})

	assert.Equal(t, Unknown, classifier.Classify("bin/tool"))
	assert.Equal(t, Unknown, classifier.Classify(""))
}

func TestIsBinary(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBinary([]byte{0x7f, 'E', 'L', 'F', 0x00, 0x01}))
	assert.False(t, IsBinary([]byte("def main():\n    pass\n")))
}
