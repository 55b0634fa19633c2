// Package patterns holds the built-in detector catalog. IDs are stable and
// globally unique; renaming one breaks disable lists and tests.
package patterns

import (
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

// Default returns the full built-in catalog in registration order: Python
// first, then Go, then JavaScript/TypeScript, then the tree rules.
func Default() []registry.Pattern {
	var all []registry.Pattern

	all = append(all, pythonPatterns()...)
	all = append(all, goPatterns()...)
	all = append(all, jsPatterns()...)
	all = append(all, treePatterns()...)

	return all
}

// NewDefaultRegistry builds a registry over the built-in catalog.
func NewDefaultRegistry() (*registry.Registry, error) {
	return registry.New(Default())
}
