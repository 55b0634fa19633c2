// Package astcheck runs structural checks over syntax trees that text
// patterns cannot express. Python is the fully parsable language; units in
// other languages stay on regex-only coverage.
package astcheck

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/python"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Sentinel errors for parsing.
var (
	// ErrParseFailed marks a unit with syntax errors. The unit degrades to
	// regex-only findings; the scan itself continues.
	ErrParseFailed = errors.New("syntax tree parse failed")

	errNoRootNode = errors.New("parser returned no root node")
	errPoolType   = errors.New("parser pool returned unexpected type")
)

// pythonLanguage is created once; tree-sitter languages are immutable.
var (
	pythonLanguage     *sitter.Language
	pythonLanguageOnce sync.Once
)

func getPythonLanguage() *sitter.Language {
	pythonLanguageOnce.Do(func() {
		pythonLanguage = sitter.NewLanguage(python.GetLanguage())
	})

	return pythonLanguage
}

// parserPool reuses tree-sitter parser instances across units.
type parserPool struct {
	pool sync.Pool
}

func newParserPool(lang *sitter.Language) *parserPool {
	return &parserPool{
		pool: sync.Pool{
			New: func() any {
				tsParser := sitter.NewParser()
				tsParser.SetLanguage(lang)

				return tsParser
			},
		},
	}
}

// parse builds a syntax tree for content. The caller owns the returned tree
// and must Close it. Content tree-sitter had to error-recover is reported
// as ErrParseFailed.
func (p *parserPool) parse(ctx context.Context, content []byte) (*sitter.Tree, sitter.Node, error) {
	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, sitter.Node{}, errPoolType
	}

	defer p.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, sitter.Node{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	root := tree.RootNode()
	if root.IsNull() {
		tree.Close()

		return nil, sitter.Node{}, errNoRootNode
	}

	// HasError covers both ERROR nodes and MISSING-node recoveries, where
	// the grammar inserts a phantom token and the tree looks superficially
	// well-formed.
	if root.HasError() {
		tree.Close()

		return nil, sitter.Node{}, ErrParseFailed
	}

	return tree, root, nil
}
