package tree

import (
	"fmt"
	"io"
	"os"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Load reads and decodes a JSON document.
func Load(path string) (Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return Node{}, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }() // read-only

	return Decode(f)
}

// Decode parses a JSON document from r.
func Decode(r io.Reader) (Node, error) {
	v, err := oj.Load(r)
	if err != nil {
		return Node{}, fmt.Errorf("parse document: %w", err)
	}
	return Wrap(v), nil
}

// Select evaluates a JSONPath expression against root and returns the
// matches wrapped as one sequence, so the result can be fed straight back
// into Traverse.
func Select(root Node, selector string) (Node, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return Node{}, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	results := x.Get(root.val)
	if results == nil {
		results = []any{}
	}
	return Node{kind: Sequence, val: results}, nil
}

// MustSelect is Select for selectors known to be valid at compile time.
func MustSelect(root Node, selector string) Node {
	n, err := Select(root, selector)
	if err != nil {
		panic(err)
	}
	return n
}

// JSON renders a node with sorted keys. indent 0 gives compact output.
func JSON(n Node, indent int) string {
	return oj.JSON(n.val, &oj.Options{Indent: indent, Sort: true})
}
