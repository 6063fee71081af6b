// Package tree walks decoded JSON documents and collects the records that
// match a predicate.
package tree

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind tags the shape of a Node.
type Kind int

const (
	// Scalar is a string, number, boolean or null leaf.
	Scalar Kind = iota
	// Mapping is an object with string keys.
	Mapping
	// Sequence is an ordered list of nodes.
	Sequence
)

func (k Kind) String() string {
	switch k {
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	default:
		return "scalar"
	}
}

// Node wraps one value of a decoded JSON document.
// The zero Node is a null scalar and is what absent fields resolve to.
type Node struct {
	kind Kind
	val  any
}

// Wrap classifies a decoded value. Anything that is not a mapping or a
// sequence is treated as a scalar.
func Wrap(v any) Node {
	switch v.(type) {
	case map[string]any:
		return Node{kind: Mapping, val: v}
	case []any:
		return Node{kind: Sequence, val: v}
	default:
		return Node{kind: Scalar, val: v}
	}
}

func (n Node) Kind() Kind { return n.kind }

// Value returns the underlying decoded value.
func (n Node) Value() any { return n.val }

// IsNull reports whether n is null or an absent field.
func (n Node) IsNull() bool { return n.kind == Scalar && n.val == nil }

// Has reports whether a mapping node carries key, whatever its value.
func (n Node) Has(key string) bool {
	if n.kind != Mapping {
		return false
	}
	_, ok := n.val.(map[string]any)[key]
	return ok
}

// Get returns the child stored under key, or the zero Node when n is not a
// mapping or the key is absent.
func (n Node) Get(key string) Node {
	if n.kind != Mapping {
		return Node{}
	}
	v, ok := n.val.(map[string]any)[key]
	if !ok {
		return Node{}
	}
	return Wrap(v)
}

// Keys returns the keys of a mapping in sorted order.
func (n Node) Keys() []string {
	if n.kind != Mapping {
		return nil
	}
	m := n.val.(map[string]any)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len is the number of entries of a mapping or elements of a sequence.
func (n Node) Len() int {
	switch n.kind {
	case Mapping:
		return len(n.val.(map[string]any))
	case Sequence:
		return len(n.val.([]any))
	default:
		return 0
	}
}

// Elems returns the elements of a sequence in order.
func (n Node) Elems() []Node {
	if n.kind != Sequence {
		return nil
	}
	s := n.val.([]any)
	out := make([]Node, len(s))
	for i, v := range s {
		out[i] = Wrap(v)
	}
	return out
}

// Str returns the value when n is a string scalar.
func (n Node) Str() (string, bool) {
	s, ok := n.val.(string)
	return s, ok
}

// Text renders a scalar as text. Strings are returned verbatim, numbers and
// booleans in their JSON spelling. Null, mappings and sequences give "".
func (n Node) Text() string {
	switch v := n.val.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Int coerces n to an integer. Integral numbers and strings holding a
// decimal integer convert; everything else reports false.
func (n Node) Int() (int64, bool) {
	switch v := n.val.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// Truthy follows loose truthiness: false, zero, "", null and empty
// containers are false. Strings that spell a boolean use that boolean.
func (n Node) Truthy() bool {
	switch v := n.val.(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case float64:
		return v != 0
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		return v != ""
	default:
		return n.Len() > 0
	}
}
