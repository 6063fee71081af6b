package tree

// Traverse walks root depth-first in pre-order. visit is called for every
// mapping before its values are descended into; sequences are descended
// element by element without a visit of their own, and scalars stop the
// descent. Mapping values are visited in sorted key order.
//
// The input must be a tree. Shared or cyclic references are not detected.
func Traverse(root Node, visit func(Node)) {
	switch root.kind {
	case Mapping:
		visit(root)
		m := root.val.(map[string]any)
		for _, k := range root.Keys() {
			Traverse(Wrap(m[k]), visit)
		}
	case Sequence:
		for _, v := range root.val.([]any) {
			Traverse(Wrap(v), visit)
		}
	}
}

// Sink receives the projections of matched records.
type Sink[T any] interface {
	Add(T)
}

// Projector tests a mapping node and, when it matches, returns the value
// to keep. A projector never fails: unusable fields mean no match.
type Projector[T any] func(Node) (T, bool)

// Collect traverses root, feeds every projection into sink and returns the
// same sink so callers can chain the post-processing step.
func Collect[T any, S Sink[T]](root Node, project Projector[T], sink S) S {
	Traverse(root, func(n Node) {
		if v, ok := project(n); ok {
			sink.Add(v)
		}
	})
	return sink
}
