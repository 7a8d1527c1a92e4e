package engine

import (
	"context"
	"slices"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// Kind tags a Node.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindNumber
	KindBool
	KindDate
	KindArray
	KindSet
	KindMap
	KindObject
	KindForeign // delegates to an external skema.Schema
	KindLazy    // resolved on first use; enables recursive schemas
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindDate:
		return "date"
	case KindArray:
		return "array"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindObject:
		return "object"
	case KindForeign:
		return "foreign"
	case KindLazy:
		return "lazy"
	}
	return "unknown"
}

// Check is one constraint attached to a node. Test receives the value after
// coercion and preparation; for containers it receives the normalized
// container ([]any, []value.Entry or map[string]any).
type Check struct {
	Code    string
	Message string
	Params  map[string]any
	Test    func(v any) bool
	// Export optionally projects the check into JSON Schema keywords.
	Export func(s *js.Schema)
}

// Effect runs after a node and its whole subtree validated. It returns either
// the (possibly transformed) value or issues relative to the node.
type Effect func(ctx context.Context, v any) (any, skema.Issues)

// Field is one declared object property.
type Field struct {
	Name string
	Node *Node
}

// Node is an immutable description of one validation rule. Builders never
// modify a Node after it has been handed out; every With* method copies.
type Node struct {
	Kind   Kind
	Coerce bool

	Optional   bool
	HasDefault bool
	Default    any

	// Preprocess rewrites the raw input before nil handling and the type
	// check.
	Preprocess []func(any) any
	// Prepare rewrites the value after the type check and before Checks
	// (e.g. trimming strings).
	Prepare []func(any) any
	Checks  []Check
	// SizeChecks run on Set and Map nodes once their elements are parsed. Test
	// receives the number of distinct elements (or keys) after coercion.
	SizeChecks []Check

	Elem    *Node // Array/Set element, Map value
	Key     *Node // Map key
	Fields  []Field
	Unknown skema.UnknownPolicy

	Effects []Effect

	// Assemble builds the typed Go container for Array and Set nodes.
	Assemble func(items []any) any
	// AssembleMap builds the typed Go container for Map nodes.
	AssembleMap func(keys, vals []any) any

	Foreign       func(ctx context.Context, v any) (any, error)
	ForeignSchema func() (*js.Schema, error)

	Resolve func() *Node
}

// With returns a copy of n modified by fn.
func (n *Node) With(fn func(c *Node)) *Node {
	c := *n
	fn(&c)
	return &c
}

// WithCheck returns a copy of n with c appended to its checks.
func (n *Node) WithCheck(c Check) *Node {
	return n.With(func(cp *Node) { cp.Checks = append(slices.Clip(n.Checks), c) })
}

// WithSizeCheck returns a copy of n with c appended to its size checks.
func (n *Node) WithSizeCheck(c Check) *Node {
	return n.With(func(cp *Node) { cp.SizeChecks = append(slices.Clip(n.SizeChecks), c) })
}

// WithPrepare returns a copy of n with fn appended to its preparation steps.
func (n *Node) WithPrepare(fn func(any) any) *Node {
	return n.With(func(cp *Node) { cp.Prepare = append(slices.Clip(n.Prepare), fn) })
}

// WithPreprocess returns a copy of n with fn appended to its raw-input hooks.
func (n *Node) WithPreprocess(fn func(any) any) *Node {
	return n.With(func(cp *Node) { cp.Preprocess = append(slices.Clip(n.Preprocess), fn) })
}

// WithEffect returns a copy of n with e appended to its effects.
func (n *Node) WithEffect(e Effect) *Node {
	return n.With(func(cp *Node) { cp.Effects = append(slices.Clip(n.Effects), e) })
}

// WithField returns a copy of n with a field appended. An existing field of the
// same name is replaced in place.
func (n *Node) WithField(name string, child *Node) *Node {
	return n.With(func(cp *Node) {
		if i := n.FieldIndex(name); i >= 0 {
			cp.Fields = slices.Clone(n.Fields)
			cp.Fields[i].Node = child
			return
		}
		cp.Fields = append(slices.Clip(n.Fields), Field{Name: name, Node: child})
	})
}

// FieldIndex returns the position of the named field or -1.
func (n *Node) FieldIndex(name string) int {
	return slices.IndexFunc(n.Fields, func(f Field) bool { return f.Name == name })
}

// Absentable reports whether the node accepts a missing value. Lazy nodes
// are resolved until one of them says so.
func (n *Node) Absentable() bool {
	for ; n != nil; n = n.resolved() {
		if n.Optional || n.HasDefault {
			return true
		}
	}
	return false
}

// defaulted reports whether n, or a lazy node it resolves to, carries a
// default.
func (n *Node) defaulted() bool {
	for ; n != nil; n = n.resolved() {
		if n.HasDefault {
			return true
		}
		if n.Optional {
			return false
		}
	}
	return false
}

// Target returns the first non-lazy node behind n.
func (n *Node) Target() *Node {
	for n.Kind == KindLazy {
		n = n.Resolve()
	}
	return n
}

func (n *Node) resolved() *Node {
	if n.Kind != KindLazy {
		return nil
	}
	return n.Resolve()
}
