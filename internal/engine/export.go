package engine

import (
	"slices"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// JSONSchema projects n into a JSON Schema. Lazy nodes project to an
// unconstrained schema so recursive trees terminate.
func JSONSchema(n *Node) (*js.Schema, error) {
	if n == nil {
		return &js.Schema{}, nil
	}
	var s *js.Schema
	switch n.Kind {
	case KindString:
		s = &js.Schema{Type: "string"}
	case KindNumber:
		s = &js.Schema{Type: "number"}
	case KindBool:
		s = &js.Schema{Type: "boolean"}
	case KindDate:
		s = &js.Schema{Type: "string", Format: "date-time"}
	case KindArray, KindSet:
		items, err := JSONSchema(n.Elem)
		if err != nil {
			return nil, err
		}
		s = &js.Schema{Type: "array", Items: items, UniqueItems: n.Kind == KindSet}
	case KindMap:
		vs, err := JSONSchema(n.Elem)
		if err != nil {
			return nil, err
		}
		s = &js.Schema{Type: "object", AdditionalProperties: vs}
	case KindObject:
		s = &js.Schema{Type: "object", Properties: make(map[string]*js.Schema, len(n.Fields))}
		for _, f := range n.Fields {
			fs, err := JSONSchema(f.Node)
			if err != nil {
				return nil, err
			}
			s.Properties[f.Name] = fs
			if !f.Node.Absentable() {
				s.Required = append(s.Required, f.Name)
			}
		}
		if n.Unknown == skema.UnknownStrict {
			s.AdditionalProperties = false
		}
	case KindForeign:
		if n.ForeignSchema == nil {
			s = &js.Schema{}
			break
		}
		fs, err := n.ForeignSchema()
		if err != nil {
			return nil, err
		}
		if fs == nil {
			fs = &js.Schema{}
		}
		cp := *fs
		s = &cp
	default:
		s = &js.Schema{}
	}
	for _, c := range slices.Concat(n.Checks, n.SizeChecks) {
		if c.Export != nil {
			c.Export(s)
		}
	}
	if n.HasDefault {
		s.Default = n.Default
	}
	return s, nil
}
