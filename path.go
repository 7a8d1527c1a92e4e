package skema

import (
	"strconv"
	"strings"
)

// PathSegment is one step of a Path: either an object field / map key or a
// sequence index.
type PathSegment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a field-name segment.
func Key(name string) PathSegment { return PathSegment{key: name} }

// Index returns a sequence-index segment.
func Index(i int) PathSegment { return PathSegment{index: i, isIndex: true} }

// IsIndex reports whether the segment addresses a sequence element.
func (s PathSegment) IsIndex() bool { return s.isIndex }

// Name returns the field name; empty for index segments.
func (s PathSegment) Name() string { return s.key }

// Pos returns the index; 0 for field segments.
func (s PathSegment) Pos() int { return s.index }

func (s PathSegment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path locates a value inside the parsed input. The zero Path is the root.
type Path []PathSegment

// Append returns a copy of p extended by seg.
func (p Path) Append(seg PathSegment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Prepend returns a copy of p with seg in front.
func (p Path) Prepend(seg PathSegment) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, seg)
	return append(out, p...)
}

// Pointer renders p as a JSON Pointer. The root renders as "/".
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range p {
		b.WriteByte('/')
		if seg.isIndex {
			b.WriteString(strconv.Itoa(seg.index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(seg.key, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// String renders p in dotted form, e.g. "address.city" or "emails[2]".
func (p Path) String() string {
	b := &strings.Builder{}
	for i, seg := range p {
		if seg.isIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.key)
	}
	return b.String()
}

// ParsePointer splits a JSON Pointer into a Path. Numeric tokens become index
// segments.
func ParsePointer(ptr string) Path {
	if ptr == "" || ptr == "/" {
		return nil
	}
	var p Path
	for _, tok := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		if i, err := strconv.Atoi(tok); err == nil && i >= 0 {
			p = append(p, Index(i))
			continue
		}
		p = append(p, Key(strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")))
	}
	return p
}
