package engine

import (
	"context"
	"maps"
	"math"
	"sort"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/coerce"
	"github.com/reoring/skema/messages"
	"github.com/reoring/skema/value"
)

// depthKey carries the nesting depth of an enclosing Run into schemas that
// start their own run (adapted schemas, pipe targets).
type depthKey struct{}

// Run validates v against n. It returns the output value or every issue found,
// never both. Options (fail-fast, depth bound, logger) are read from ctx.
// A run nested inside another continues its depth count and leaves logging to
// the outermost run.
func Run(ctx context.Context, n *Node, v any) (any, skema.Issues) {
	depth, nested := ctx.Value(depthKey{}).(int)
	r := &runner{ctx: ctx, failFast: skema.IsFailFast(ctx), maxDepth: skema.MaxDepth(ctx), depth: depth}
	out, iss := r.parse(n, v)
	if len(iss) > 0 {
		if !nested {
			skema.LogFailure(ctx, iss)
		}
		return nil, iss
	}
	return out, nil
}

type runner struct {
	ctx      context.Context
	failFast bool
	maxDepth int
	depth    int
}

// parse returns issues with paths relative to n; callers merge them under
// their own segment.
func (r *runner) parse(n *Node, v any) (any, skema.Issues) {
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > r.maxDepth {
		params := map[string]any{"limit": r.maxDepth}
		return nil, skema.Issues{{Code: skema.CodeTooDeep, Message: messages.For(skema.CodeTooDeep, params), Params: params}}
	}

	for _, p := range n.Preprocess {
		v = p(v)
	}
	if value.KindOf(v) == value.KindNull {
		switch {
		case n.HasDefault:
			v = n.Default
		case n.Optional:
			return nil, nil
		}
	}

	switch n.Kind {
	case KindLazy:
		out, iss := r.parse(n.Resolve(), v)
		if len(iss) > 0 {
			return nil, iss
		}
		return r.effects(n, out)
	case KindForeign:
		out, err := n.Foreign(r.nestedCtx(), v)
		if err != nil {
			return nil, skema.IssuesFromErr(err)
		}
		return r.effects(n, out)
	}

	val, iss := r.admit(n, v)
	if len(iss) > 0 {
		return nil, iss
	}
	for _, p := range n.Prepare {
		val = p(val)
	}
	for _, c := range n.Checks {
		if c.Test(val) {
			continue
		}
		iss = append(iss, failed(c))
		if r.failFast {
			return nil, iss
		}
	}

	out, childIss := r.children(n, val)
	iss = append(iss, childIss...)
	if len(iss) > 0 {
		return nil, iss
	}
	return r.effects(n, out)
}

// admit coerces v (coercive nodes) or checks its runtime kind, returning the
// normalized value.
func (r *runner) admit(n *Node, v any) (any, skema.Issues) {
	if n.Coerce {
		out, err := coerceTo(n.Kind, v)
		if err != nil {
			return nil, skema.Issues{invalidType(n, v, err)}
		}
		return out, nil
	}
	var (
		out any
		ok  bool
	)
	switch n.Kind {
	case KindString:
		out, ok = value.AsString(v)
	case KindNumber:
		var f float64
		f, ok = value.AsFloat(v)
		ok = ok && !math.IsNaN(f)
		out = f
	case KindBool:
		out, ok = value.AsBool(v)
	case KindDate:
		out, ok = value.AsTime(v)
	case KindArray:
		out, ok = value.Items(v)
	case KindSet:
		out, ok = value.SetItems(v)
	case KindMap:
		out, ok = value.Entries(v)
	case KindObject:
		out, ok = value.Fields(v)
	}
	if !ok {
		return nil, skema.Issues{invalidType(n, v, nil)}
	}
	return out, nil
}

// failed reports c as an issue. Params are cloned so callers may edit them
// without touching the schema.
func failed(c Check) skema.Issue {
	return skema.Issue{Code: c.Code, Message: c.Message, Params: maps.Clone(c.Params)}
}

// sizeIssues runs the size checks of a Set or Map node against count.
func (r *runner) sizeIssues(n *Node, count int) skema.Issues {
	var iss skema.Issues
	for _, c := range n.SizeChecks {
		if c.Test(count) {
			continue
		}
		iss = append(iss, failed(c))
		if r.failFast {
			break
		}
	}
	return iss
}

// nestedCtx returns the context handed to schemas that run the engine again,
// recording the current depth.
func (r *runner) nestedCtx() context.Context {
	return context.WithValue(r.ctx, depthKey{}, r.depth)
}

func coerceTo(k Kind, v any) (any, error) {
	switch k {
	case KindString:
		return coerce.String(v)
	case KindNumber:
		return coerce.Number(v)
	case KindBool:
		return coerce.Bool(v)
	case KindDate:
		return coerce.Date(v)
	}
	return v, nil
}

func invalidType(n *Node, v any, cause error) skema.Issue {
	received := value.KindOf(v).String()
	if value.IsNaN(v) {
		received = "nan"
	}
	params := map[string]any{"expected": n.Kind.String(), "received": received}
	return skema.Issue{Code: skema.CodeInvalidType, Message: messages.For(skema.CodeInvalidType, params), Params: params, Cause: cause}
}

func (r *runner) child(n *Node, v any) (any, skema.Issues) {
	if n == nil {
		return v, nil
	}
	return r.parse(n, v)
}

func (r *runner) children(n *Node, val any) (any, skema.Issues) {
	switch n.Kind {
	case KindArray, KindSet:
		return r.sequence(n, val.([]any))
	case KindMap:
		return r.entries(n, val.([]value.Entry))
	case KindObject:
		return r.object(n, val.(map[string]any))
	}
	return val, nil
}

func (r *runner) sequence(n *Node, items []any) (any, skema.Issues) {
	outs := make([]any, len(items))
	var (
		iss      skema.Issues
		distinct = newCounter(n)
	)
	for i, it := range items {
		ev, eiss := r.child(n.Elem, it)
		if len(eiss) > 0 {
			iss = skema.Merge(iss, eiss, skema.Index(i))
			if r.failFast {
				return nil, iss
			}
			distinct.failed()
			continue
		}
		outs[i] = ev
		distinct.add(ev)
	}
	if n.Kind == KindSet {
		if siss := r.sizeIssues(n, distinct.n()); len(siss) > 0 {
			iss = append(siss, iss...)
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	switch {
	case n.Assemble != nil:
		return n.Assemble(outs), nil
	case n.Kind == KindSet:
		return value.NewSet(outs...), nil
	default:
		return outs, nil
	}
}

func (r *runner) entries(n *Node, entries []value.Entry) (any, skema.Issues) {
	keys := make([]any, len(entries))
	vals := make([]any, len(entries))
	var (
		iss      skema.Issues
		distinct = newCounter(n)
	)
	for i, e := range entries {
		seg := skema.Key(value.Ident(e.Key))
		k, kiss := r.child(n.Key, e.Key)
		if len(kiss) > 0 {
			iss = skema.Merge(iss, markEntry(kiss, "key"), seg)
			if r.failFast {
				return nil, iss
			}
			distinct.failed()
		} else {
			distinct.add(k)
		}
		vv, viss := r.child(n.Elem, e.Value)
		if len(viss) > 0 {
			iss = skema.Merge(iss, viss, seg)
			if r.failFast {
				return nil, iss
			}
		}
		keys[i], vals[i] = k, vv
	}
	if siss := r.sizeIssues(n, distinct.n()); len(siss) > 0 {
		iss = append(siss, iss...)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	if n.AssembleMap != nil {
		return n.AssembleMap(keys, vals), nil
	}
	m := value.NewMap()
	for i := range keys {
		m.Set(keys[i], vals[i])
	}
	return m, nil
}

// counter counts the distinct parsed elements (or keys) of a Set or Map,
// using value.Set equality. Elements that failed to parse each count once,
// as they did in the input.
type counter struct {
	seen  *value.Set
	fails int
}

func newCounter(n *Node) *counter {
	if len(n.SizeChecks) == 0 {
		return nil
	}
	return &counter{seen: value.NewSet()}
}

func (c *counter) add(v any) {
	if c != nil {
		c.seen.Add(v)
	}
}

func (c *counter) failed() {
	if c != nil {
		c.fails++
	}
}

func (c *counter) n() int {
	if c == nil {
		return 0
	}
	return c.seen.Len() + c.fails
}

func markEntry(iss skema.Issues, part string) skema.Issues {
	out := make(skema.Issues, len(iss))
	for i, it := range iss {
		it.Params = maps.Clone(it.Params)
		if it.Params == nil {
			it.Params = map[string]any{}
		}
		it.Params["entry"] = part
		out[i] = it
	}
	return out
}

func (r *runner) object(n *Node, src map[string]any) (any, skema.Issues) {
	out := make(map[string]any, len(n.Fields))
	var iss skema.Issues
	for _, f := range n.Fields {
		raw, present := src[f.Name]
		if !present && !f.Node.defaulted() {
			if f.Node.Absentable() {
				continue
			}
			params := map[string]any{"expected": f.Node.Target().Kind.String()}
			iss = append(iss, skema.Issue{
				Path:    skema.Path{skema.Key(f.Name)},
				Code:    skema.CodeRequired,
				Message: messages.For(skema.CodeRequired, params),
				Params:  params,
			})
			if r.failFast {
				return nil, iss
			}
			continue
		}
		fv, fiss := r.parse(f.Node, raw)
		if len(fiss) > 0 {
			iss = skema.Merge(iss, fiss, skema.Key(f.Name))
			if r.failFast {
				return nil, iss
			}
			continue
		}
		out[f.Name] = fv
	}

	if n.Unknown != skema.UnknownStrip {
		var extra []string
		for k := range src {
			if n.FieldIndex(k) < 0 {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		switch {
		case len(extra) == 0:
		case n.Unknown == skema.UnknownStrict:
			params := map[string]any{"keys": extra}
			iss = append(iss, skema.Issue{Code: skema.CodeUnrecognizedKeys, Message: messages.For(skema.CodeUnrecognizedKeys, params), Params: params})
		default:
			for _, k := range extra {
				out[k] = src[k]
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (r *runner) effects(n *Node, out any) (any, skema.Issues) {
	if len(n.Effects) == 0 {
		return out, nil
	}
	ctx := r.nestedCtx()
	for _, e := range n.Effects {
		nv, iss := e(ctx, out)
		if len(iss) > 0 {
			return nil, normalizeIssues(iss)
		}
		out = nv
	}
	return out, nil
}

// normalizeIssues fills in the code and message of effect issues that left
// them empty.
func normalizeIssues(iss skema.Issues) skema.Issues {
	out := make(skema.Issues, len(iss))
	for i, it := range iss {
		if it.Code == "" {
			it.Code = skema.CodeCustom
		}
		if it.Message == "" {
			it.Message = messages.For(it.Code, it.Params)
		}
		out[i] = it
	}
	return out
}
