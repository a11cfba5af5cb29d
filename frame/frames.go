package frame

import (
	"context"
	"reflect"
	"sort"

	"github.com/c360studio/semframe/owl"
)

// Frames maps tags to their values. A value may be a single item, a nested
// slice of items, or nil; Normalize flattens and drops nils.
type Frames map[Tag][]any

// Fact is the value of a fact frame: an object property assertion from the
// framed individual to Object. Negative selects the negative assertion.
type Fact struct {
	Property any
	Object   any
	Negative bool
}

// Annotation is the value of an annotation frame. Property resolves to an
// annotation property; Value is a string or an owl.Literal.
type Annotation struct {
	Property any
	Value    any
}

// Add appends values to tag and returns f for chaining.
func (f Frames) Add(tag Tag, values ...any) Frames {
	f[tag] = append(f[tag], values...)
	return f
}

// Tags lists the tags present in f, sorted.
func (f Frames) Tags() []Tag {
	out := make([]Tag, 0, len(f))
	for t := range f {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns a copy of f that shares no slices with it.
func (f Frames) Clone() Frames {
	out := make(Frames, len(f))
	for t, vs := range f {
		out[t] = append([]any(nil), vs...)
	}
	return out
}

// Merge concatenates values per tag, defaults first and explicit after.
// Neither input is modified.
func Merge(defaults, explicit Frames) Frames {
	out := defaults.Clone()
	for t, vs := range explicit {
		out[t] = append(out[t], vs...)
	}
	return out
}

// Normalize flattens nested slices and drops nil entries.
func Normalize(values []any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = flatten(out, v)
	}
	return out
}

func flatten(out []any, v any) []any {
	if isNil(v) {
		return out
	}
	switch v.(type) {
	case string, owl.Name, owl.IRI:
		return append(out, v)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			out = flatten(out, rv.Index(i).Interface())
		}
		return out
	}
	return append(out, v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

type defaultsKey struct{}

// WithDefaults returns a context in which defaults are merged into every
// compilation. The new set shadows any outer one.
func WithDefaults(ctx context.Context, defaults Frames) context.Context {
	return context.WithValue(ctx, defaultsKey{}, defaults.Clone())
}

// Defaults returns the default frames active in ctx, or nil.
func Defaults(ctx context.Context) Frames {
	f, _ := ctx.Value(defaultsKey{}).(Frames)
	return f
}
