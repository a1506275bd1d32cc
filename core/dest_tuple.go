package core

import (
	"fmt"
	"reflect"
	"strings"

	cerrors "github.com/cockroachdb/errors"
)

// Tuple binds exactly len(targets) values per use, one into each pointer
// in order. Targets may point to different element types.
func Tuple(targets ...any) Destination {
	return newTuple(CapTuple, targets)
}

// Pair binds two values, the first into *first and the second into *second.
func Pair[A, B any](first *A, second *B) Destination {
	return newTuple(CapPair, []any{first, second})
}

type tupleDest struct {
	capability Capability
	vs         []reflect.Value
	err        error
}

func newTuple(c Capability, targets []any) *tupleDest {
	t := &tupleDest{capability: c}
	for i, target := range targets {
		rv := reflect.ValueOf(target)
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			t.err = cerrors.Newf("tuple position %d: expected a non-nil pointer, got %T", i, target)
			return t
		}
		t.vs = append(t.vs, rv.Elem())
	}
	return t
}

func (t *tupleDest) Capability() Capability { return t.capability }
func (t *tupleDest) Arity() int             { return len(t.vs) }

func (t *tupleDest) ElemTypes() []reflect.Type {
	out := make([]reflect.Type, len(t.vs))
	for i, v := range t.vs {
		out[i] = v.Type()
	}
	return out
}

func (t *tupleDest) Convert(pos int, raw string) (any, error) {
	if pos >= len(t.vs) {
		return nil, cerrors.Newf("tuple takes %d values", len(t.vs))
	}
	v, err := convertValue(t.vs[pos].Type(), raw)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (t *tupleDest) Store(vals []any) error {
	for i, v := range vals {
		t.vs[i].Set(reflect.ValueOf(v))
	}
	return nil
}

func (t *tupleDest) Clear() {
	for _, v := range t.vs {
		v.SetZero()
	}
}

func (t *tupleDest) Contains(v any) bool {
	for _, cur := range t.vs {
		if reflect.DeepEqual(cur.Interface(), v) {
			return true
		}
	}
	return false
}

func (t *tupleDest) Values() []any {
	out := make([]any, len(t.vs))
	for i, v := range t.vs {
		out[i] = v.Interface()
	}
	return out
}

func (t *tupleDest) String() string {
	parts := make([]string, len(t.vs))
	for i, v := range t.vs {
		parts[i] = fmt.Sprint(v.Interface())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *tupleDest) validate() error {
	if t.err != nil {
		return t.err
	}
	if len(t.vs) == 0 {
		return cerrors.New("tuple without positions")
	}
	for i, v := range t.vs {
		if !convertible(v.Type()) {
			return cerrors.Newf("tuple position %d: unsupported element type %s", i, v.Type())
		}
	}
	return nil
}
