package core

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
	cerrors "github.com/cockroachdb/errors"

	clierr "github.com/chriso345/argot/errors"
)

// Slice appends every bound value to *p.
func Slice[T any](p *[]T) Destination {
	return &sliceDest{v: reflect.ValueOf(p).Elem()}
}

// Map stores "key=value" values into *p. The separator follows the
// registry's KeyValueSeparator setting.
func Map[K comparable, V any](p *map[K]V) Destination {
	return &mapDest{v: reflect.ValueOf(p).Elem(), sep: "="}
}

// BitSet sets the bit named by every bound index. A width of zero leaves
// indices unbounded.
func BitSet(b *bitset.BitSet, width uint) Destination {
	return &bitsetDest{b: b, width: width}
}

type sliceDest struct {
	v reflect.Value
}

func (s *sliceDest) Capability() Capability    { return CapContainer }
func (s *sliceDest) ElemTypes() []reflect.Type { return []reflect.Type{s.v.Type().Elem()} }
func (s *sliceDest) Arity() int                { return 0 }

func (s *sliceDest) Convert(_ int, raw string) (any, error) {
	v, err := convertValue(s.v.Type().Elem(), raw)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (s *sliceDest) Store(vals []any) error {
	for _, v := range vals {
		s.v.Set(reflect.Append(s.v, reflect.ValueOf(v)))
	}
	return nil
}

func (s *sliceDest) Clear() { s.v.Set(reflect.MakeSlice(s.v.Type(), 0, 0)) }

func (s *sliceDest) Contains(v any) bool {
	for i := range s.v.Len() {
		if reflect.DeepEqual(s.v.Index(i).Interface(), v) {
			return true
		}
	}
	return false
}

func (s *sliceDest) Values() []any {
	out := make([]any, 0, s.v.Len())
	for i := range s.v.Len() {
		out = append(out, s.v.Index(i).Interface())
	}
	return out
}

func (s *sliceDest) String() string { return fmt.Sprint(s.v.Interface()) }

func (s *sliceDest) Sortable() bool { return ordered(s.v.Type().Elem()) }

func (s *sliceDest) Sort() {
	sort.SliceStable(s.v.Interface(), func(i, j int) bool {
		return less(s.v.Index(i), s.v.Index(j))
	})
}

func (s *sliceDest) Remove(vals []any) error {
	kept := reflect.MakeSlice(s.v.Type(), 0, s.v.Len())
	for i := range s.v.Len() {
		elem := s.v.Index(i)
		drop := false
		for _, v := range vals {
			if reflect.DeepEqual(elem.Interface(), v) {
				drop = true
				break
			}
		}
		if !drop {
			kept = reflect.Append(kept, elem)
		}
	}
	s.v.Set(kept)
	return nil
}

func (s *sliceDest) validate() error {
	if !s.v.IsValid() {
		return cerrors.New("nil destination pointer")
	}
	if !convertible(s.v.Type().Elem()) {
		return cerrors.Newf("unsupported element type %s", s.v.Type().Elem())
	}
	return nil
}

// mapEntry is one converted "key=value" pair.
type mapEntry struct {
	key, value any
}

func (e mapEntry) checkValue() any { return e.value }

type mapDest struct {
	v   reflect.Value
	sep string
}

func (m *mapDest) Capability() Capability    { return CapMap }
func (m *mapDest) ElemTypes() []reflect.Type { return []reflect.Type{m.v.Type().Elem()} }
func (m *mapDest) Arity() int                { return 0 }
func (m *mapDest) setSeparator(sep string)   { m.sep = sep }

func (m *mapDest) Convert(_ int, raw string) (any, error) {
	k, val, ok := strings.Cut(raw, m.sep)
	if !ok {
		return nil, cerrors.Newf("expected key%svalue, got %q", m.sep, raw)
	}
	kv, err := convertValue(m.v.Type().Key(), k)
	if err != nil {
		return nil, cerrors.Wrapf(err, "key %q", k)
	}
	vv, err := convertValue(m.v.Type().Elem(), val)
	if err != nil {
		return nil, cerrors.Wrapf(err, "value %q", val)
	}
	return mapEntry{key: kv.Interface(), value: vv.Interface()}, nil
}

func (m *mapDest) Store(vals []any) error {
	if m.v.IsNil() {
		m.v.Set(reflect.MakeMap(m.v.Type()))
	}
	for _, v := range vals {
		e := v.(mapEntry)
		m.v.SetMapIndex(reflect.ValueOf(e.key), reflect.ValueOf(e.value))
	}
	return nil
}

func (m *mapDest) Clear() { m.v.Set(reflect.MakeMap(m.v.Type())) }

func (m *mapDest) Contains(v any) bool {
	e, ok := v.(mapEntry)
	if !ok || m.v.IsNil() {
		return false
	}
	return m.v.MapIndex(reflect.ValueOf(e.key)).IsValid()
}

// Values returns the keys, sorted when the key type is ordered.
func (m *mapDest) Values() []any {
	keys := m.v.MapKeys()
	if ordered(m.v.Type().Key()) {
		sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	}
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.Interface())
	}
	return out
}

func (m *mapDest) String() string { return fmt.Sprint(m.v.Interface()) }

func (m *mapDest) Remove(vals []any) error {
	if m.v.IsNil() {
		return nil
	}
	for _, v := range vals {
		e := v.(mapEntry)
		m.v.SetMapIndex(reflect.ValueOf(e.key), reflect.Value{})
	}
	return nil
}

func (m *mapDest) validate() error {
	if !m.v.IsValid() {
		return cerrors.New("nil destination pointer")
	}
	if !convertible(m.v.Type().Key()) || !convertible(m.v.Type().Elem()) {
		return cerrors.Newf("unsupported map type %s", m.v.Type())
	}
	return nil
}

var uintType = reflect.TypeOf(uint(0))

type bitsetDest struct {
	b     *bitset.BitSet
	width uint
}

func (b *bitsetDest) Capability() Capability    { return CapBitSet }
func (b *bitsetDest) ElemTypes() []reflect.Type { return []reflect.Type{uintType} }
func (b *bitsetDest) Arity() int                { return 0 }

func (b *bitsetDest) Convert(_ int, raw string) (any, error) {
	v, err := convertValue(uintType, raw)
	if err != nil {
		return nil, err
	}
	n := uint(v.Uint())
	if b.width > 0 && n >= b.width {
		return nil, clierr.Newf(clierr.RangeError, "", "bit %d outside [0,%d)", n, b.width)
	}
	return n, nil
}

func (b *bitsetDest) Store(vals []any) error {
	for _, v := range vals {
		b.b.Set(v.(uint))
	}
	return nil
}

func (b *bitsetDest) Remove(vals []any) error {
	for _, v := range vals {
		b.b.Clear(v.(uint))
	}
	return nil
}

func (b *bitsetDest) Clear() { b.b.ClearAll() }

func (b *bitsetDest) Contains(v any) bool {
	n, ok := v.(uint)
	return ok && b.b.Test(n)
}

func (b *bitsetDest) Values() []any {
	var out []any
	for i, ok := b.b.NextSet(0); ok; i, ok = b.b.NextSet(i + 1) {
		out = append(out, i)
	}
	return out
}

func (b *bitsetDest) String() string { return b.b.String() }

func (b *bitsetDest) validate() error {
	if b.b == nil {
		return cerrors.New("nil bitset")
	}
	return nil
}
