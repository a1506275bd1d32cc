package core

import (
	"fmt"
	"reflect"

	cerrors "github.com/cockroachdb/errors"
)

// Scalar binds a single value of type T into *p. A bool scalar is a flag.
func Scalar[T any](p *T) Destination {
	return newScalar(reflect.ValueOf(p).Elem())
}

// Optional binds a single value into *p, allocating it on first bind so
// that nil means "never given".
func Optional[T any](p **T) Destination {
	return &optionalDest{v: reflect.ValueOf(p).Elem()}
}

// Counter counts how often a flag was given.
func Counter(p *int) Destination {
	return &counterDest{p: p}
}

type scalarDest struct {
	v reflect.Value
}

func newScalar(v reflect.Value) *scalarDest { return &scalarDest{v: v} }

func (s *scalarDest) Capability() Capability    { return CapScalar }
func (s *scalarDest) ElemTypes() []reflect.Type { return []reflect.Type{s.v.Type()} }
func (s *scalarDest) Arity() int                { return 1 }

func (s *scalarDest) Convert(_ int, raw string) (any, error) {
	v, err := convertValue(s.v.Type(), raw)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (s *scalarDest) Store(vals []any) error {
	s.v.Set(reflect.ValueOf(vals[len(vals)-1]))
	return nil
}

func (s *scalarDest) Clear()              { s.v.SetZero() }
func (s *scalarDest) Contains(v any) bool { return reflect.DeepEqual(s.v.Interface(), v) }
func (s *scalarDest) Values() []any       { return []any{s.v.Interface()} }
func (s *scalarDest) String() string      { return fmt.Sprint(s.v.Interface()) }
func (s *scalarDest) IsFlag() bool        { return s.v.Kind() == reflect.Bool }

func (s *scalarDest) SetFlag(on bool) error {
	if s.v.Kind() != reflect.Bool {
		return cerrors.Newf("%s is not a flag", s.v.Type())
	}
	s.v.SetBool(on)
	return nil
}

func (s *scalarDest) Remove(_ []any) error {
	s.v.SetZero()
	return nil
}

func (s *scalarDest) validate() error {
	if !s.v.IsValid() {
		return cerrors.New("nil destination pointer")
	}
	if !convertible(s.v.Type()) {
		return cerrors.Newf("unsupported element type %s", s.v.Type())
	}
	return nil
}

type optionalDest struct {
	v reflect.Value
}

func (o *optionalDest) Capability() Capability    { return CapOptional }
func (o *optionalDest) ElemTypes() []reflect.Type { return []reflect.Type{o.v.Type().Elem()} }
func (o *optionalDest) Arity() int                { return 1 }

func (o *optionalDest) Convert(_ int, raw string) (any, error) {
	v, err := convertValue(o.v.Type().Elem(), raw)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (o *optionalDest) Store(vals []any) error {
	nv := reflect.New(o.v.Type().Elem())
	nv.Elem().Set(reflect.ValueOf(vals[len(vals)-1]))
	o.v.Set(nv)
	return nil
}

func (o *optionalDest) Clear() { o.v.SetZero() }

func (o *optionalDest) Contains(v any) bool {
	return !o.v.IsNil() && reflect.DeepEqual(o.v.Elem().Interface(), v)
}

func (o *optionalDest) Values() []any {
	if o.v.IsNil() {
		return nil
	}
	return []any{o.v.Elem().Interface()}
}

func (o *optionalDest) String() string {
	if o.v.IsNil() {
		return ""
	}
	return fmt.Sprint(o.v.Elem().Interface())
}

func (o *optionalDest) IsFlag() bool { return o.v.Type().Elem().Kind() == reflect.Bool }

func (o *optionalDest) SetFlag(on bool) error {
	if !o.IsFlag() {
		return cerrors.Newf("%s is not a flag", o.v.Type().Elem())
	}
	return o.Store([]any{reflect.ValueOf(on).Convert(o.v.Type().Elem()).Interface()})
}

func (o *optionalDest) Remove(_ []any) error {
	o.v.SetZero()
	return nil
}

func (o *optionalDest) validate() error {
	if !o.v.IsValid() {
		return cerrors.New("nil destination pointer")
	}
	if !convertible(o.v.Type().Elem()) {
		return cerrors.Newf("unsupported element type %s", o.v.Type().Elem())
	}
	return nil
}

type counterDest struct {
	p *int
}

func (c *counterDest) Capability() Capability    { return CapScalar }
func (c *counterDest) ElemTypes() []reflect.Type { return []reflect.Type{reflect.TypeOf(0)} }
func (c *counterDest) Arity() int                { return 1 }

func (c *counterDest) Convert(_ int, raw string) (any, error) {
	v, err := convertValue(reflect.TypeOf(0), raw)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (c *counterDest) Store(vals []any) error {
	*c.p = vals[len(vals)-1].(int)
	return nil
}

func (c *counterDest) Clear()              { *c.p = 0 }
func (c *counterDest) Contains(v any) bool { return v == any(*c.p) }
func (c *counterDest) Values() []any       { return []any{*c.p} }
func (c *counterDest) String() string      { return fmt.Sprint(*c.p) }
func (c *counterDest) IsFlag() bool        { return true }

func (c *counterDest) SetFlag(on bool) error {
	if on {
		*c.p++
	} else {
		*c.p = 0
	}
	return nil
}

func (c *counterDest) defaultCardinality() Cardinality { return Unbounded() }

func (c *counterDest) validate() error {
	if c.p == nil {
		return cerrors.New("nil destination pointer")
	}
	return nil
}
