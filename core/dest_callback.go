package core

import (
	"reflect"
	"strconv"
	"strings"

	cerrors "github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/pflag"

	clierr "github.com/chriso345/argot/errors"
)

var (
	stringType = reflect.TypeOf("")
	boolType   = reflect.TypeOf(false)
)

// Func calls fn with every bound value.
func Func(fn func(value string) error) Destination {
	return &funcDest{fn: fn}
}

// Action calls fn each time the flag is given.
func Action(fn func() error) Destination {
	return &actionDest{fn: fn}
}

// Value binds into any pflag.Value. Values implementing pflag.SliceValue
// are containers; values reporting IsBoolFlag are flags.
func Value(v pflag.Value) Destination {
	return &pflagDest{v: v}
}

type funcDest struct {
	fn  func(string) error
	got []string
}

func (f *funcDest) Capability() Capability    { return CapCallback }
func (f *funcDest) ElemTypes() []reflect.Type { return []reflect.Type{stringType} }
func (f *funcDest) Arity() int                { return 0 }

func (f *funcDest) Convert(_ int, raw string) (any, error) { return raw, nil }

func (f *funcDest) Store(vals []any) error {
	for _, v := range vals {
		s := v.(string)
		if err := f.fn(s); err != nil {
			return clierr.Wrap(clierr.ValidationError, "", s, err)
		}
		f.got = append(f.got, s)
	}
	return nil
}

func (f *funcDest) Clear() { f.got = nil }

func (f *funcDest) Contains(v any) bool {
	s, ok := v.(string)
	return ok && lo.Contains(f.got, s)
}

func (f *funcDest) Values() []any {
	return lo.Map(f.got, func(s string, _ int) any { return s })
}

func (f *funcDest) String() string { return strings.Join(f.got, ",") }

func (f *funcDest) defaultCardinality() Cardinality { return Unbounded() }

func (f *funcDest) validate() error {
	if f.fn == nil {
		return cerrors.New("nil callback")
	}
	return nil
}

type actionDest struct {
	fn    func() error
	fired int
}

func (a *actionDest) Capability() Capability    { return CapCallback }
func (a *actionDest) ElemTypes() []reflect.Type { return []reflect.Type{boolType} }
func (a *actionDest) Arity() int                { return 1 }

func (a *actionDest) Convert(_ int, raw string) (any, error) {
	v, err := convertValue(boolType, raw)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (a *actionDest) Store(vals []any) error {
	return a.SetFlag(vals[len(vals)-1].(bool))
}

func (a *actionDest) Clear()              { a.fired = 0 }
func (a *actionDest) Contains(v any) bool { return v == any(a.fired > 0) }
func (a *actionDest) Values() []any       { return []any{a.fired > 0} }
func (a *actionDest) String() string      { return "" }
func (a *actionDest) IsFlag() bool        { return true }

func (a *actionDest) SetFlag(on bool) error {
	if !on {
		return nil
	}
	a.fired++
	if err := a.fn(); err != nil {
		return clierr.Wrap(clierr.ValidationError, "", "", err)
	}
	return nil
}

func (a *actionDest) defaultCardinality() Cardinality { return Unbounded() }

func (a *actionDest) validate() error {
	if a.fn == nil {
		return cerrors.New("nil action")
	}
	return nil
}

// boolFlag mirrors pflag's unexported interface of the same name.
type boolFlag interface {
	IsBoolFlag() bool
}

type pflagDest struct {
	v pflag.Value
}

func (p *pflagDest) Capability() Capability {
	if _, ok := p.v.(pflag.SliceValue); ok {
		return CapContainer
	}
	return CapScalar
}

func (p *pflagDest) ElemTypes() []reflect.Type { return []reflect.Type{stringType} }

func (p *pflagDest) Arity() int {
	if p.Capability() == CapContainer {
		return 0
	}
	return 1
}

func (p *pflagDest) Convert(_ int, raw string) (any, error) { return raw, nil }

func (p *pflagDest) Store(vals []any) error {
	for _, v := range vals {
		if err := p.v.Set(v.(string)); err != nil {
			return clierr.Wrap(clierr.TypeError, "", v.(string), err)
		}
	}
	return nil
}

func (p *pflagDest) Clear() {
	if sv, ok := p.v.(pflag.SliceValue); ok {
		_ = sv.Replace(nil)
	}
}

func (p *pflagDest) Contains(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	if sv, ok := p.v.(pflag.SliceValue); ok {
		return lo.Contains(sv.GetSlice(), s)
	}
	return p.v.String() == s
}

func (p *pflagDest) Values() []any {
	if sv, ok := p.v.(pflag.SliceValue); ok {
		return lo.Map(sv.GetSlice(), func(s string, _ int) any { return s })
	}
	return []any{p.v.String()}
}

func (p *pflagDest) String() string { return p.v.String() }

func (p *pflagDest) IsFlag() bool {
	bf, ok := p.v.(boolFlag)
	return ok && bf.IsBoolFlag()
}

func (p *pflagDest) SetFlag(on bool) error {
	if err := p.v.Set(strconv.FormatBool(on)); err != nil {
		return clierr.Wrap(clierr.TypeError, "", strconv.FormatBool(on), err)
	}
	return nil
}

func (p *pflagDest) validate() error {
	if p.v == nil {
		return cerrors.New("nil pflag value")
	}
	return nil
}

// groupDest marks the introducing definition of a sub-group or sub-command.
// When sel is set it is flipped to true on selection.
type groupDest struct {
	sel *bool
}

func (g *groupDest) Capability() Capability           { return CapCallback }
func (g *groupDest) ElemTypes() []reflect.Type        { return []reflect.Type{boolType} }
func (g *groupDest) Arity() int                       { return 1 }
func (g *groupDest) Convert(int, string) (any, error) { return true, nil }
func (g *groupDest) Store([]any) error                { return g.SetFlag(true) }
func (g *groupDest) Clear()                           {}
func (g *groupDest) Contains(any) bool                { return false }
func (g *groupDest) Values() []any                    { return nil }
func (g *groupDest) String() string                   { return "" }
func (g *groupDest) IsFlag() bool                     { return true }

func (g *groupDest) SetFlag(on bool) error {
	if g.sel != nil {
		*g.sel = on
	}
	return nil
}

func (g *groupDest) defaultCardinality() Cardinality { return Max(1) }
