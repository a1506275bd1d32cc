package core

import (
	"cmp"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/samber/lo"

	clierr "github.com/chriso345/argot/errors"
)

// Check validates one converted element. Failures carry one of the
// validation kinds (UnderflowError, OverflowError, RangeError,
// ValidationError).
type Check interface {
	Check(v any) error
	// Accepts reports whether the check applies to elements of type t.
	Accepts(t reflect.Type) bool
	String() string
}

// Lower rejects values below min.
func Lower[T cmp.Ordered](min T) Check {
	return &lowerCheck[T]{min: min}
}

// Upper rejects values above max.
func Upper[T cmp.Ordered](max T) Check {
	return &upperCheck[T]{max: max}
}

// Between rejects values outside [lo, hi].
func Between[T cmp.Ordered](lo, hi T) Check {
	return &betweenCheck[T]{lo: lo, hi: hi}
}

// Values accepts only the listed values.
func Values[T comparable](allowed ...T) Check {
	return &valuesCheck[T]{allowed: allowed}
}

// Pattern accepts only strings matching re.
func Pattern(re *regexp.Regexp) Check {
	return &patternCheck{re: re}
}

// CheckFunc wraps fn as a check described by desc.
func CheckFunc[T any](desc string, fn func(T) error) Check {
	return &funcCheck[T]{desc: desc, fn: fn}
}

type lowerCheck[T cmp.Ordered] struct{ min T }

func (c *lowerCheck[T]) Check(v any) error {
	if x := v.(T); x < c.min {
		return clierr.Newf(clierr.UnderflowError, "", "%v is below %v", x, c.min)
	}
	return nil
}

func (c *lowerCheck[T]) Accepts(t reflect.Type) bool { return t == reflect.TypeFor[T]() }
func (c *lowerCheck[T]) String() string              { return fmt.Sprintf(">= %v", c.min) }

type upperCheck[T cmp.Ordered] struct{ max T }

func (c *upperCheck[T]) Check(v any) error {
	if x := v.(T); x > c.max {
		return clierr.Newf(clierr.OverflowError, "", "%v is above %v", x, c.max)
	}
	return nil
}

func (c *upperCheck[T]) Accepts(t reflect.Type) bool { return t == reflect.TypeFor[T]() }
func (c *upperCheck[T]) String() string              { return fmt.Sprintf("<= %v", c.max) }

type betweenCheck[T cmp.Ordered] struct{ lo, hi T }

func (c *betweenCheck[T]) Check(v any) error {
	if x := v.(T); x < c.lo || x > c.hi {
		return clierr.Newf(clierr.RangeError, "", "%v is outside [%v, %v]", x, c.lo, c.hi)
	}
	return nil
}

func (c *betweenCheck[T]) Accepts(t reflect.Type) bool { return t == reflect.TypeFor[T]() }
func (c *betweenCheck[T]) String() string              { return fmt.Sprintf("in [%v, %v]", c.lo, c.hi) }

type valuesCheck[T comparable] struct{ allowed []T }

func (c *valuesCheck[T]) Check(v any) error {
	if x := v.(T); !lo.Contains(c.allowed, x) {
		return clierr.Newf(clierr.ValidationError, "", "%v is not one of %s", x, c.list())
	}
	return nil
}

func (c *valuesCheck[T]) Accepts(t reflect.Type) bool { return t == reflect.TypeFor[T]() }
func (c *valuesCheck[T]) String() string              { return "one of " + c.list() }

func (c *valuesCheck[T]) list() string {
	return strings.Join(lo.Map(c.allowed, func(v T, _ int) string { return fmt.Sprint(v) }), ", ")
}

type patternCheck struct{ re *regexp.Regexp }

func (c *patternCheck) Check(v any) error {
	s := reflect.ValueOf(v).String()
	if !c.re.MatchString(s) {
		return clierr.Newf(clierr.ValidationError, "", "%q does not match %s", s, c.re)
	}
	return nil
}

func (c *patternCheck) Accepts(t reflect.Type) bool { return c.re != nil && t.Kind() == reflect.String }
func (c *patternCheck) String() string              { return "matching " + c.re.String() }

type funcCheck[T any] struct {
	desc string
	fn   func(T) error
}

func (c *funcCheck[T]) Check(v any) error {
	if err := c.fn(v.(T)); err != nil {
		if _, ok := clierr.As(err); ok {
			return err
		}
		return clierr.Wrap(clierr.ValidationError, "", "", err)
	}
	return nil
}

func (c *funcCheck[T]) Accepts(t reflect.Type) bool { return c.fn != nil && t == reflect.TypeFor[T]() }
func (c *funcCheck[T]) String() string              { return c.desc }

// boundCheck is the reflective form of Lower/Upper built from struct tags,
// where the element type is only known at run time.
type boundCheck struct {
	lo, hi reflect.Value
}

func (c *boundCheck) Check(v any) error {
	x := reflect.ValueOf(v)
	switch {
	case c.lo.IsValid() && c.hi.IsValid() && (less(x, c.lo) || less(c.hi, x)):
		return clierr.Newf(clierr.RangeError, "", "%v is outside [%v, %v]", v, c.lo, c.hi)
	case c.lo.IsValid() && less(x, c.lo):
		return clierr.Newf(clierr.UnderflowError, "", "%v is below %v", v, c.lo)
	case c.hi.IsValid() && less(c.hi, x):
		return clierr.Newf(clierr.OverflowError, "", "%v is above %v", v, c.hi)
	}
	return nil
}

func (c *boundCheck) Accepts(t reflect.Type) bool {
	if !ordered(t) {
		return false
	}
	return (!c.lo.IsValid() || c.lo.Type() == t) && (!c.hi.IsValid() || c.hi.Type() == t)
}

func (c *boundCheck) String() string {
	switch {
	case c.lo.IsValid() && c.hi.IsValid():
		return fmt.Sprintf("in [%v, %v]", c.lo, c.hi)
	case c.lo.IsValid():
		return fmt.Sprintf(">= %v", c.lo)
	}
	return fmt.Sprintf("<= %v", c.hi)
}

// enumCheck is the reflective form of Values built from struct tags.
type enumCheck struct {
	allowed []reflect.Value
}

func (c *enumCheck) Check(v any) error {
	for _, a := range c.allowed {
		if a.Interface() == v {
			return nil
		}
	}
	return clierr.Newf(clierr.ValidationError, "", "%v is not one of %s", v, c.list())
}

func (c *enumCheck) Accepts(t reflect.Type) bool {
	return len(c.allowed) > 0 && c.allowed[0].Type() == t && t.Comparable()
}

func (c *enumCheck) String() string { return "one of " + c.list() }

func (c *enumCheck) list() string {
	return strings.Join(lo.Map(c.allowed, func(v reflect.Value, _ int) string { return fmt.Sprint(v) }), ", ")
}
