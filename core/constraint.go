package core

import (
	"fmt"
	"reflect"

	"github.com/samber/lo"

	clierr "github.com/chriso345/argot/errors"
)

type constraintKind int

const (
	allOf constraintKind = iota
	anyOf
	oneOf
	disjoint
	differ
)

func (k constraintKind) String() string {
	switch k {
	case allOf:
		return "all of"
	case anyOf:
		return "at most one of"
	case oneOf:
		return "exactly one of"
	case disjoint:
		return "no shared values between"
	case differ:
		return "different values for"
	}
	return fmt.Sprintf("constraint(%d)", int(k))
}

// constraint is a set rule checked once the whole input was consumed.
type constraint struct {
	kind    constraintKind
	members []*Definition
}

func (c *constraint) String() string {
	return c.kind.String() + " " + joinNames(c.members)
}

func names(defs []*Definition) []string {
	return lo.Map(defs, func(d *Definition, _ int) string { return d.Name() })
}

func (c *constraint) check(st *State) error {
	seen := lo.Filter(c.members, func(d *Definition, _ int) bool { return st.Seen(d) })

	switch c.kind {
	case allOf:
		if unmet := lo.Filter(c.members, func(d *Definition, _ int) bool { return !st.Seen(d) }); len(unmet) > 0 {
			return &clierr.Error{
				Kind:       clierr.MissingRequiredArgument,
				Arg:        joinNames(c.members),
				Candidates: names(unmet),
				Msg:        "missing " + joinNames(unmet),
			}
		}
	case anyOf:
		if len(seen) > 1 {
			return &clierr.Error{
				Kind:       clierr.ConflictingChoice,
				Arg:        joinNames(c.members),
				Candidates: names(seen),
				Msg:        "only one may be given, got " + joinNames(seen),
			}
		}
	case oneOf:
		switch {
		case len(seen) == 0:
			return &clierr.Error{
				Kind:       clierr.MissingRequiredArgument,
				Arg:        joinNames(c.members),
				Candidates: names(c.members),
				Msg:        "one of them must be given",
			}
		case len(seen) > 1:
			return &clierr.Error{
				Kind:       clierr.ConflictingChoice,
				Arg:        joinNames(c.members),
				Candidates: names(seen),
				Msg:        "exactly one may be given, got " + joinNames(seen),
			}
		}
	case disjoint:
		for i, a := range seen {
			for _, b := range seen[i+1:] {
				if shared, ok := firstShared(a.dest.Values(), b.dest.Values()); ok {
					return &clierr.Error{
						Kind:       clierr.DuplicateValueError,
						Arg:        a.Name() + ", " + b.Name(),
						Value:      fmt.Sprint(shared),
						Candidates: []string{a.Name(), b.Name()},
						Msg:        fmt.Sprintf("both contain %v", shared),
					}
				}
			}
		}
	case differ:
		for i, a := range seen {
			for _, b := range seen[i+1:] {
				if reflect.DeepEqual(a.dest.Values(), b.dest.Values()) {
					return &clierr.Error{
						Kind:       clierr.DuplicateValueError,
						Arg:        a.Name() + ", " + b.Name(),
						Value:      a.dest.String(),
						Candidates: []string{a.Name(), b.Name()},
						Msg:        "must not carry the same value " + a.dest.String(),
					}
				}
			}
		}
	}
	return nil
}

// firstShared returns the first element of a that b also holds.
func firstShared(a, b []any) (any, bool) {
	for _, x := range a {
		for _, y := range b {
			if reflect.DeepEqual(x, y) {
				return x, true
			}
		}
	}
	return nil, false
}

// checkRequires reports the first unmet obligation of a seen definition.
func checkRequires(d *Definition, st *State) error {
	for _, req := range d.requires {
		if !st.Seen(req) {
			return clierr.Newf(clierr.MissingRequiredArgument, req.Name(), "required by %s", d.Name())
		}
	}
	return nil
}

// checkExcludes fails when an argument seen earlier excludes d.
func checkExcludes(d *Definition, st *State) error {
	for _, prev := range st.order {
		if lo.Contains(prev.excludes, d) {
			return clierr.Newf(clierr.MutuallyExclusiveError, d.Name(), "cannot be used together with %s", prev.Name())
		}
	}
	return nil
}
