package core

import (
	"fmt"

	clierr "github.com/chriso345/argot/errors"
)

// ValueMode says whether an argument consumes a value.
type ValueMode int

const (
	// ValueNone arguments are flags: they never take a value.
	ValueNone ValueMode = iota
	// ValueOptional arguments take the next value when one follows.
	ValueOptional
	// ValueRequired arguments fail when no value follows.
	ValueRequired
	// ValueCommand arguments swallow every remaining token unclassified.
	ValueCommand
)

func (m ValueMode) String() string {
	switch m {
	case ValueNone:
		return "none"
	case ValueOptional:
		return "optional"
	case ValueRequired:
		return "required"
	case ValueCommand:
		return "command"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Cardinality bounds the number of successful binds of one argument in a run.
// A negative max means unbounded.
type Cardinality struct {
	min, max int
}

func Unbounded() Cardinality { return Cardinality{min: 0, max: -1} }

func Exact(n int) Cardinality { return Cardinality{min: n, max: n} }

func Max(n int) Cardinality { return Cardinality{min: 0, max: n} }

func Range(lo, hi int) Cardinality { return Cardinality{min: lo, max: hi} }

// Bounds returns the lower and upper limit; upper is -1 when unbounded.
func (c Cardinality) Bounds() (int, int) { return c.min, c.max }

func (c Cardinality) IsUnbounded() bool { return c.max < 0 }

func (c Cardinality) String() string {
	switch {
	case c.max < 0 && c.min == 0:
		return "any number of times"
	case c.max < 0:
		return fmt.Sprintf("at least %d times", c.min)
	case c.min == c.max:
		return fmt.Sprintf("exactly %d times", c.min)
	case c.min == 0:
		return fmt.Sprintf("at most %d times", c.max)
	}
	return fmt.Sprintf("%d to %d times", c.min, c.max)
}

func (c Cardinality) valid() bool {
	return c.min >= 0 && (c.max < 0 || c.max >= c.min) && c.max != 0
}

// checkUse runs after every bind.
func (c Cardinality) checkUse(arg string, used int) error {
	if c.max >= 0 && used > c.max {
		return clierr.Newf(clierr.CardinalityError, arg, "used %d times, allowed %s", used, c)
	}
	return nil
}

// checkDone runs once at the end of evaluation.
func (c Cardinality) checkDone(arg string, used int) error {
	if used < c.min {
		return clierr.Newf(clierr.CardinalityError, arg, "used %d times, required %s", used, c)
	}
	return nil
}
