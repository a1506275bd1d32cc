package core

import (
	"reflect"
)

// Capability names the shape of a destination.
type Capability int

const (
	CapScalar Capability = iota
	CapOptional
	CapContainer
	CapTuple
	CapMap
	CapBitSet
	CapPair
	CapCallback
)

func (c Capability) String() string {
	switch c {
	case CapScalar:
		return "scalar"
	case CapOptional:
		return "optional"
	case CapContainer:
		return "container"
	case CapTuple:
		return "tuple"
	case CapMap:
		return "map"
	case CapBitSet:
		return "bitset"
	case CapPair:
		return "pair"
	case CapCallback:
		return "callback"
	}
	return "unknown"
}

// IsContainer reports whether the capability collects many elements.
// Only containers accept list splitting and the sort/unique/clear/multi
// policies.
func (c Capability) IsContainer() bool {
	return c == CapContainer || c == CapMap || c == CapBitSet
}

// Destination is what the binder writes converted values into. Every
// capability shares the same bind algorithm; a destination only supplies
// conversion and insertion.
type Destination interface {
	Capability() Capability
	// ElemTypes lists the types checks see, one per tuple position or a
	// single entry for every other capability.
	ElemTypes() []reflect.Type
	// Arity is the exact number of values one bind call must carry, or 0
	// when any number is accepted.
	Arity() int
	// Convert parses the raw value at position pos of the current call.
	Convert(pos int, raw string) (any, error)
	// Store writes converted values.
	Store(vals []any) error
	Clear()
	Contains(v any) bool
	// Values returns the current content as comparable elements.
	Values() []any
	String() string
}

// Flagger is implemented by destinations that can be bound without a
// value (bools, counters, actions).
type Flagger interface {
	IsFlag() bool
	SetFlag(on bool) error
}

// Remover is implemented by destinations that support inverted binds of
// values, removing rather than adding them.
type Remover interface {
	Remove(vals []any) error
}

// Sorter is implemented by containers whose elements can be ordered.
type Sorter interface {
	Sortable() bool
	Sort()
}

// checkProjector lets an element expose the part checks apply to.
type checkProjector interface {
	checkValue() any
}

// cardinalityHint lets a destination pick its default cardinality.
type cardinalityHint interface {
	defaultCardinality() Cardinality
}

// validator lets a destination reject its own construction.
type validator interface {
	validate() error
}

// separated is implemented by destinations with a configurable inner
// separator (map key/value).
type separated interface {
	setSeparator(sep string)
}

func isFlag(d Destination) bool {
	f, ok := d.(Flagger)
	return ok && f.IsFlag()
}

func defaultCardinality(d Destination) Cardinality {
	if h, ok := d.(cardinalityHint); ok {
		return h.defaultCardinality()
	}
	switch d.Capability() {
	case CapScalar, CapOptional, CapTuple, CapPair:
		return Max(1)
	}
	return Unbounded()
}

func defaultMode(d Destination) ValueMode {
	if isFlag(d) {
		return ValueNone
	}
	return ValueRequired
}
