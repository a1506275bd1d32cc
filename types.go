package argot

import (
	"cmp"
	"regexp"

	"github.com/bits-and-blooms/bitset"
	"github.com/spf13/pflag"

	"github.com/chriso345/argot/core"
)

type (
	Registry    = core.Registry
	Definition  = core.Definition
	Destination = core.Destination
	State       = core.State
	Option      = core.Option
	DefOption   = core.DefOption
	Check       = core.Check
	Formatter   = core.Formatter
	Cardinality = core.Cardinality
	ValueMode   = core.ValueMode
)

const (
	ValueNone     = core.ValueNone
	ValueOptional = core.ValueOptional
	ValueRequired = core.ValueRequired
	ValueCommand  = core.ValueCommand
)

// Meta is the primary metadata marker for struct definitions.
//
// It can be embedded in the root struct to define metadata for the CLI tool itself,
// such as its name, version, or description via struct tags.
//
// It can also be embedded into sub-structs to provide additional annotations
// such as `short`, `long`, `desc`, and `required`, either directly or via helper types.
//
// Usage:
//
// Root-level CLI tool definition:
//
//	cli := struct {
//	    argot.Meta `name:"mytool" version:"1.0.0"`
//	    ...
//	}{}
//
// Sub-struct flag definition using Meta for metadata:
//
//	cli := struct {
//	    argot.Meta `name:"mytool"`
//
//	    Name struct {
//	        Value      string
//	        argot.Meta `short:"n" long:"name" desc:"User name"`
//	    }
//	}{}
type Meta = core.Meta

// Version is a marker type that indicates the CLI tool supports a `--version` flag.
//
// If the `version` struct tag is set it is used directly; otherwise the
// version is inferred from the build info of the main module.
//
//	cli := struct {
//	    argot.Meta `name:"mytool"`
//	    argot.Version `version:"1.0.0"`
//	}{}
type Version = core.Version

// Help is a marker type that enables the automatic `--help` and `-h` flag handling.
//
//	cli := struct {
//	    argot.Meta `name:"mytool"`
//	    argot.Help
//	    ...
//	}{}
type Help = core.Help

// Subcommand marks a sub-struct as a sub-command. A `name` tag overrides the
// lowercased field name; a bool Value field reports selection.
type Subcommand = core.Subcommand

// ShortTag derives a short key (e.g. `-n`) from the first letter of the
// field name.
type ShortTag = core.ShortTag

// LongTag derives a long key (e.g. `--name`) from the lowercased field name.
type LongTag = core.LongTag

// Required marks an argument that must be given.
type Required = core.Required

// Desc annotates an argument or the tool with a description.
//
//	cli := struct {
//	    Name struct {
//	        Value string
//	        argot.Desc `desc:"Name of the user"`
//	    }
//	}{}
type Desc = core.Desc

// === DESTINATIONS ===

func Scalar[T any](p *T) Destination {
	return core.Scalar(p)
}

func Optional[T any](p **T) Destination {
	return core.Optional(p)
}

func Slice[T any](p *[]T) Destination {
	return core.Slice(p)
}

func Map[K comparable, V any](p *map[K]V) Destination {
	return core.Map(p)
}

func Pair[A, B any](first *A, second *B) Destination {
	return core.Pair(first, second)
}

func Tuple(targets ...any) Destination {
	return core.Tuple(targets...)
}

func BitSet(b *bitset.BitSet, width uint) Destination {
	return core.BitSet(b, width)
}

func Counter(p *int) Destination {
	return core.Counter(p)
}

func Func(fn func(value string) error) Destination {
	return core.Func(fn)
}

func Action(fn func() error) Destination {
	return core.Action(fn)
}

func Value(v pflag.Value) Destination {
	return core.Value(v)
}

// === CHECKS ===

func Lower[T cmp.Ordered](min T) Check {
	return core.Lower(min)
}

func Upper[T cmp.Ordered](max T) Check {
	return core.Upper(max)
}

func Between[T cmp.Ordered](lo, hi T) Check {
	return core.Between(lo, hi)
}

func Values[T comparable](allowed ...T) Check {
	return core.Values(allowed...)
}

func Pattern(re *regexp.Regexp) Check {
	return core.Pattern(re)
}

func CheckFunc[T any](desc string, fn func(T) error) Check {
	return core.CheckFunc(desc, fn)
}

var (
	Lowercase  = core.Lowercase
	Uppercase  = core.Uppercase
	TrimSpace  = core.TrimSpace
	FormatFunc = core.FormatFunc
)

// === CARDINALITY ===

var (
	Unbounded = core.Unbounded
	Exact     = core.Exact
	Max       = core.Max
	Range     = core.Range
)

// === OPTIONS ===

var (
	WithLogger      = core.WithLogger
	WithConfig      = core.WithConfig
	WithDescription = core.WithDescription
	WithOutput      = core.WithOutput
	WithHelp        = core.WithHelp
	WithVersion     = core.WithVersion

	Usage             = core.Usage
	Mandatory         = core.Mandatory
	Hidden            = core.Hidden
	Deprecated        = core.Deprecated
	ReplacedBy        = core.ReplacedBy
	WithCardinality   = core.WithCardinality
	Checks            = core.Checks
	Formats           = core.Formats
	FormatAt          = core.FormatAt
	Mode              = core.Mode
	Sort              = core.Sort
	Unique            = core.Unique
	StrictUnique      = core.StrictUnique
	ClearBeforeAssign = core.ClearBeforeAssign
	MultiValue        = core.MultiValue
	Inversion         = core.Inversion
	ListSeparator     = core.ListSeparator
	ShowDefault       = core.ShowDefault
	Implicit          = core.Implicit
)
