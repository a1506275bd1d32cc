package errors

import (
	"fmt"
	"strings"

	cerrors "github.com/cockroachdb/errors"
)

// Kind classifies every failure the library reports.
type Kind int

const (
	// Registration-time kinds: programming defects in the declarations.
	DuplicateKey Kind = iota + 1
	InvalidDefinition
	InvalidConstraint

	// Evaluation-time kinds: reportable problems with the user's input.
	UnknownArgument
	AmbiguousAbbreviation
	BadTokenSyntax
	MissingValue
	UnexpectedValue
	TypeError
	FormatError
	ValidationError
	UnderflowError
	OverflowError
	RangeError
	CardinalityError
	DuplicateValueError
	MissingRequiredArgument
	MutuallyExclusiveError
	ConflictingChoice
	MissingMandatoryArgument
	DeprecatedArgumentUsed
	ReplacedArgumentUsed
	InversionNotAllowed
)

var kindNames = map[Kind]string{
	DuplicateKey:             "duplicate key",
	InvalidDefinition:        "invalid definition",
	InvalidConstraint:        "invalid constraint",
	UnknownArgument:          "unknown argument",
	AmbiguousAbbreviation:    "ambiguous abbreviation",
	BadTokenSyntax:           "bad token syntax",
	MissingValue:             "missing value",
	UnexpectedValue:          "unexpected value",
	TypeError:                "type error",
	FormatError:              "format error",
	ValidationError:          "validation error",
	UnderflowError:           "underflow",
	OverflowError:            "overflow",
	RangeError:               "out of range",
	CardinalityError:         "cardinality error",
	DuplicateValueError:      "duplicate value",
	MissingRequiredArgument:  "missing required argument",
	MutuallyExclusiveError:   "mutually exclusive arguments",
	ConflictingChoice:        "conflicting choice",
	MissingMandatoryArgument: "missing mandatory argument",
	DeprecatedArgumentUsed:   "deprecated argument",
	ReplacedArgumentUsed:     "replaced argument",
	InversionNotAllowed:      "inversion not allowed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Registration reports whether the kind is raised while declaring
// arguments rather than while evaluating an argument vector.
func (k Kind) Registration() bool {
	return k == DuplicateKey || k == InvalidDefinition || k == InvalidConstraint
}

// Error is the structured failure returned by registration and evaluation.
//
// Arg names the argument involved (e.g. "-n,--name"), Value the offending
// input when there is one, and Candidates lists related keys or values
// (ambiguous matches, unmet members of a set constraint, shared elements).
type Error struct {
	Kind       Kind
	Arg        string
	Value      string
	Candidates []string
	Msg        string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Arg != "" {
		b.WriteString(" '")
		b.WriteString(e.Arg)
		b.WriteString("'")
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Helper constructors
func New(kind Kind, arg, msg string) *Error {
	return &Error{Kind: kind, Arg: arg, Msg: msg}
}

func Newf(kind Kind, arg, format string, args ...any) *Error {
	return &Error{Kind: kind, Arg: arg, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, arg, value string, cause error) *Error {
	return &Error{Kind: kind, Arg: arg, Value: value, Err: cause}
}

func NewDuplicateKey(key string) error {
	return New(DuplicateKey, key, "key already defined at this level")
}

func NewUnknownArgument(token, suggestion string) error {
	err := New(UnknownArgument, token, "")
	if suggestion != "" {
		return cerrors.WithHint(err, fmt.Sprintf("did you mean %q?", suggestion))
	}
	return err
}

func NewAmbiguous(token string, candidates []string) error {
	err := &Error{
		Kind:       AmbiguousAbbreviation,
		Arg:        token,
		Candidates: candidates,
		Msg:        "matches " + strings.Join(candidates, ", "),
	}
	return cerrors.WithHint(err, "use a longer prefix or the full key")
}

func NewMissingMandatory(arg string) error {
	return New(MissingMandatoryArgument, arg, "must be provided")
}

// As extracts the structured error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if cerrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of the structured error carried by err, or zero.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return 0
}

// Is reports whether err carries a structured error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsRegistration reports whether err is a declaration defect.
func IsRegistration(err error) bool {
	return KindOf(err).Registration()
}

// Hints returns the user-facing hints attached to err.
func Hints(err error) []string {
	return cerrors.GetAllHints(err)
}
