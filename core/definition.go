package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	clierr "github.com/chriso345/argot/errors"
)

// Definition is one registered argument: its keys, where its values go and
// the policies applied while binding them.
type Definition struct {
	short   rune
	long    string
	name    string
	command bool

	dest Destination
	mode ValueMode
	card Cardinality

	modeSet bool
	cardSet bool

	checks     []Check
	formats    []Formatter
	posFormats map[int][]Formatter

	sortData     bool
	uniqueData   bool
	strictUnique bool
	clearBefore  bool
	multiValue   bool
	inversion    bool

	mandatory  bool
	hidden     bool
	deprecated bool
	replacedBy string

	usage       string
	listSep     string
	showDefault bool
	defaultText string
	implicit    *string

	sub        *Registry
	positional bool

	requires []*Definition
	excludes []*Definition

	owner *Registry
}

// DefOption configures a Definition.
type DefOption func(*Definition)

func Usage(text string) DefOption { return func(d *Definition) { d.usage = text } }

// Mandatory makes evaluation fail when the argument is never given.
func Mandatory() DefOption { return func(d *Definition) { d.mandatory = true } }

func Hidden() DefOption { return func(d *Definition) { d.hidden = true } }

// Deprecated makes every use of the argument an error.
func Deprecated() DefOption { return func(d *Definition) { d.deprecated = true } }

// ReplacedBy makes every use of the argument an error pointing at key.
func ReplacedBy(key string) DefOption { return func(d *Definition) { d.replacedBy = key } }

func WithCardinality(c Cardinality) DefOption {
	return func(d *Definition) { d.card, d.cardSet = c, true }
}

func Checks(checks ...Check) DefOption {
	return func(d *Definition) { d.checks = append(d.checks, checks...) }
}

// Formats appends formatters applied to every value.
func Formats(fs ...Formatter) DefOption {
	return func(d *Definition) { d.formats = append(d.formats, fs...) }
}

// FormatAt appends formatters applied only to the value at position pos of
// a tuple or pair. They replace the global chain for that position.
func FormatAt(pos int, fs ...Formatter) DefOption {
	return func(d *Definition) {
		if d.posFormats == nil {
			d.posFormats = make(map[int][]Formatter)
		}
		d.posFormats[pos] = append(d.posFormats[pos], fs...)
	}
}

func Mode(m ValueMode) DefOption { return func(d *Definition) { d.mode, d.modeSet = m, true } }

func Sort() DefOption { return func(d *Definition) { d.sortData = true } }

// Unique drops values already present in the container.
func Unique() DefOption { return func(d *Definition) { d.uniqueData = true } }

// StrictUnique rejects values already present in the container.
func StrictUnique() DefOption {
	return func(d *Definition) { d.uniqueData, d.strictUnique = true, true }
}

// ClearBeforeAssign empties the container the first time the argument is
// bound in a run, replacing pre-filled defaults.
func ClearBeforeAssign() DefOption { return func(d *Definition) { d.clearBefore = true } }

// MultiValue lets the argument take every following value up to the next key.
func MultiValue() DefOption { return func(d *Definition) { d.multiValue = true } }

// Inversion allows the argument to be negated with "!".
func Inversion() DefOption { return func(d *Definition) { d.inversion = true } }

func ListSeparator(sep string) DefOption { return func(d *Definition) { d.listSep = sep } }

// ShowDefault asks the usage renderer to print the destination's value at
// registration time.
func ShowDefault() DefOption { return func(d *Definition) { d.showDefault = true } }

// Implicit is the value bound when an optional value is absent.
func Implicit(raw string) DefOption {
	return func(d *Definition) { d.implicit = &raw }
}

// parseKeys splits "n,name" into a short and a long key. Leading dashes are
// tolerated.
func parseKeys(keys string) (rune, string, error) {
	var short rune
	var long string
	for part := range strings.SplitSeq(keys, ",") {
		part = strings.TrimLeft(strings.TrimSpace(part), "-")
		switch {
		case part == "":
			continue
		case utf8.RuneCountInString(part) == 1:
			if short != 0 {
				return 0, "", clierr.Newf(clierr.InvalidDefinition, keys, "more than one short key")
			}
			short, _ = utf8.DecodeRuneInString(part)
		default:
			if long != "" {
				return 0, "", clierr.Newf(clierr.InvalidDefinition, keys, "more than one long key")
			}
			if strings.ContainsAny(part, "= \t") {
				return 0, "", clierr.Newf(clierr.InvalidDefinition, keys, "invalid long key %q", part)
			}
			long = part
		}
	}
	if short == 0 && long == "" {
		return 0, "", clierr.New(clierr.InvalidDefinition, keys, "no key given")
	}
	if token := string(short); short != 0 && strings.ContainsAny(token, "-=()!") {
		return 0, "", clierr.Newf(clierr.InvalidDefinition, keys, "invalid short key %q", token)
	}
	return short, long, nil
}

// finish fills the defaults that depend on the destination and checks
// that the options fit together.
func (d *Definition) finish() error {
	if d.dest == nil {
		return clierr.New(clierr.InvalidDefinition, d.Name(), "nil destination")
	}
	if v, ok := d.dest.(validator); ok {
		if err := v.validate(); err != nil {
			return clierr.Wrap(clierr.InvalidDefinition, d.Name(), "", err)
		}
	}
	if !d.modeSet {
		d.mode = defaultMode(d.dest)
		if d.implicit != nil && d.mode == ValueRequired {
			d.mode = ValueOptional
		}
	}
	if d.positional {
		d.mode = ValueRequired
	}
	if !d.cardSet {
		d.card = defaultCardinality(d.dest)
	}

	fail := func(format string, args ...any) error {
		return clierr.Newf(clierr.InvalidDefinition, d.Name(), format, args...)
	}

	capability := d.dest.Capability()
	if !d.card.valid() {
		return fail("invalid cardinality %d..%d", d.card.min, d.card.max)
	}
	if d.mandatory && d.deprecated {
		return fail("mandatory and deprecated are mutually exclusive")
	}
	if !capability.IsContainer() {
		switch {
		case d.sortData:
			return fail("sort applies only to containers")
		case d.uniqueData:
			return fail("unique applies only to containers")
		case d.clearBefore:
			return fail("clear-before-assign applies only to containers")
		case d.multiValue:
			return fail("multi-value applies only to containers")
		case d.listSep != "":
			return fail("list separator applies only to containers")
		}
	}
	if d.sortData {
		if s, ok := d.dest.(Sorter); !ok || !s.Sortable() {
			return fail("%s elements cannot be sorted", capability)
		}
	}
	switch d.mode {
	case ValueNone:
		if !isFlag(d.dest) {
			return fail("%s destinations need a value", capability)
		}
	case ValueCommand:
		if !capability.IsContainer() && capability != CapCallback {
			return fail("command mode needs a container or callback")
		}
	}
	// An inverted use carrying a value removes it; a flag is switched off.
	if d.inversion {
		_, remover := d.dest.(Remover)
		switch {
		case !remover && !isFlag(d.dest):
			return fail("%s destinations cannot be inverted", capability)
		case !remover && d.mode != ValueNone:
			return fail("inverting a %s destination that takes a value needs the none value mode", capability)
		}
	}
	if d.implicit != nil && d.mode != ValueOptional {
		return fail("implicit value needs the optional value mode")
	}
	if d.multiValue && d.mode == ValueNone {
		return fail("multi-value needs a value")
	}
	if arity := d.dest.Arity(); arity > 0 {
		for pos := range d.posFormats {
			if pos < 0 || pos >= arity {
				return fail("formatter position %d outside 0..%d", pos, arity-1)
			}
		}
	} else if len(d.posFormats) > 0 {
		return fail("positional formatters need a tuple or pair")
	}
	// A tuple check applies to the positions of its type.
	for _, c := range d.checks {
		if !lo.ContainsBy(d.dest.ElemTypes(), c.Accepts) {
			return fail("check %q does not apply to %s values", c, capability)
		}
	}
	if d.showDefault && d.defaultText == "" {
		d.defaultText = d.dest.String()
	}
	return nil
}

// Name renders the keys the way usage and errors show them.
func (d *Definition) Name() string {
	switch {
	case d.positional || d.command:
		return d.name
	case d.short != 0 && d.long != "":
		return "-" + string(d.short) + ",--" + d.long
	case d.short != 0:
		return "-" + string(d.short)
	}
	return "--" + d.long
}

func (d *Definition) String() string { return d.Name() }

// Short returns the short key, or zero.
func (d *Definition) Short() rune { return d.short }

// Long returns the long key, or "".
func (d *Definition) Long() string { return d.long }

// Keys returns the keys as written on the command line.
func (d *Definition) Keys() []string {
	switch {
	case d.positional || d.command:
		return []string{d.name}
	case d.short != 0 && d.long != "":
		return []string{"-" + string(d.short), "--" + d.long}
	case d.short != 0:
		return []string{"-" + string(d.short)}
	}
	return []string{"--" + d.long}
}

func (d *Definition) Usage() string            { return d.usage }
func (d *Definition) Mode() ValueMode          { return d.mode }
func (d *Definition) Cardinality() Cardinality { return d.card }
func (d *Definition) Capability() Capability   { return d.dest.Capability() }
func (d *Definition) Destination() Destination { return d.dest }
func (d *Definition) Mandatory() bool          { return d.mandatory }
func (d *Definition) Hidden() bool             { return d.hidden }
func (d *Definition) Deprecated() bool         { return d.deprecated }
func (d *Definition) ReplacedBy() string       { return d.replacedBy }
func (d *Definition) ShowDefault() bool        { return d.showDefault }
func (d *Definition) DefaultText() string      { return d.defaultText }
func (d *Definition) IsPositional() bool       { return d.positional }
func (d *Definition) IsCommand() bool          { return d.command }
func (d *Definition) Inverts() bool            { return d.inversion }

// SubRegistry returns the group or sub-command the argument introduces.
func (d *Definition) SubRegistry() *Registry { return d.sub }

// Placeholder names the value in usage lines, e.g. "<value>" or "[value]".
func (d *Definition) Placeholder() string {
	word := "value"
	if d.dest.Capability().IsContainer() {
		word = "values"
	}
	if n := d.dest.Arity(); n > 1 {
		parts := make([]string, n)
		for i := range parts {
			parts[i] = fmt.Sprintf("v%d", i+1)
		}
		word = strings.Join(parts, " ")
	}
	switch d.mode {
	case ValueNone:
		return ""
	case ValueOptional:
		return "[" + word + "]"
	case ValueCommand:
		return "<" + word + "...>"
	}
	return "<" + word + ">"
}

// CheckDescriptions describes the attached checks.
func (d *Definition) CheckDescriptions() []string {
	return lo.Map(d.checks, func(c Check, _ int) string { return c.String() })
}

// FormatterDescriptions describes the attached formatters, positional ones
// prefixed with their position.
func (d *Definition) FormatterDescriptions() []string {
	out := lo.Map(d.formats, func(f Formatter, _ int) string { return f.String() })
	for pos := range d.dest.Arity() {
		for _, f := range d.posFormats[pos] {
			out = append(out, fmt.Sprintf("#%d %s", pos+1, f))
		}
	}
	return out
}

// ConstraintDescriptions describes the constraints the argument takes part in.
func (d *Definition) ConstraintDescriptions() []string {
	var out []string
	if len(d.requires) > 0 {
		out = append(out, "requires "+joinNames(d.requires))
	}
	if len(d.excludes) > 0 {
		out = append(out, "excludes "+joinNames(d.excludes))
	}
	if d.owner == nil {
		return out
	}
	for _, c := range d.owner.constraints {
		if lo.Contains(c.members, d) {
			out = append(out, c.String())
		}
	}
	return out
}

func joinNames(defs []*Definition) string {
	return strings.Join(lo.Map(defs, func(d *Definition, _ int) string { return d.Name() }), ", ")
}

// formatters returns the chain applied to the value at position pos.
func (d *Definition) formatters(pos int) []Formatter {
	if fs, ok := d.posFormats[pos]; ok {
		return fs
	}
	return d.formats
}
