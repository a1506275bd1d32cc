package core

import (
	"fmt"
	"reflect"
	"strings"

	cerrors "github.com/cockroachdb/errors"
	"go.uber.org/zap"

	clierr "github.com/chriso345/argot/errors"
)

// bind runs one use of d carrying raws through the binder: split, format,
// convert, check, apply container policy, store and count. A failure
// before the store leaves the destination untouched.
func (ev *evaluator) bind(d *Definition, raws []string, invert bool) error {
	if err := ev.admit(d, invert); err != nil {
		return err
	}

	parts := ev.split(d, raws)
	if err := checkArity(d, parts); err != nil {
		return err
	}

	vals := make([]any, 0, len(parts))
	for i, raw := range parts {
		v, err := ev.convert(d, i, raw)
		if err != nil {
			return err
		}
		vals = append(vals, v)
	}

	if err := checkExcludes(d, ev.st); err != nil {
		return err
	}

	if d.clearBefore && !ev.st.cleared[d] {
		d.dest.Clear()
		ev.st.cleared[d] = true
	}
	if d.uniqueData && !invert {
		var err error
		if vals, err = ev.dedupe(d, vals); err != nil {
			return err
		}
	}

	var err error
	if invert {
		err = d.dest.(Remover).Remove(vals)
	} else {
		err = d.dest.Store(vals)
	}
	if err != nil {
		return attach(err, d, strings.Join(parts, ","), clierr.ValidationError)
	}
	if d.sortData {
		d.dest.(Sorter).Sort()
	}

	used := ev.st.record(d)
	ev.logger.Debug("bound argument",
		zap.String("arg", d.Name()),
		zap.Strings("values", parts),
		zap.Bool("inverted", invert),
		zap.Int("uses", used))
	return d.card.checkUse(d.Name(), used)
}

// bindFlag runs one use of a flag: on unless inverted.
func (ev *evaluator) bindFlag(d *Definition, invert bool) error {
	if err := ev.admit(d, invert); err != nil {
		return err
	}
	if err := checkExcludes(d, ev.st); err != nil {
		return err
	}
	f, ok := d.dest.(Flagger)
	if !ok || !f.IsFlag() {
		return clierr.New(clierr.MissingValue, d.Name(), "a value is required")
	}
	if err := f.SetFlag(!invert); err != nil {
		return attach(err, d, "", clierr.ValidationError)
	}

	used := ev.st.record(d)
	ev.logger.Debug("bound flag",
		zap.String("arg", d.Name()),
		zap.Bool("inverted", invert),
		zap.Int("uses", used))
	return d.card.checkUse(d.Name(), used)
}

// bindAbsent handles an optional value that was not given.
func (ev *evaluator) bindAbsent(d *Definition, invert bool) error {
	switch {
	case d.implicit != nil:
		return ev.bind(d, []string{*d.implicit}, invert)
	case isFlag(d.dest):
		return ev.bindFlag(d, invert)
	}
	if err := ev.admit(d, invert); err != nil {
		return err
	}
	if err := checkExcludes(d, ev.st); err != nil {
		return err
	}
	return d.card.checkUse(d.Name(), ev.st.record(d))
}

// admit rejects uses of retired arguments and disallowed inversions.
func (ev *evaluator) admit(d *Definition, invert bool) error {
	switch {
	case d.deprecated:
		return clierr.New(clierr.DeprecatedArgumentUsed, d.Name(), "no longer supported")
	case d.replacedBy != "":
		err := clierr.Newf(clierr.ReplacedArgumentUsed, d.Name(), "replaced by %s", d.replacedBy)
		return cerrors.WithHintf(err, "use %s instead", d.replacedBy)
	case invert && !d.inversion:
		return clierr.New(clierr.InversionNotAllowed, d.Name(), "cannot be negated")
	}
	return nil
}

// split breaks keyed container values on the list separator.
func (ev *evaluator) split(d *Definition, raws []string) []string {
	if !d.dest.Capability().IsContainer() || d.positional {
		return raws
	}
	sep := d.listSep
	if sep == "" {
		sep = ev.cfg.ListSeparator
	}
	var parts []string
	for _, raw := range raws {
		parts = append(parts, strings.Split(raw, sep)...)
	}
	return parts
}

func checkArity(d *Definition, parts []string) error {
	arity := d.dest.Arity()
	switch {
	case arity > 0 && len(parts) < arity:
		return clierr.Newf(clierr.MissingValue, d.Name(), "takes %d values, got %d", arity, len(parts))
	case arity > 0 && len(parts) > arity:
		return clierr.Newf(clierr.UnexpectedValue, d.Name(), "takes %d values, got %d", arity, len(parts))
	case len(parts) == 0:
		return clierr.New(clierr.MissingValue, d.Name(), "a value is required")
	}
	return nil
}

// convert formats, converts and checks the value at position i.
func (ev *evaluator) convert(d *Definition, i int, raw string) (any, error) {
	pos := 0
	if d.dest.Arity() > 1 {
		pos = i
	}

	s := raw
	for _, f := range d.formatters(pos) {
		var err error
		if s, err = f.Format(s); err != nil {
			return nil, attach(err, d, raw, clierr.FormatError)
		}
	}

	v, err := d.dest.Convert(pos, s)
	if err != nil {
		return nil, attach(err, d, raw, clierr.TypeError)
	}

	checked := v
	if p, ok := v.(checkProjector); ok {
		checked = p.checkValue()
	}
	elem := reflect.TypeOf(checked)
	for _, c := range d.checks {
		if !c.Accepts(elem) {
			continue
		}
		if err := c.Check(checked); err != nil {
			return nil, attach(err, d, raw, clierr.ValidationError)
		}
	}
	return v, nil
}

// dedupe drops or, when strict, rejects values the container already holds.
func (ev *evaluator) dedupe(d *Definition, vals []any) ([]any, error) {
	strict := d.strictUnique || ev.cfg.StrictUnique
	out := vals[:0:0]
	for _, v := range vals {
		dup := d.dest.Contains(v)
		for _, kept := range out {
			dup = dup || reflect.DeepEqual(kept, v)
		}
		switch {
		case dup && strict:
			return nil, &clierr.Error{
				Kind:  clierr.DuplicateValueError,
				Arg:   d.Name(),
				Value: valueText(v),
				Msg:   "value given more than once",
			}
		case dup:
			ev.logger.Debug("dropped duplicate", zap.String("arg", d.Name()), zap.Any("value", v))
		default:
			out = append(out, v)
		}
	}
	return out, nil
}

// attach fills in the argument and raw value of a structured error, or
// wraps a plain error in one of kind.
func attach(err error, d *Definition, raw string, kind clierr.Kind) error {
	if e, ok := clierr.As(err); ok {
		if e.Arg == "" {
			e.Arg = d.Name()
		}
		if e.Value == "" {
			e.Value = raw
		}
		return err
	}
	return clierr.Wrap(kind, d.Name(), raw, err)
}

func valueText(v any) string {
	if e, ok := v.(mapEntry); ok {
		return fmt.Sprint(e.key)
	}
	return fmt.Sprint(v)
}
