package core

import (
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/chriso345/argot/cmdline"
	"github.com/chriso345/argot/config"
	clierr "github.com/chriso345/argot/errors"
	"github.com/chriso345/argot/internal/common"
	"github.com/chriso345/argot/token"
)

// evaluator drives one run: it pulls elements, resolves keys against the
// stack of active registries and hands values to the binder.
type evaluator struct {
	st     *State
	it     *token.Iterator
	cfg    config.Config
	logger *zap.Logger

	// stack holds the active registries, the root first.
	stack []*Registry

	// pending is set by "!" and applies to the next key only.
	pending bool
	// scope is the inversion applied inside the current parentheses.
	scope  bool
	scopes []bool
}

// Evaluate classifies argv (program name first) and binds it against r.
// It stops at the first error. The returned state describes the run.
func (r *Registry) Evaluate(argv []string) (*State, error) {
	if err := r.reservedErr(); err != nil {
		return nil, err
	}
	ev := &evaluator{
		st:     newState(r),
		it:     token.NewIterator(argv),
		cfg:    r.cfg,
		logger: r.logger,
		stack:  []*Registry{r},
	}
	if err := ev.run(); err != nil {
		ev.logger.Debug("evaluation failed", zap.Error(err))
		return ev.st, err
	}
	return ev.st, nil
}

// EvaluateLine splits a shell-like command line and evaluates it. The
// registry name stands in for the program name.
func (r *Registry) EvaluateLine(line string) (*State, error) {
	argv, err := cmdline.Split(line, r.name)
	if err != nil {
		return nil, clierr.Wrap(clierr.BadTokenSyntax, "", line, err)
	}
	return r.Evaluate(argv)
}

func (ev *evaluator) run() error {
	for {
		el, err := ev.it.Next()
		if err != nil {
			return err
		}

		switch el.Kind {
		case token.End:
			return ev.done()
		case token.Short, token.Long:
			err = ev.key(el)
		case token.Value:
			err = ev.positional(el)
		case token.Control:
			err = ev.control(el)
		}
		if err != nil {
			return err
		}
	}
}

func (ev *evaluator) top() *Registry { return ev.stack[len(ev.stack)-1] }

// key handles a Short or Long element: resolve, consume its values, bind.
func (ev *evaluator) key(el token.Element) error {
	d, level, err := ev.resolve(el)
	if err != nil {
		return err
	}
	// An outer key closes the groups above it; sub-commands stay selected.
	for len(ev.stack)-1 > level && !ev.top().intro.command {
		ev.leave(len(ev.stack) - 2)
	}

	invert := ev.pending != ev.scope
	ev.pending = false
	ev.logger.Debug("resolved key", zap.String("token", el.Key()), zap.String("arg", d.Name()), zap.Stringer("mode", d.mode))

	switch d.mode {
	case ValueNone:
		if next, _ := ev.it.Peek(); next.Kind == token.Value && next.Attached && next.Index == el.Index {
			return clierr.New(clierr.UnexpectedValue, d.Name(), "takes no value, got "+next.Value)
		}
		err = ev.bindFlag(d, invert)
	case ValueOptional:
		raw, ok := ev.optionalValue(el)
		if ok {
			err = ev.bind(d, []string{raw}, invert)
		} else {
			err = ev.bindAbsent(d, invert)
		}
	case ValueRequired:
		var raws []string
		if raws, err = ev.requiredValues(el, d); err == nil {
			err = ev.bind(d, raws, invert)
		}
	case ValueCommand:
		if el.Kind == token.Short {
			ev.it.RetagRemainder()
		}
		if rest := ev.it.Rest(); len(rest) > 0 {
			err = ev.bind(d, rest, invert)
		} else {
			err = ev.bindAbsent(d, invert)
		}
	}
	if err != nil {
		return err
	}

	if d.sub != nil {
		ev.enter(d.sub)
	} else if level > 0 && !ev.top().intro.command && ev.top().exhausted(ev.st) {
		ev.leave(len(ev.stack) - 2)
	}
	return nil
}

// resolve finds the definition of a key element, innermost registry first.
// Exact matches in any active registry win over abbreviations.
func (ev *evaluator) resolve(el token.Element) (*Definition, int, error) {
	if el.Kind == token.Short {
		for i := len(ev.stack) - 1; i >= 0; i-- {
			if d, ok := ev.stack[i].shorts[el.Char]; ok {
				return d, i, nil
			}
		}
		return nil, 0, clierr.NewUnknownArgument(el.Key(), "")
	}

	for i := len(ev.stack) - 1; i >= 0; i-- {
		if d, ok := ev.stack[i].longs[el.Name]; ok {
			return d, i, nil
		}
	}
	for i := len(ev.stack) - 1; i >= 0; i-- {
		d, cands := ev.stack[i].matchLong(el.Name)
		if len(cands) > 0 {
			return nil, 0, clierr.NewAmbiguous(el.Key(), cands)
		}
		if d != nil {
			return d, i, nil
		}
	}

	var known []string
	for _, r := range ev.stack {
		known = append(known, lo.Keys(r.longs)...)
	}
	return nil, 0, clierr.NewUnknownArgument(el.Key(), prefixed(common.ClosestMatch(el.Name, known)))
}

func prefixed(key string) string {
	if key == "" {
		return ""
	}
	return "--" + key
}

// optionalValue takes an attached value, or the following value when the
// key was not part of a run of short keys. Inside a run the remainder is
// the value unless every character of it is a short key.
func (ev *evaluator) optionalValue(el token.Element) (string, bool) {
	if el.Kind == token.Short && ev.it.InShortRun() {
		rest := el.Raw[el.Offset+utf8.RuneLen(el.Char):]
		if ev.shortKeys(rest) {
			return "", false
		}
		ev.it.RetagRemainder()
		v, _ := ev.it.Next()
		return v.Value, true
	}

	next, err := ev.it.Peek()
	if err != nil || next.Kind != token.Value {
		return "", false
	}
	if next.Attached && next.Index == el.Index {
		_, _ = ev.it.Next()
		return next.Value, true
	}
	if ev.it.InShortRun() {
		return "", false
	}
	_, _ = ev.it.Next()
	return next.Value, true
}

// requiredValues collects the raw values of one use of d: the arity of a
// tuple, one value otherwise, and every following value for multi-value
// containers.
func (ev *evaluator) requiredValues(el token.Element, d *Definition) ([]string, error) {
	if el.Kind == token.Short {
		ev.it.RetagRemainder()
	}

	want := max(d.dest.Arity(), 1)
	raws := make([]string, 0, want)
	for range want {
		raw, err := ev.nextValue(d)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}

	if d.multiValue {
		for {
			next, err := ev.it.Peek()
			if err != nil || next.Kind != token.Value {
				break
			}
			_, _ = ev.it.Next()
			raws = append(raws, next.Value)
		}
	}
	return raws, nil
}

// nextValue consumes the element following a value-taking key. Control
// tokens and negative numbers count as values here.
func (ev *evaluator) nextValue(d *Definition) (string, error) {
	next, err := ev.it.Peek()
	if err != nil {
		return "", err
	}

	switch next.Kind {
	case token.Value:
		_, _ = ev.it.Next()
		return next.Value, nil
	case token.Control:
		_, _ = ev.it.Next()
		return next.Raw, nil
	case token.Short:
		if next.Offset == 1 && ev.negativeNumber(next) {
			_, _ = ev.it.Next()
			ev.it.TakeToken()
			return next.Raw, nil
		}
	}
	return "", clierr.New(clierr.MissingValue, d.Name(), "a value is required")
}

// shortKeys reports whether every character of s is a short key of an
// active registry.
func (ev *evaluator) shortKeys(s string) bool {
	for _, c := range s {
		if !lo.SomeBy(ev.stack, func(r *Registry) bool { _, ok := r.shorts[c]; return ok }) {
			return false
		}
	}
	return true
}

// negativeNumber reports whether a dash-led token is a number rather than
// a run of short keys.
func (ev *evaluator) negativeNumber(el token.Element) bool {
	if !unicode.IsDigit(el.Char) && el.Char != '.' {
		return false
	}
	for _, r := range ev.stack {
		if _, ok := r.shorts[el.Char]; ok {
			return false
		}
	}
	_, err := cast.ToFloat64E(el.Raw)
	return err == nil
}

// positional handles a value with no pending key: a sub-command name, the
// next free positional slot, or an error.
func (ev *evaluator) positional(el token.Element) error {
	if !ev.it.ValuesOnly() {
		// Sub-command names resolve up to the nearest selected sub-command.
		for i := len(ev.stack) - 1; i >= 0; i-- {
			if c, ok := ev.stack[i].commands[el.Value]; ok {
				ev.leave(i)
				if err := ev.bindFlag(c, false); err != nil {
					return err
				}
				ev.enter(c.sub)
				return nil
			}
			if intro := ev.stack[i].intro; intro == nil || intro.command {
				break
			}
		}
	}

	for i := len(ev.stack) - 1; i >= 0; i-- {
		if p := ev.stack[i].nextPositional(ev.st); p != nil {
			return ev.bind(p, []string{el.Value}, false)
		}
	}

	var cmds []string
	for _, r := range ev.stack {
		cmds = append(cmds, lo.Keys(r.commands)...)
	}
	return clierr.NewUnknownArgument(el.Value, common.ClosestMatch(el.Value, cmds))
}

// control applies "!", "(" and ")".
func (ev *evaluator) control(el token.Element) error {
	switch el.Char {
	case '!':
		ev.pending = !ev.pending
	case '(':
		ev.scopes = append(ev.scopes, ev.scope)
		ev.scope = ev.scope != ev.pending
		ev.pending = false
	case ')':
		if len(ev.scopes) == 0 {
			return clierr.New(clierr.BadTokenSyntax, ")", "no group to close")
		}
		if ev.pending {
			return clierr.New(clierr.BadTokenSyntax, "!", "negates nothing")
		}
		ev.scope = ev.scopes[len(ev.scopes)-1]
		ev.scopes = ev.scopes[:len(ev.scopes)-1]
	}
	return nil
}

func (ev *evaluator) enter(r *Registry) {
	ev.stack = append(ev.stack, r)
	ev.st.enter(r)
	ev.logger.Debug("entered", zap.String("registry", r.name))
}

// leave pops the stack down to level.
func (ev *evaluator) leave(level int) {
	for len(ev.stack)-1 > level {
		ev.logger.Debug("left", zap.String("registry", ev.top().name))
		ev.stack = ev.stack[:len(ev.stack)-1]
	}
}

// done runs the end-of-input checks in order: syntax, mandatory
// arguments, deferred constraints, cardinality lower bounds.
func (ev *evaluator) done() error {
	switch {
	case len(ev.scopes) > 0:
		return clierr.New(clierr.BadTokenSyntax, "(", "group not closed")
	case ev.pending:
		return clierr.New(clierr.BadTokenSyntax, "!", "negates nothing")
	}

	ev.logger.Debug("checking mandatory arguments")
	for _, r := range ev.st.entered {
		for _, d := range r.defs {
			if d.mandatory && !ev.st.Seen(d) {
				return clierr.NewMissingMandatory(d.Name())
			}
		}
	}

	ev.logger.Debug("checking constraints")
	for _, d := range ev.st.order {
		if err := checkRequires(d, ev.st); err != nil {
			return err
		}
	}
	for _, r := range ev.st.entered {
		for _, c := range r.constraints {
			if err := c.check(ev.st); err != nil {
				return err
			}
		}
	}

	ev.logger.Debug("checking cardinality")
	for _, d := range ev.st.order {
		if err := d.card.checkDone(d.Name(), ev.st.Count(d)); err != nil {
			return err
		}
	}
	return nil
}
