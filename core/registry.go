package core

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/chriso345/argot/config"
	clierr "github.com/chriso345/argot/errors"
)

var osExit = os.Exit // Mockable for testing

// Registry owns the argument definitions of one level of a command line.
// Groups and sub-commands are child registries reachable through a
// definition of their parent.
type Registry struct {
	name        string
	description string
	version     string

	parent *Registry
	intro  *Definition

	defs        []*Definition
	shorts      map[rune]*Definition
	longs       map[string]*Definition
	commands    map[string]*Definition
	positionals []*Definition
	constraints []*constraint

	cfg    config.Config
	logger *zap.Logger
	out    io.Writer

	help           bool
	usageRenderer  func(*Registry) string
	versionRender  func(name, version string) string
	reservedErrors []error
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger traces evaluation through logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithConfig replaces the default settings. A config with Debug set also
// installs a development logger.
func WithConfig(cfg config.Config) Option {
	return func(r *Registry) {
		r.cfg = cfg
		if cfg.Debug {
			r.logger = cfg.Logger()
		}
	}
}

// WithDescription sets the text shown under the usage line.
func WithDescription(desc string) Option {
	return func(r *Registry) { r.description = desc }
}

// WithOutput sets where usage and version requests are written.
func WithOutput(w io.Writer) Option {
	return func(r *Registry) { r.out = w }
}

// WithHelp reserves the configured help keys: giving one prints the usage
// and exits with status 0.
func WithHelp() Option {
	return func(r *Registry) { r.help = true }
}

// WithVersion reserves the configured version keys: giving one prints the
// version and exits with status 0.
func WithVersion(version string) Option {
	return func(r *Registry) { r.version = version }
}

// WithUsageRenderer replaces the built-in plain usage text.
func WithUsageRenderer(render func(*Registry) string) Option {
	return func(r *Registry) { r.usageRenderer = render }
}

// WithVersionRenderer replaces the built-in "name version" line.
func WithVersionRenderer(render func(name, version string) string) Option {
	return func(r *Registry) { r.versionRender = render }
}

// New returns an empty registry for the program called name.
func New(name string, opts ...Option) *Registry {
	r := &Registry{
		name:     name,
		shorts:   make(map[rune]*Definition),
		longs:    make(map[string]*Definition),
		commands: make(map[string]*Definition),
		cfg:      config.Default(),
		logger:   zap.NewNop(),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.reserve()
	return r
}

// child returns a registry inheriting r's settings.
func (r *Registry) child(name string, intro *Definition) *Registry {
	return &Registry{
		name:          name,
		parent:        r,
		intro:         intro,
		shorts:        make(map[rune]*Definition),
		longs:         make(map[string]*Definition),
		commands:      make(map[string]*Definition),
		cfg:           r.cfg,
		logger:        r.logger,
		out:           r.out,
		help:          r.help,
		usageRenderer: r.usageRenderer,
	}
}

// reserve defines the help and version keys. A failure is kept and
// reported by the first Define or Evaluate.
func (r *Registry) reserve() {
	if r.help {
		_, err := r.Define(r.cfg.HelpKeys, Action(func() error {
			fmt.Fprintln(r.out, r.Usage())
			osExit(0)
			return nil
		}), Usage("print this help and exit"), WithCardinality(Unbounded()))
		r.reservedErrors = append(r.reservedErrors, err)
	}
	if r.version != "" && r.parent == nil {
		_, err := r.Define(r.cfg.VersionKeys, Action(func() error {
			fmt.Fprintln(r.out, r.VersionText())
			osExit(0)
			return nil
		}), Usage("print the version and exit"), WithCardinality(Unbounded()))
		r.reservedErrors = append(r.reservedErrors, err)
	}
}

func (r *Registry) reservedErr() error {
	for _, err := range r.reservedErrors {
		if err != nil {
			return err
		}
	}
	return nil
}

// Usage renders the usage text of r.
func (r *Registry) Usage() string {
	if r.usageRenderer != nil {
		return r.usageRenderer(r)
	}
	return plainUsage(r)
}

// VersionText renders the version line.
func (r *Registry) VersionText() string {
	if r.versionRender != nil {
		return r.versionRender(r.name, r.version)
	}
	return r.name + " " + r.version
}

// Define registers an argument under keys, a comma separated list holding
// at most one single-character short key and one long key ("n,name").
func (r *Registry) Define(keys string, dest Destination, opts ...DefOption) (*Definition, error) {
	short, long, err := parseKeys(keys)
	if err != nil {
		return nil, err
	}
	d := &Definition{short: short, long: long, dest: dest, owner: r}
	for _, opt := range opts {
		opt(d)
	}
	if err := r.add(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Positional registers a slot for values given without a key. Slots are
// filled in declaration order; an unbounded slot captures every remaining
// value.
func (r *Registry) Positional(name string, dest Destination, opts ...DefOption) (*Definition, error) {
	if name == "" {
		return nil, clierr.New(clierr.InvalidDefinition, name, "positional without a name")
	}
	d := &Definition{name: name, dest: dest, positional: true, owner: r}
	for _, opt := range opts {
		opt(d)
	}
	if lo.ContainsBy(r.positionals, func(p *Definition) bool { return p.name == name }) {
		return nil, clierr.NewDuplicateKey(name)
	}
	if n := len(r.positionals); n > 0 && r.positionals[n-1].card.IsUnbounded() {
		return nil, clierr.Newf(clierr.InvalidDefinition, name, "follows the catch-all %s", r.positionals[n-1].name)
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	r.defs = append(r.defs, d)
	r.positionals = append(r.positionals, d)
	return d, nil
}

// Group registers a key that introduces a nested set of arguments. Keys of
// the group resolve only after the introducing key was given.
func (r *Registry) Group(keys string, opts ...DefOption) (*Registry, error) {
	short, long, err := parseKeys(keys)
	if err != nil {
		return nil, err
	}
	d := &Definition{short: short, long: long, dest: &groupDest{}, owner: r}
	for _, opt := range opts {
		opt(d)
	}
	d.sub = r.child(d.Name(), d)
	if err := r.add(d); err != nil {
		return nil, err
	}
	return d.sub, nil
}

// Subcommand registers a named sub-command entered by giving its name as a
// value. sel, when not nil, is set to true once the sub-command is selected.
func (r *Registry) Subcommand(name string, sel *bool, opts ...DefOption) (*Registry, error) {
	if name == "" || strings.HasPrefix(name, "-") {
		return nil, clierr.Newf(clierr.InvalidDefinition, name, "invalid sub-command name")
	}
	if _, ok := r.commands[name]; ok {
		return nil, clierr.NewDuplicateKey(name)
	}
	d := &Definition{name: name, command: true, dest: &groupDest{sel: sel}, owner: r}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	d.sub = r.child(r.name+" "+name, d)
	d.sub.description = d.usage
	d.sub.reserve()
	if err := d.sub.reservedErr(); err != nil {
		return nil, err
	}
	r.defs = append(r.defs, d)
	r.commands[name] = d
	return d.sub, nil
}

func (r *Registry) add(d *Definition) error {
	if err := r.reservedErr(); err != nil {
		return err
	}
	if d.short != 0 {
		if _, ok := r.shorts[d.short]; ok {
			return clierr.NewDuplicateKey("-" + string(d.short))
		}
	}
	if d.long != "" {
		if _, ok := r.longs[d.long]; ok {
			return clierr.NewDuplicateKey("--" + d.long)
		}
	}
	if d.dest != nil {
		if s, ok := d.dest.(separated); ok {
			s.setSeparator(r.cfg.KeyValueSeparator)
		}
	}
	if err := d.finish(); err != nil {
		return err
	}
	if d.replacedBy != "" {
		if _, err := r.lookup(d.replacedBy); err != nil {
			return clierr.Wrap(clierr.InvalidDefinition, d.Name(), d.replacedBy, err)
		}
	}
	if d.short != 0 {
		r.shorts[d.short] = d
	}
	if d.long != "" {
		r.longs[d.long] = d
	}
	r.defs = append(r.defs, d)
	return nil
}

// Requires makes key depend on every argument in refs (separated by ";"):
// once key is given, all of them must be given by the end of the run.
func (r *Registry) Requires(key, refs string) error {
	d, members, err := r.pairRefs(key, refs)
	if err != nil {
		return err
	}
	d.requires = append(d.requires, members...)
	return nil
}

// Excludes makes giving any argument in refs (separated by ";") fail once
// key was given. The rule is one-sided; declare it on both sides for a
// symmetric exclusion.
func (r *Registry) Excludes(key, refs string) error {
	d, members, err := r.pairRefs(key, refs)
	if err != nil {
		return err
	}
	d.excludes = append(d.excludes, members...)
	return nil
}

func (r *Registry) pairRefs(key, refs string) (*Definition, []*Definition, error) {
	d, err := r.lookup(key)
	if err != nil {
		return nil, nil, err
	}
	members, err := r.resolveRefs(refs, 1)
	if err != nil {
		return nil, nil, err
	}
	if slices.Contains(members, d) {
		return nil, nil, clierr.Newf(clierr.InvalidConstraint, key, "refers to itself")
	}
	return d, members, nil
}

// AllOf requires every argument in refs to be given.
func (r *Registry) AllOf(refs string) error { return r.addSet(allOf, refs) }

// AnyOf allows at most one argument in refs to be given.
func (r *Registry) AnyOf(refs string) error { return r.addSet(anyOf, refs) }

// OneOf requires exactly one argument in refs to be given.
func (r *Registry) OneOf(refs string) error { return r.addSet(oneOf, refs) }

// Disjoint requires the containers in refs to share no element.
func (r *Registry) Disjoint(refs string) error { return r.addSet(disjoint, refs) }

// Differ requires the arguments in refs to carry different values.
func (r *Registry) Differ(refs string) error { return r.addSet(differ, refs) }

func (r *Registry) addSet(kind constraintKind, refs string) error {
	members, err := r.resolveRefs(refs, 2)
	if err != nil {
		return err
	}
	if kind == disjoint {
		for _, m := range members {
			if !m.dest.Capability().IsContainer() {
				return clierr.Newf(clierr.InvalidConstraint, m.Name(), "disjoint applies only to containers")
			}
		}
	}
	r.constraints = append(r.constraints, &constraint{kind: kind, members: members})
	return nil
}

// resolveRefs resolves a ";" separated key list against r and its ancestors.
func (r *Registry) resolveRefs(refs string, minCount int) ([]*Definition, error) {
	var members []*Definition
	for ref := range strings.SplitSeq(refs, ";") {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		d, err := r.lookup(ref)
		if err != nil {
			return nil, err
		}
		if slices.Contains(members, d) {
			return nil, clierr.Newf(clierr.InvalidConstraint, ref, "listed twice in %q", refs)
		}
		members = append(members, d)
	}
	if len(members) < minCount {
		return nil, clierr.Newf(clierr.InvalidConstraint, refs, "needs at least %d arguments", minCount)
	}
	return members, nil
}

// lookup finds a definition by exact key or positional name, here or in an
// ancestor.
func (r *Registry) lookup(ref string) (*Definition, error) {
	key := strings.TrimLeft(ref, "-")
	for cur := r; cur != nil; cur = cur.parent {
		if d := cur.find(key); d != nil {
			return d, nil
		}
	}
	return nil, clierr.Newf(clierr.InvalidConstraint, ref, "no such argument")
}

func (r *Registry) find(key string) *Definition {
	if runes := []rune(key); len(runes) == 1 {
		if d, ok := r.shorts[runes[0]]; ok {
			return d
		}
	}
	if d, ok := r.longs[key]; ok {
		return d
	}
	for _, p := range r.positionals {
		if p.name == key {
			return p
		}
	}
	return nil
}

// Lookup returns the definition registered under key at this level.
func (r *Registry) Lookup(key string) (*Definition, bool) {
	d := r.find(strings.TrimLeft(key, "-"))
	return d, d != nil
}

// matchLong resolves a long key exactly or, when abbreviations are on, by
// unambiguous prefix. It returns the candidates when the prefix is ambiguous.
func (r *Registry) matchLong(name string) (*Definition, []string) {
	if d, ok := r.longs[name]; ok {
		return d, nil
	}
	if !r.cfg.Abbreviations {
		return nil, nil
	}
	cands := lo.Filter(lo.Keys(r.longs), func(k string, _ int) bool {
		return strings.HasPrefix(k, name)
	})
	switch len(cands) {
	case 0:
		return nil, nil
	case 1:
		return r.longs[cands[0]], nil
	}
	slices.Sort(cands)
	return nil, lo.Map(cands, func(k string, _ int) string { return "--" + k })
}

// nextPositional returns the first slot that can take another value.
func (r *Registry) nextPositional(st *State) *Definition {
	for _, p := range r.positionals {
		if _, hi := p.card.Bounds(); hi < 0 || st.Count(p) < hi {
			return p
		}
	}
	return nil
}

// exhausted reports whether every argument of a group reached its limit.
func (r *Registry) exhausted(st *State) bool {
	for _, d := range r.defs {
		if _, hi := d.card.Bounds(); hi < 0 || st.Count(d) < hi {
			return false
		}
	}
	return len(r.defs) > 0
}

func (r *Registry) Name() string          { return r.name }
func (r *Registry) Description() string   { return r.description }
func (r *Registry) Version() string       { return r.version }
func (r *Registry) Parent() *Registry     { return r.parent }
func (r *Registry) Config() config.Config { return r.cfg }

// Intro returns the definition a group or sub-command is entered through.
func (r *Registry) Intro() *Definition { return r.intro }

// Definitions returns every definition in declaration order.
func (r *Registry) Definitions() []*Definition { return slices.Clone(r.defs) }

// Options returns the keyed definitions, including groups.
func (r *Registry) Options() []*Definition {
	return lo.Filter(r.defs, func(d *Definition, _ int) bool { return !d.positional && !d.command })
}

// PositionalSlots returns the positional definitions in order.
func (r *Registry) PositionalSlots() []*Definition { return slices.Clone(r.positionals) }

// Commands returns the sub-command definitions in declaration order.
func (r *Registry) Commands() []*Definition {
	return lo.Filter(r.defs, func(d *Definition, _ int) bool { return d.command })
}

// ConstraintDescriptions describes the set constraints of this level.
func (r *Registry) ConstraintDescriptions() []string {
	return lo.Map(r.constraints, func(c *constraint, _ int) string { return c.String() })
}
