// Package argot is a command line argument library for Go. Arguments are
// described either declaratively, with struct tags and marker types, or
// programmatically on a Registry, and are then evaluated against an
// argument vector.
//
// It supports short and long keys, abbreviated long keys, short runs
// (-xvf), positional arguments, sub-commands, groups of keyed arguments,
// value checks and formatters, cardinality limits, cross-argument
// constraints, inversion with ! and ( ), and automatic help and version
// output.
//
// Errors carry a Kind from the errors package so callers can tell
// definition mistakes from bad user input.
package argot

//go:generate gomarkdoc ./ -o docs/argot.md
