package core

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/pflag"

	clierr "github.com/chriso345/argot/errors"
	"github.com/chriso345/argot/internal/common"
)

var pflagValueType = reflect.TypeOf((*pflag.Value)(nil)).Elem()

// FromStruct builds a registry from a tagged struct pointer.
//
// Every exported sub-struct field with a Value field becomes an argument.
// Its keys and policies come from struct tags on the Value field or on
// embedded markers (Meta, ShortTag, LongTag, Required, Desc). A field
// without a short or long key is positional. Sub-structs embedding
// Subcommand become sub-commands; their own fields are parsed recursively.
func FromStruct(target any, opts ...Option) (*Registry, error) {
	if !common.IsStructPtr(target) {
		return nil, clierr.New(clierr.InvalidDefinition, "", "invalid type: must pass pointer to struct")
	}

	t := common.GetStructType(target)
	name := common.MetaTag(t, "name")
	if name == "" {
		name = filepath.Base(os.Args[0])
	}

	version, err := structVersion(t)
	if err != nil {
		return nil, err
	}

	var meta []Option
	if common.HasMarker(t, "Help") {
		meta = append(meta, WithHelp())
	}
	if version != "" {
		meta = append(meta, WithVersion(version))
	}
	if desc := common.MetaTag(t, "desc"); desc != "" {
		meta = append(meta, WithDescription(desc))
	}

	r := New(name, append(meta, opts...)...)
	if err := r.reservedErr(); err != nil {
		return nil, err
	}
	if err := r.fromFields(reflect.ValueOf(target).Elem()); err != nil {
		return nil, err
	}
	return r, nil
}

// ParseArgs builds a registry from target and evaluates argv against it.
// argv starts with the program name.
func ParseArgs(target any, argv []string, opts ...Option) error {
	r, err := FromStruct(target, opts...)
	if err != nil {
		return err
	}
	_, err = r.Evaluate(argv)
	return err
}

// Parse evaluates os.Args into target.
func Parse(target any, opts ...Option) error {
	return ParseArgs(target, os.Args, opts...)
}

// structVersion picks the version from the Meta or Version marker tags,
// falling back to the build info when only the marker is present.
func structVersion(t reflect.Type) (string, error) {
	var fromMeta, fromMarker string
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		switch f.Type.Name() {
		case "Meta":
			fromMeta = f.Tag.Get("version")
		case "Version":
			fromMarker = f.Tag.Get("version")
		}
	}
	if fromMeta != "" && fromMarker != "" && fromMeta != fromMarker {
		return "", clierr.New(clierr.InvalidDefinition, "", "conflicting version tags: both Meta and Version specify a version")
	}

	version := fromMarker
	if version == "" {
		version = fromMeta
	}
	if version == "" && common.HasMarker(t, "Version") {
		if inferred, ok := common.InferVersion(); ok {
			version = inferred
		} else {
			version = "(unknown)"
		}
	}
	return version, nil
}

func (r *Registry) fromFields(v reflect.Value) error {
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)

		// Skip meta fields like Meta, Version, Help
		if common.IsMetaField(field) || field.Anonymous || !field.IsExported() {
			continue
		}
		if field.Type.Kind() != reflect.Struct {
			if err := r.inlineField(field, v.Field(i)); err != nil {
				return err
			}
			continue
		}

		subVal := v.Field(i)
		tags := common.GetTagsFromEmbedded(field.Type, field.Name)

		if tags["subcmd"] == "true" {
			if err := r.subcommandField(field, subVal, tags); err != nil {
				return err
			}
			continue
		}

		valField := subVal.FieldByName("Value")
		if !valField.IsValid() || !valField.CanSet() {
			return clierr.Newf(clierr.InvalidDefinition, field.Name, "argument struct needs a settable Value field")
		}

		dest, err := r.fieldDestination(valField)
		if err != nil {
			return clierr.Wrap(clierr.InvalidDefinition, field.Name, "", err)
		}
		opts, err := r.fieldOptions(dest, tags)
		if err != nil {
			return clierr.Wrap(clierr.InvalidDefinition, field.Name, "", err)
		}

		// Handle positional arguments (no short or long tag)
		if tags["short"] == "" && tags["long"] == "" {
			_, err = r.Positional(strings.ToLower(field.Name), dest, opts...)
		} else {
			_, err = r.Define(tags["short"]+","+tags["long"], dest, opts...)
		}
		if err != nil {
			return err
		}

		for j := range field.Type.NumField() {
			inline := field.Type.Field(j)
			if inline.Name == "Value" || inline.Anonymous || !inline.IsExported() {
				continue
			}
			if err := r.inlineField(inline, subVal.Field(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// inlineField defines a primitive field carrying its own short or long key
// tag. An untagged field only receives its default.
func (r *Registry) inlineField(field reflect.StructField, fv reflect.Value) error {
	if field.Name == "Value" || !field.IsExported() {
		return nil
	}
	tags := common.FieldTags(field)
	if tags["short"] == "" && tags["long"] == "" {
		if def := tags["default"]; def != "" && fv.CanSet() {
			dest, err := r.fieldDestination(fv)
			if err != nil {
				return clierr.Wrap(clierr.InvalidDefinition, field.Name, "", err)
			}
			if err := applyDefault(dest, def, r.cfg.ListSeparator); err != nil {
				return clierr.Wrap(clierr.InvalidDefinition, field.Name, def, err)
			}
		}
		return nil
	}

	dest, err := r.fieldDestination(fv)
	if err != nil {
		return clierr.Wrap(clierr.InvalidDefinition, field.Name, "", err)
	}
	opts, err := r.fieldOptions(dest, tags)
	if err != nil {
		return clierr.Wrap(clierr.InvalidDefinition, field.Name, "", err)
	}
	_, err = r.Define(tags["short"]+","+tags["long"], dest, opts...)
	return err
}

func (r *Registry) subcommandField(field reflect.StructField, subVal reflect.Value, tags map[string]string) error {
	name := tags["name"]
	if name == "" {
		name = strings.ToLower(field.Name)
	}

	// A bool Value field reports whether the sub-command was selected.
	var sel *bool
	if f := subVal.FieldByName("Value"); f.IsValid() && f.CanSet() && f.Kind() == reflect.Bool {
		sel = f.Addr().Interface().(*bool)
	}

	var opts []DefOption
	if desc := tags["desc"]; desc != "" {
		opts = append(opts, Usage(desc))
	}
	if common.IsTrue(tags["hidden"]) {
		opts = append(opts, Hidden())
	}
	sub, err := r.Subcommand(name, sel, opts...)
	if err != nil {
		return err
	}
	return sub.fromFields(subVal)
}

// fieldDestination picks the destination for a Value field by its type.
// Maps split on the configured key/value separator.
func (r *Registry) fieldDestination(v reflect.Value) (Destination, error) {
	if v.Kind() != reflect.Pointer && reflect.PointerTo(v.Type()).Implements(pflagValueType) {
		return Value(v.Addr().Interface().(pflag.Value)), nil
	}

	var dest Destination
	switch v.Kind() {
	case reflect.Slice:
		dest = &sliceDest{v: v}
	case reflect.Map:
		dest = &mapDest{v: v, sep: r.cfg.KeyValueSeparator}
	case reflect.Pointer:
		dest = &optionalDest{v: v}
	default:
		dest = newScalar(v)
	}
	if err := dest.(validator).validate(); err != nil {
		return nil, err
	}
	return dest, nil
}

// fieldOptions turns struct tags into definition options. A default is
// applied to the destination right away.
func (r *Registry) fieldOptions(dest Destination, tags map[string]string) ([]DefOption, error) {
	var opts []DefOption
	if desc := tags["desc"]; desc != "" {
		opts = append(opts, Usage(desc))
	}
	if common.IsTrue(tags["required"]) {
		opts = append(opts, Mandatory())
	}
	if common.IsTrue(tags["hidden"]) {
		opts = append(opts, Hidden())
	}
	if common.IsTrue(tags["deprecated"]) {
		opts = append(opts, Deprecated())
	}
	if common.IsTrue(tags["unique"]) {
		opts = append(opts, Unique())
	}
	if common.IsTrue(tags["sort"]) {
		opts = append(opts, Sort())
	}
	if common.IsTrue(tags["multi"]) {
		opts = append(opts, MultiValue())
	}

	sep := r.cfg.ListSeparator
	if s := tags["sep"]; s != "" {
		sep = s
		opts = append(opts, ListSeparator(s))
	}

	elem := dest.ElemTypes()[0]
	if vals := tags["values"]; vals != "" {
		c := &enumCheck{}
		for raw := range strings.SplitSeq(vals, ",") {
			v, err := convertValue(elem, strings.TrimSpace(raw))
			if err != nil {
				return nil, err
			}
			c.allowed = append(c.allowed, v)
		}
		opts = append(opts, Checks(c))
	}
	if tags["min"] != "" || tags["max"] != "" {
		c := &boundCheck{}
		var err error
		if raw := tags["min"]; raw != "" {
			if c.lo, err = convertValue(elem, raw); err != nil {
				return nil, err
			}
		}
		if raw := tags["max"]; raw != "" {
			if c.hi, err = convertValue(elem, raw); err != nil {
				return nil, err
			}
		}
		opts = append(opts, Checks(c))
	}

	if def, ok := tags["default"]; ok && def != "" {
		if err := applyDefault(dest, def, sep); err != nil {
			return nil, err
		}
		opts = append(opts, ShowDefault())
		if dest.Capability().IsContainer() {
			opts = append(opts, ClearBeforeAssign())
		}
	}
	return opts, nil
}

// applyDefault stores def into dest, split on sep for containers.
func applyDefault(dest Destination, def, sep string) error {
	parts := []string{def}
	if dest.Capability().IsContainer() {
		parts = strings.Split(def, sep)
	}
	vals := make([]any, 0, len(parts))
	for _, raw := range parts {
		v, err := dest.Convert(0, raw)
		if err != nil {
			return err
		}
		vals = append(vals, v)
	}
	return dest.Store(vals)
}
