package common

import (
	"reflect"
	"strings"
)

// tagKeys are the struct tag keys understood on argument sub-structs.
var tagKeys = []string{
	"short", "long", "desc", "required", "default", "sep", "values",
	"min", "max", "hidden", "deprecated", "unique", "sort", "multi", "name",
}

// GetTagsFromEmbedded retrieves tags from embedded structs in the target struct.
func GetTagsFromEmbedded(t reflect.Type, fieldName string) map[string]string {
	tags := make(map[string]string)

	for i := range t.NumField() {
		field := t.Field(i)
		// If this is an anonymous embedded meta-field, derive tag information from its type.
		if field.Anonymous {
			switch field.Type.Name() {
			case "ShortTag":
				tags["short"] = strings.ToLower(string(fieldName[0]))
			case "LongTag":
				tags["long"] = strings.ToLower(fieldName)
			case "Required":
				tags["required"] = "true"
			case "Desc":
				if val := field.Tag.Get("desc"); val != "" {
					tags["desc"] = val
				}
			case "Subcommand":
				tags["subcmd"] = "true"
				if val := field.Tag.Get("name"); val != "" {
					tags["name"] = val
				}
				if val := field.Tag.Get("desc"); val != "" {
					tags["desc"] = val
				}
				if val := field.Tag.Get("hidden"); val != "" {
					tags["hidden"] = val
				}
			default:
				for _, key := range tagKeys {
					if val := field.Tag.Get(key); val != "" {
						tags[key] = val
					}
				}
			}
			continue
		}

		// Also allow metadata to be provided directly on the Value field.
		if field.Name == "Value" {
			for _, key := range tagKeys {
				if val := field.Tag.Get(key); val != "" {
					tags[key] = val
				}
			}
		}
	}

	return tags
}

// FieldTags reads the known tag keys set directly on a field.
func FieldTags(f reflect.StructField) map[string]string {
	tags := make(map[string]string)
	for _, key := range tagKeys {
		if val := f.Tag.Get(key); val != "" {
			tags[key] = val
		}
	}
	return tags
}

// IsStructPtr checks if the provided value is a pointer to a struct.
func IsStructPtr(v any) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct
}

// GetStructType returns the reflect.Type of the underlying struct pointer.
func GetStructType(v any) reflect.Type {
	return reflect.TypeOf(v).Elem()
}

// IsMetaField reports whether a root-level field is one of the marker types
// describing the tool itself rather than an argument.
func IsMetaField(f reflect.StructField) bool {
	switch f.Type.Name() {
	case "Meta", "Version", "Help", "Desc":
		return f.Anonymous
	}
	return false
}

// MetaTag returns the first non-empty value of key found on the root's
// marker fields.
func MetaTag(t reflect.Type, key string) string {
	for i := range t.NumField() {
		f := t.Field(i)
		if !IsMetaField(f) {
			continue
		}
		if val := f.Tag.Get(key); val != "" {
			return val
		}
	}
	return ""
}

// HasMarker reports whether the root struct embeds the named marker type.
func HasMarker(t reflect.Type, name string) bool {
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Anonymous && f.Type.Name() == name {
			return true
		}
	}
	return false
}

// IsTrue interprets a boolean struct tag.
func IsTrue(tag string) bool {
	switch strings.ToLower(tag) {
	case "true", "yes", "1":
		return true
	}
	return false
}
