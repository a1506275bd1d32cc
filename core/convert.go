package core

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"time"

	cerrors "github.com/cockroachdb/errors"
	"github.com/spf13/cast"
)

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// convertible reports whether raw strings can be converted into t.
func convertible(t reflect.Type) bool {
	if t == durationType || reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// convertValue parses raw into a new value of type t.
func convertValue(t reflect.Type, raw string) (reflect.Value, error) {
	out := reflect.New(t).Elem()

	if t == durationType {
		d, err := cast.ToDurationE(raw)
		if err != nil {
			return out, err
		}
		out.SetInt(int64(d))
		return out, nil
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		u := out.Addr().Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(raw)); err != nil {
			return out, err
		}
		return out, nil
	}

	switch t.Kind() {
	case reflect.String:
		out.SetString(raw)
	case reflect.Bool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return out, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(decimal(raw))
		if err != nil {
			return out, err
		}
		if out.OverflowInt(n) {
			return out, cerrors.Newf("%s overflows %s", raw, t)
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if strings.HasPrefix(strings.TrimSpace(raw), "-") {
			return out, cerrors.Newf("%s is negative, %s expected", raw, t)
		}
		n, err := cast.ToUint64E(decimal(raw))
		if err != nil {
			return out, err
		}
		if out.OverflowUint(n) {
			return out, cerrors.Newf("%s overflows %s", raw, t)
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(strings.TrimSpace(raw))
		if err != nil {
			return out, err
		}
		if out.OverflowFloat(f) {
			return out, cerrors.Newf("%s overflows %s", raw, t)
		}
		out.SetFloat(f)
	default:
		return out, cerrors.Newf("unsupported element type %s", t)
	}
	return out, nil
}

// decimal drops the leading zeros of a plain decimal integer so "010" is
// ten rather than octal. Prefixed forms (0x, 0o, 0b) are left to cast.
func decimal(raw string) string {
	s := strings.TrimSpace(raw)
	sign, digits := "", s
	if strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		sign, digits = digits[:1], digits[1:]
	}
	if len(digits) < 2 || digits[0] != '0' || strings.Trim(digits, "0123456789_") != "" {
		return s
	}
	if digits = strings.TrimLeft(digits, "0"); digits == "" {
		digits = "0"
	}
	return sign + digits
}

// ordered reports whether values of t can be compared with less.
func ordered(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// less compares two values of the same ordered kind.
func less(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.String:
		return a.String() < b.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() < b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return a.Uint() < b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() < b.Float()
	}
	panic(fmt.Sprintf("less: unordered kind %s", a.Kind()))
}
