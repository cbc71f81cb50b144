package params

import (
	"reflect"
	"time"

	"cloud.google.com/go/civil"
)

// Keys whose values denote a calendar date (YYYY-MM-DD).
var dateKeys = map[string]bool{
	"due_date":      true,
	"deadline_date": true,
}

// Keys whose values denote a point in time (RFC3339).
var timestampKeys = map[string]bool{
	"due_datetime": true,
	"since":        true,
	"until":        true,
}

// Normalize returns a copy of in holding only present values. Absent
// Optionals, nil values and nil pointers, slices or maps are dropped.
// Date-keyed strings in YYYY-MM-DD form become civil.Date and
// timestamp-keyed RFC3339 strings become time.Time; anything that does not
// parse is passed through unchanged. Normalize is idempotent.
func Normalize(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		v, ok := present(v)
		if !ok {
			continue
		}
		switch {
		case dateKeys[k]:
			v = coerceDate(v)
		case timestampKeys[k]:
			v = coerceTimestamp(v)
		}
		out[k] = v
	}
	return out
}

func present(v any) (any, bool) {
	if m, ok := v.(maybe); ok {
		inner, set := m.unwrap()
		if !set {
			return nil, false
		}
		v = inner
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
	}
	return v, true
}

func coerceDate(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return s
	}
	return d
}

func coerceTimestamp(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return s
	}
	return t
}

// DateText renders a normalized date value as YYYY-MM-DD. Strings that are
// not dates are returned as they are.
func DateText(v any) string {
	switch val := v.(type) {
	case civil.Date:
		return val.String()
	case time.Time:
		return val.Format(time.DateOnly)
	case string:
		if d, err := civil.ParseDate(val); err == nil {
			return d.String()
		}
		if t, err := time.Parse(time.RFC3339Nano, val); err == nil {
			return t.Format(time.DateOnly)
		}
		return val
	default:
		return ""
	}
}
