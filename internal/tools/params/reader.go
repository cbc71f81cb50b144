package params

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Reader extracts typed parameters from MCP call arguments. The first
// conversion error is kept and reported by Err; later calls still return
// absent values so callers can check once at the end.
type Reader struct {
	args map[string]any
	err  error
}

// NewReader wraps the raw arguments of a tool call.
func NewReader(args map[string]any) *Reader {
	if args == nil {
		args = map[string]any{}
	}
	return &Reader{args: args}
}

// Err returns the first error encountered.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Has reports whether key was supplied with a non-null value.
func (r *Reader) Has(key string) bool {
	v, ok := r.args[key]
	return ok && v != nil
}

// String returns a string parameter. Whole JSON numbers are accepted and
// rendered without a fraction, since ids are sometimes sent as numbers.
func (r *Reader) String(key string) Optional[string] {
	v, ok := r.args[key]
	if !ok || v == nil {
		return None[string]()
	}
	switch val := v.(type) {
	case string:
		return Some(val)
	case float64:
		if val == math.Trunc(val) {
			return Some(strconv.FormatFloat(val, 'f', -1, 64))
		}
	case json.Number:
		return Some(val.String())
	}
	r.fail(fmt.Errorf("%s must be a string", key))
	return None[string]()
}

// RequiredString returns a non-empty string parameter or records an error.
func (r *Reader) RequiredString(key string) string {
	s, ok := r.String(key).Get()
	if !ok || strings.TrimSpace(s) == "" {
		r.fail(fmt.Errorf("%s is required", key))
		return ""
	}
	return s
}

// Int returns an integer parameter. Fractions and values outside the int
// range are errors.
func (r *Reader) Int(key string) Optional[int] {
	v, ok := r.args[key]
	if !ok || v == nil {
		return None[int]()
	}
	var (
		n     int64
		valid bool
	)
	switch val := v.(type) {
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, hence the strict bound
		if val == math.Trunc(val) && val >= math.MinInt64 && val < math.MaxInt64 {
			n, valid = int64(val), true
		}
	case int:
		n, valid = int64(val), true
	case int64:
		n, valid = val, true
	case json.Number:
		parsed, err := val.Int64()
		n, valid = parsed, err == nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		n, valid = parsed, err == nil
	}
	if !valid || n < math.MinInt || n > math.MaxInt {
		r.fail(fmt.Errorf("%s must be an integer", key))
		return None[int]()
	}
	return Some(int(n))
}

// Limit returns the "limit" parameter, 0 when absent. Negative values are
// errors rather than "no limit".
func (r *Reader) Limit() int {
	n := r.Int("limit").OrElse(0)
	if n < 0 {
		r.fail(fmt.Errorf("limit must not be negative, got %d", n))
		return 0
	}
	return n
}

// Bool returns a boolean parameter. "true"/"false" strings are accepted.
func (r *Reader) Bool(key string) Optional[bool] {
	v, ok := r.args[key]
	if !ok || v == nil {
		return None[bool]()
	}
	switch val := v.(type) {
	case bool:
		return Some(val)
	case string:
		if b, err := strconv.ParseBool(val); err == nil {
			return Some(b)
		}
	}
	r.fail(fmt.Errorf("%s must be a boolean", key))
	return None[bool]()
}

// StringList returns a list parameter given as an array of strings, a
// JSON-encoded array or a single string.
func (r *Reader) StringList(key string) Optional[[]string] {
	v, ok := r.args[key]
	if !ok || v == nil {
		return None[[]string]()
	}
	list, err := ParseStringOrArray(v, key)
	if err != nil {
		r.fail(err)
		return None[[]string]()
	}
	return Some(list)
}

// Enum returns a string parameter restricted to choices.
func (r *Reader) Enum(key string, choices ...string) Optional[string] {
	s, ok := r.String(key).Get()
	if !ok {
		return None[string]()
	}
	if !slices.Contains(choices, s) {
		r.fail(fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(choices, ", "), s))
		return None[string]()
	}
	return Some(s)
}

// ParseStringOrArray parses a parameter that can be either a single string
// or an array of strings. An empty array is a valid list (it clears labels,
// for example); empty elements are not.
func ParseStringOrArray(param any, paramName string) ([]string, error) {
	switch v := param.(type) {
	case []string:
		return v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "[") {
			var list []string
			if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
				return nil, fmt.Errorf("%s must be a JSON array of strings: %w", paramName, err)
			}
			return list, nil
		}
		if trimmed == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		return []string{v}, nil
	case []any:
		result := make([]string, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}
