package gmocoin

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v3"

	"gmocoin/pkg/core"
)

// fieldReader pulls typed values out of a generic JSON tree. The first
// failure is latched with its field path; later reads return zero values.
type fieldReader struct {
	exchange string
	loc      *time.Location
	err      error
}

func (r *fieldReader) fail(path, format string, args ...any) {
	if r.err == nil {
		r.err = core.NewDecodeError(r.exchange, path, fmt.Sprintf(format, args...))
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "bool"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

// field returns obj[key]; a missing key is a failure, a null value is not.
func (r *fieldReader) field(obj map[string]any, path, key string) (any, string, bool) {
	p := join(path, key)
	if r.err != nil {
		return nil, p, false
	}
	v, ok := obj[key]
	if !ok {
		r.fail(p, "missing field")
		return nil, p, false
	}
	return v, p, true
}

func (r *fieldReader) object(v any, path string) map[string]any {
	if r.err != nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		r.fail(path, "expected object, got %s", describe(v))
		return nil
	}
	return m
}

func (r *fieldReader) array(v any, path string) []any {
	if r.err != nil {
		return nil
	}
	a, ok := v.([]any)
	if !ok {
		r.fail(path, "expected array, got %s", describe(v))
		return nil
	}
	return a
}

// optionalArray treats a missing or null key as an empty list.
func (r *fieldReader) optionalArray(obj map[string]any, path, key string) []any {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	return r.array(v, join(path, key))
}

func (r *fieldReader) str(obj map[string]any, path, key string) string {
	v, p, ok := r.field(obj, path, key)
	if !ok {
		return ""
	}
	s, isStr := v.(string)
	if !isStr {
		r.fail(p, "expected string, got %s", describe(v))
	}
	return s
}

func (r *fieldReader) symbol(obj map[string]any, path, key string) core.Symbol {
	s := r.str(obj, path, key)
	if r.err == nil && s == "" {
		r.fail(join(path, key), "empty symbol")
	}
	return core.Symbol(s)
}

func (r *fieldReader) decimal(obj map[string]any, path, key string) apd.Decimal {
	v, p, ok := r.field(obj, path, key)
	if !ok {
		return apd.Decimal{}
	}
	return r.parseDecimal(v, p)
}

// decimalOrZero reads a decimal that the exchange sends as null when the
// instrument has no value. The key itself must be present.
func (r *fieldReader) decimalOrZero(obj map[string]any, path, key string) apd.Decimal {
	v, p, ok := r.field(obj, path, key)
	if !ok || v == nil {
		return apd.Decimal{}
	}
	return r.parseDecimal(v, p)
}

func (r *fieldReader) parseDecimal(v any, path string) apd.Decimal {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case json.Number:
		s = x.String()
	default:
		r.fail(path, "expected decimal, got %s", describe(v))
		return apd.Decimal{}
	}

	var d apd.Decimal
	if _, _, err := apd.BaseContext.SetString(&d, s); err != nil {
		r.fail(path, "invalid decimal %q", s)
		return apd.Decimal{}
	}
	if d.Form != apd.Finite {
		r.fail(path, "non-finite decimal %q", s)
		return apd.Decimal{}
	}
	return d
}

// integer accepts a JSON number or a numeric string.
func (r *fieldReader) integer(obj map[string]any, path, key string) int64 {
	v, p, ok := r.field(obj, path, key)
	if !ok {
		return 0
	}
	return r.parseInteger(v, p)
}

func (r *fieldReader) parseInteger(v any, path string) int64 {
	var s string
	switch x := v.(type) {
	case json.Number:
		s = x.String()
	case string:
		s = x
	default:
		r.fail(path, "expected integer, got %s", describe(v))
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		r.fail(path, "invalid integer %q", s)
		return 0
	}
	return n
}

func (r *fieldReader) timestamp(obj map[string]any, path, key string) time.Time {
	s := r.str(obj, path, key)
	if r.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		r.fail(join(path, key), "invalid timestamp %q", s)
		return time.Time{}
	}
	return t.In(r.loc)
}

// enumField reads a closed set of wire strings through parse.
func enumField[T any](r *fieldReader, obj map[string]any, path, key string, parse func(string) (T, bool)) T {
	var zero T
	s := r.str(obj, path, key)
	if r.err != nil {
		return zero
	}
	v, ok := parse(s)
	if !ok {
		r.fail(join(path, key), "unknown value %q", s)
		return zero
	}
	return v
}
