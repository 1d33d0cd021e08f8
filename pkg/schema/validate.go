package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"net/netip"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"mcp-deployment-service/pkg/errors"
)

// Validate applies an object schema to raw tool arguments. Absent optional
// fields receive their defaults, unknown keys are dropped unless the schema is
// open, and every violation is reported at once.
func (s Schema) Validate(raw map[string]interface{}) (Values, error) {
	if s.Kind == KindAny {
		return Values(copyMap(raw)), nil
	}
	if s.Kind != KindObject {
		return nil, errors.NewValidationError(errors.FieldViolation{
			Reason: fmt.Sprintf("%s schema cannot validate tool arguments", s.Kind),
		})
	}

	values := make(Values, len(s.Fields))
	var violations []errors.FieldViolation

	for _, field := range s.Fields {
		value, present := raw[field.Name]
		if !present || value == nil {
			if field.Default != nil {
				values[field.Name] = field.Default
			} else if field.Required {
				violations = append(violations, errors.FieldViolation{Field: field.Name, Reason: "is required"})
			}
			continue
		}

		coerced, fieldViolations := field.coerce(field.Name, value)
		if len(fieldViolations) > 0 {
			violations = append(violations, fieldViolations...)
			continue
		}
		values[field.Name] = coerced
	}

	if s.Open {
		for key, value := range raw {
			if _, declared := s.Field(key); !declared {
				values[key] = value
			}
		}
	}

	if len(violations) > 0 {
		return nil, errors.NewValidationError(violations...)
	}
	return values, nil
}

// Check verifies an already decoded value, typically a tool's output,
// against the schema. It never coerces and returns nil when the value conforms.
func (s Schema) Check(value interface{}) []errors.FieldViolation {
	return s.check("", value)
}

func (s Schema) check(path string, value interface{}) []errors.FieldViolation {
	switch s.Kind {
	case KindAny, "":
		return nil
	case KindText:
		switch value.(type) {
		case map[string]interface{}, []interface{}:
			return []errors.FieldViolation{{Field: path, Reason: "expected text, got structured data"}}
		}
		return nil
	case KindArray:
		items, ok := value.([]interface{})
		if !ok {
			return []errors.FieldViolation{{Field: path, Reason: "expected array, got " + jsonTypeName(value)}}
		}
		if s.Items == nil {
			return nil
		}
		var violations []errors.FieldViolation
		for i, item := range items {
			violations = append(violations, s.Items.check(fmt.Sprintf("%s[%d]", path, i), item)...)
		}
		return violations
	case KindObject:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return []errors.FieldViolation{{Field: path, Reason: "expected object, got " + jsonTypeName(value)}}
		}
		var violations []errors.FieldViolation
		for _, field := range s.Fields {
			fieldPath := joinPath(path, field.Name)
			v, present := obj[field.Name]
			if !present || v == nil {
				if field.Required {
					violations = append(violations, errors.FieldViolation{Field: fieldPath, Reason: "is required"})
				}
				continue
			}
			_, fieldViolations := field.coerceStrict(fieldPath, v)
			violations = append(violations, fieldViolations...)
		}
		if !s.Open {
			for _, key := range sortedKeys(obj) {
				if _, declared := s.Field(key); !declared {
					violations = append(violations, errors.FieldViolation{Field: joinPath(path, key), Reason: "is not allowed"})
				}
			}
		}
		return violations
	default:
		return []errors.FieldViolation{{Field: path, Reason: fmt.Sprintf("unknown schema kind %q", s.Kind)}}
	}
}

// coerce converts an input value to the field's Go representation.
func (f Field) coerce(path string, value interface{}) (interface{}, []errors.FieldViolation) {
	return f.convert(path, value, true)
}

// coerceStrict checks a value without accepting string encodings of numbers or booleans.
func (f Field) coerceStrict(path string, value interface{}) (interface{}, []errors.FieldViolation) {
	return f.convert(path, value, false)
}

func (f Field) convert(path string, value interface{}, lenient bool) (interface{}, []errors.FieldViolation) {
	fail := func(reason string) (interface{}, []errors.FieldViolation) {
		return nil, []errors.FieldViolation{{Field: path, Reason: reason}}
	}

	switch f.Type {
	case TypeAny:
		return value, nil

	case TypeString:
		s, ok := value.(string)
		if !ok {
			return fail("must be a string")
		}
		if f.NonEmpty && strings.TrimSpace(s) == "" {
			return fail("must not be empty")
		}
		if reason := checkFormat(f.Format, s); reason != "" {
			return fail(reason)
		}
		if len(f.Enum) > 0 && !contains(f.Enum, s) {
			return fail("must be one of: " + strings.Join(f.Enum, ", "))
		}
		return s, nil

	case TypeInteger:
		n, ok := toInt(value, lenient)
		if !ok {
			return fail("must be an integer")
		}
		if f.Min != nil && int64(n) < *f.Min {
			return fail(fmt.Sprintf("must be at least %d", *f.Min))
		}
		if f.Max != nil && int64(n) > *f.Max {
			return fail(fmt.Sprintf("must be at most %d", *f.Max))
		}
		return n, nil

	case TypeNumber:
		n, ok := toFloat(value, lenient)
		if !ok {
			return fail("must be a number")
		}
		return n, nil

	case TypeBoolean:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			if lenient && (v == "true" || v == "false") {
				return v == "true", nil
			}
		}
		return fail("must be a boolean")

	case TypeObject:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return fail("must be an object")
		}
		return obj, nil

	case TypeArray:
		list, ok := value.([]interface{})
		if !ok {
			switch v := value.(type) {
			case []string:
				return v, nil
			case string:
				if lenient && f.Items == TypeString {
					list, ok = splitList(v), true
				}
			}
			if !ok {
				return fail("must be an array")
			}
		}
		if f.NonEmpty && len(list) == 0 {
			return fail("must not be empty")
		}
		if f.Items != TypeString {
			return list, nil
		}
		out := make([]string, 0, len(list))
		var violations []errors.FieldViolation
		for i, item := range list {
			s, isString := item.(string)
			if !isString {
				violations = append(violations, errors.FieldViolation{Field: fmt.Sprintf("%s[%d]", path, i), Reason: "must be a string"})
				continue
			}
			out = append(out, s)
		}
		if len(violations) > 0 {
			return nil, violations
		}
		return out, nil

	default:
		return fail(fmt.Sprintf("has unsupported type %q", f.Type))
	}
}

// splitList turns "a, b,,c" into [a b c]
func splitList(s string) []interface{} {
	var out []interface{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func checkFormat(format Format, s string) string {
	switch format {
	case FormatUUID:
		if len(s) != 36 {
			return "must be a UUID"
		}
		if _, err := uuid.Parse(s); err != nil {
			return "must be a UUID"
		}
	case FormatIPv4:
		addr, err := netip.ParseAddr(s)
		if err != nil || !addr.Is4() {
			return "must be an IPv4 address"
		}
	case FormatURI:
		u, err := url.ParseRequestURI(s)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return "must be an http or https URL"
		}
	}
	return ""
}

// floatToInt accepts integral floats that fit in an int64
func floatToInt(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	if v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, false
	}
	return int(v), true
}

func toInt(value interface{}, lenient bool) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return floatToInt(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case string:
		if !lenient {
			return 0, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

func toFloat(value interface{}, lenient bool) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	case string:
		if !lenient {
			return 0, false
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	}
	return 0, false
}

func jsonTypeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, json.Number:
		return "number"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
