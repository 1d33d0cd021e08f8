package schema

// Values is validated tool input. Every key present satisfies the
// corresponding field constraint, and defaults have been applied.
type Values map[string]interface{}

// Has reports whether name was supplied or defaulted
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// String returns the named string value, or "" when absent
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int returns the named integer value, or 0 when absent
func (v Values) Int(name string) int {
	n, _ := v[name].(int)
	return n
}

// Bool returns the named boolean value, or false when absent
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Strings returns the named string list, or nil when absent
func (v Values) Strings(name string) []string {
	s, _ := v[name].([]string)
	return s
}

// Pick copies the named entries that are present into a request body.
// Absent names are skipped so the backend applies its own defaults.
func (v Values) Pick(names ...string) map[string]interface{} {
	body := make(map[string]interface{}, len(names))
	for _, name := range names {
		if value, ok := v[name]; ok {
			body[name] = value
		}
	}
	return body
}

// Except copies every entry except the named ones
func (v Values) Except(names ...string) map[string]interface{} {
	body := make(map[string]interface{}, len(v))
	for key, value := range v {
		body[key] = value
	}
	for _, name := range names {
		delete(body, name)
	}
	return body
}
