// Package schema declares tool input and output contracts as plain data.
//
// A Schema is a fixed set of per-field constraints (type, presence, default,
// enumeration, format, range). Validate applies it to an untyped argument
// map and yields typed Values or a ValidationError listing every offending
// field. Nothing here inspects Go types through reflection.
package schema

// Type is the JSON type a field accepts
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeAny     Type = ""
)

// Format is an additional predicate on string fields
type Format string

const (
	FormatNone Format = ""
	FormatUUID Format = "uuid"
	FormatIPv4 Format = "ipv4"
	FormatURI  Format = "uri"
)

// Kind is the top-level shape of a schema
type Kind string

const (
	KindObject Kind = "object"
	KindArray  Kind = "array"
	KindText   Kind = "text"
	KindAny    Kind = "any"
)

// Field is one constrained property of an object schema.
type Field struct {
	Name        string
	Type        Type
	Description string
	Required    bool
	Default     interface{}
	Enum        []string
	Format      Format
	NonEmpty    bool
	Min         *int64
	Max         *int64
	// Items is the element type of array fields
	Items Type
}

// Optional returns a copy of the field that may be omitted
func (f Field) Optional() Field {
	f.Required = false
	return f
}

// WithDefault returns an optional copy of the field that takes value when absent
func (f Field) WithDefault(value interface{}) Field {
	f.Required = false
	f.Default = value
	return f
}

// Between returns a copy of the field restricted to the inclusive range [min, max]
func (f Field) Between(min, max int64) Field {
	f.Min = &min
	f.Max = &max
	return f
}

// Schema is a statically defined constraint set.
type Schema struct {
	Kind   Kind
	Fields []Field
	// Items describes array elements for KindArray
	Items *Schema
	// Open keeps keys not listed in Fields. Input schemas are closed and
	// drop unknown keys; output schemas are usually open.
	Open bool
}

// Object builds a closed object schema from fields
func Object(fields ...Field) Schema {
	return Schema{Kind: KindObject, Fields: fields}
}

// OpenObject builds an object schema that tolerates extra keys
func OpenObject(fields ...Field) Schema {
	return Schema{Kind: KindObject, Fields: fields, Open: true}
}

// Array builds a schema for a list whose elements satisfy items
func Array(items Schema) Schema {
	return Schema{Kind: KindArray, Items: &items}
}

// Text is a free-form scalar payload
func Text() Schema {
	return Schema{Kind: KindText}
}

// Any accepts every value
func Any() Schema {
	return Schema{Kind: KindAny}
}

// Field returns the named field and whether it exists
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// String declares a required string field
func String(name, description string) Field {
	return Field{Name: name, Type: TypeString, Description: description, Required: true}
}

// NonEmptyString declares a required string that may not be blank
func NonEmptyString(name, description string) Field {
	f := String(name, description)
	f.NonEmpty = true
	return f
}

// UUID declares a required string in canonical 8-4-4-4-12 form
func UUID(name, description string) Field {
	f := NonEmptyString(name, description)
	f.Format = FormatUUID
	return f
}

// IPv4 declares a required dotted-quad IPv4 address
func IPv4(name, description string) Field {
	f := NonEmptyString(name, description)
	f.Format = FormatIPv4
	return f
}

// URL declares a required absolute http(s) URL
func URL(name, description string) Field {
	f := NonEmptyString(name, description)
	f.Format = FormatURI
	return f
}

// Port declares a TCP port in [1, 65535]
func Port(name, description string) Field {
	return Integer(name, description).Between(1, 65535)
}

// Integer declares a required integer field
func Integer(name, description string) Field {
	return Field{Name: name, Type: TypeInteger, Description: description, Required: true}
}

// Number declares a required numeric field
func Number(name, description string) Field {
	return Field{Name: name, Type: TypeNumber, Description: description, Required: true}
}

// Boolean declares a required boolean field
func Boolean(name, description string) Field {
	return Field{Name: name, Type: TypeBoolean, Description: description, Required: true}
}

// Enum declares a required string restricted to values
func Enum(name, description string, values ...string) Field {
	f := String(name, description)
	f.Enum = values
	return f
}

// StringList declares a required list of strings
func StringList(name, description string) Field {
	return Field{Name: name, Type: TypeArray, Items: TypeString, Description: description, Required: true}
}

// ObjectField declares a required nested mapping with no constraints on its keys
func ObjectField(name, description string) Field {
	return Field{Name: name, Type: TypeObject, Description: description, Required: true}
}

// AnyField declares a required field of any type
func AnyField(name, description string) Field {
	return Field{Name: name, Type: TypeAny, Description: description, Required: true}
}
