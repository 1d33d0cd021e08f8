package schema

// JSONSchema renders the constraint set as a JSON Schema document for the
// capability catalog.
func (s Schema) JSONSchema() map[string]interface{} {
	switch s.Kind {
	case KindObject:
		properties := make(map[string]interface{}, len(s.Fields))
		required := make([]string, 0, len(s.Fields))
		for _, field := range s.Fields {
			properties[field.Name] = field.JSONSchema()
			if field.Required {
				required = append(required, field.Name)
			}
		}
		doc := map[string]interface{}{
			"type":                 "object",
			"properties":           properties,
			"additionalProperties": s.Open,
		}
		if len(required) > 0 {
			doc["required"] = required
		}
		return doc
	case KindArray:
		doc := map[string]interface{}{"type": "array"}
		if s.Items != nil {
			doc["items"] = s.Items.JSONSchema()
		}
		return doc
	case KindText:
		return map[string]interface{}{"type": "string"}
	default:
		return map[string]interface{}{}
	}
}

// JSONSchema renders a single field as a JSON Schema property
func (f Field) JSONSchema() map[string]interface{} {
	prop := make(map[string]interface{})
	if f.Type != TypeAny {
		prop["type"] = string(f.Type)
	}
	if f.Description != "" {
		prop["description"] = f.Description
	}
	if f.Format != FormatNone {
		prop["format"] = string(f.Format)
	}
	if len(f.Enum) > 0 {
		prop["enum"] = f.Enum
	}
	if f.Default != nil {
		prop["default"] = f.Default
	}
	if f.Min != nil {
		prop["minimum"] = *f.Min
	}
	if f.Max != nil {
		prop["maximum"] = *f.Max
	}
	if f.NonEmpty {
		if f.Type == TypeArray {
			prop["minItems"] = 1
		} else {
			prop["minLength"] = 1
		}
	}
	if f.Type == TypeArray && f.Items != TypeAny {
		prop["items"] = map[string]interface{}{"type": string(f.Items)}
	}
	return prop
}
