package apijson

// Property retrieves doc's top-level field name, asserting it to T. A
// missing field yields a *MissingFieldError carrying the field name, the
// line number (0 outside NDJSON contexts) and the serialized document. A
// present field of the wrong dynamic type yields a *FieldTypeError.
func Property[T any](doc map[string]any, name string, line int) (T, error) {
	var zero T
	raw, ok := doc[name]
	if !ok {
		return zero, &MissingFieldError{Field: name, Line: line, Doc: marshalDoc(doc)}
	}
	v, ok := raw.(T)
	if !ok {
		return zero, &FieldTypeError{Field: name, Want: typeName[T](), Got: raw}
	}
	return v, nil
}

func typeName[T any]() string {
	var zero T
	switch any(zero).(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "value"
	}
}
