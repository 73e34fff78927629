package apijson

import (
	"encoding/json"
	"fmt"
)

// SyntaxError reports input that is not valid JSON. It always carries the
// offending raw text so callers can diagnose what the daemon actually sent.
type SyntaxError struct {
	Input string
	Line  int // 1-based line number within an NDJSON stream, 0 for whole-body parses
	Err   error
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("apijson: invalid JSON on line %d: %v\nInput JSON:\n%s", e.Line, e.Err, e.Input)
	}
	return fmt.Sprintf("apijson: invalid JSON: %v\nInput JSON:\n%s", e.Err, e.Input)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// MissingFieldError reports a syntactically valid JSON object that lacks an
// expected field.
type MissingFieldError struct {
	Field string
	Line  int // 1-based line number for NDJSON contexts, 0 otherwise
	Doc   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("apijson: valid JSON without the %q property on line %d:\n%s", e.Field, e.Line, e.Doc)
}

// FieldTypeError reports a field whose dynamic type does not match what the
// caller requested. This is a caller contract violation, not a daemon bug.
type FieldTypeError struct {
	Field string
	Want  string
	Got   any
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("apijson: property %q is %T, want %s", e.Field, e.Got, e.Want)
}

// NotFoundError reports a search reduction that exhausted the stream without
// a match. Body holds the full accumulated response text for diagnosis.
type NotFoundError struct {
	Key  string
	Body string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("apijson: no record for %q in response: %s", e.Key, e.Body)
}

func marshalDoc(doc map[string]any) string {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Sprintf("%v", doc)
	}
	return string(data)
}
