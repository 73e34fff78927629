// Package apijson reduces the daemon's JSON and NDJSON response bodies into
// single coherent values. A response is either one JSON document or a stream
// of newline-delimited JSON records; the reduction modes here fold the
// latter into arrays, keyed records, or a single searched-for value.
package apijson

import "encoding/json"

// ParseDocument parses data as exactly one JSON value. On failure the
// returned error is a *SyntaxError wrapping the parser's message together
// with the raw input.
func ParseDocument(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &SyntaxError{Input: string(data), Err: err}
	}
	return v, nil
}

// ParseObject parses data as one JSON object.
func ParseObject(data []byte) (map[string]any, error) {
	v, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &FieldTypeError{Field: "<document>", Want: "object", Got: v}
	}
	return obj, nil
}

// parseLine parses one NDJSON line into an object. line is 1-based.
func parseLine(text string, line int) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, &SyntaxError{Input: text, Line: line, Err: err}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &FieldTypeError{Field: "<line>", Want: "object", Got: v}
	}
	return obj, nil
}
