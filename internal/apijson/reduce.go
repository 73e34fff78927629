package apijson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Accumulate folds an NDJSON body into an array, one element per line in
// line order. Any malformed line aborts the whole reduction: the caller
// cannot tell a daemon bug from a silently dropped record, so no partial
// result is ever returned.
func Accumulate(r io.Reader) ([]any, error) {
	out := []any{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(text), &v); err != nil {
			return nil, &SyntaxError{Input: text, Line: line, Err: err}
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("apijson: scan response: %w", err)
	}
	return out, nil
}

// MergeKeyed folds an NDJSON body whose lines interleave partial records
// about several named entities. Every line must carry keyField; its value
// selects the record under construction, stored under keyAs in the output.
// Each remaining recognized source field (a key of fields) is renamed to
// its mapped name and merged into that record, tolerating fields arriving
// on different lines in any order. Records are emitted in first-seen-key
// insertion order.
func MergeKeyed(r io.Reader, keyField, keyAs string, fields map[string]string) ([]map[string]any, error) {
	records := make(map[string]map[string]any)
	order := []string{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" {
			continue
		}
		obj, err := parseLine(text, line)
		if err != nil {
			return nil, err
		}
		key, err := Property[string](obj, keyField, line)
		if err != nil {
			return nil, err
		}
		rec, ok := records[key]
		if !ok {
			rec = map[string]any{keyAs: key}
			records[key] = rec
			order = append(order, key)
		}
		for src, dst := range fields {
			if v, ok := obj[src]; ok {
				rec[dst] = v
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("apijson: scan response: %w", err)
	}

	out := make([]map[string]any, 0, len(order))
	for _, key := range order {
		out = append(out, records[key])
	}
	return out, nil
}

// FindMatch scans NDJSON lines for the first record satisfying match and
// returns the value match designates, abandoning the rest of the stream.
// When the stream ends without a match the error is a *NotFoundError
// carrying key and the full body text.
func FindMatch(body []byte, key string, match func(doc map[string]any) (any, bool)) (any, error) {
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" {
			continue
		}
		obj, err := parseLine(text, line)
		if err != nil {
			return nil, err
		}
		if v, ok := match(obj); ok {
			return v, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("apijson: scan response: %w", err)
	}
	return nil, &NotFoundError{Key: key, Body: string(body)}
}

// NDJSON lines carry single records; 16 MiB comfortably exceeds anything
// the daemon emits per line.
const maxLineSize = 16 << 20
