package backend

import (
	"encoding/json"
	"fmt"
)

// The backend is inconsistent about list shapes: some endpoints return a bare
// array, some a {count, next, previous, results} page envelope, and some a
// {data, total} envelope. DecodeList accepts all three.

type pageEnvelope struct {
	Count    *int            `json:"count"`
	Next     string          `json:"next"`
	Previous string          `json:"previous"`
	Results  json.RawMessage `json:"results"`
	Data     json.RawMessage `json:"data"`
	Total    *int            `json:"total"`
}

// DecodeList unmarshals a list response body into out (a pointer to a slice)
// and returns the total count. For a bare array the total is the array
// length; for envelopes it is the count/total field when present, falling
// back to the page length.
func DecodeList(body []byte, out interface{}) (int, error) {
	if len(body) > 0 && body[0] == '[' {
		if err := json.Unmarshal(body, out); err != nil {
			return 0, fmt.Errorf("decode list: %w", err)
		}
		return sliceLen(body), nil
	}

	var env pageEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return 0, fmt.Errorf("decode list envelope: %w", err)
	}

	items := env.Results
	if items == nil {
		items = env.Data
	}
	if items == nil {
		return 0, fmt.Errorf("decode list envelope: no results or data field")
	}
	if err := json.Unmarshal(items, out); err != nil {
		return 0, fmt.Errorf("decode list items: %w", err)
	}

	if env.Count != nil {
		return *env.Count, nil
	}
	if env.Total != nil {
		return *env.Total, nil
	}
	return sliceLen(items), nil
}

// sliceLen counts elements without reflecting on out's concrete type.
func sliceLen(items json.RawMessage) int {
	var probe []json.RawMessage
	if err := json.Unmarshal(items, &probe); err != nil {
		return 0
	}
	return len(probe)
}
