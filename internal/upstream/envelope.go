package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// List is the canonical internal shape for every listing response. Count
// falls back to len(Results) when the platform sent a bare array; HasNext
// reports whether the platform advertised a further page.
type List[T any] struct {
	Results []T    `json:"results"`
	Count   int    `json:"count"`
	HasNext bool   `json:"has_next"`
	Next    string `json:"next,omitempty"`
}

// decodeList normalizes the two listing shapes the platform uses — a bare
// array on some endpoints, a {results, next, count} envelope on others —
// into one List. Downstream code never sees the difference.
func decodeList[T any](data []byte) (List[T], error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return List[T]{Results: []T{}}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return List[T]{}, fmt.Errorf("decode list: %w", err)
		}
		return List[T]{Results: items, Count: len(items)}, nil
	}

	var env struct {
		Results []T     `json:"results"`
		Count   int     `json:"count"`
		Next    *string `json:"next"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return List[T]{}, fmt.Errorf("decode list envelope: %w", err)
	}

	out := List[T]{
		Results: env.Results,
		Count:   env.Count,
	}
	if out.Results == nil {
		out.Results = []T{}
	}
	if env.Next != nil && *env.Next != "" {
		out.HasNext = true
		out.Next = *env.Next
	}
	return out, nil
}
