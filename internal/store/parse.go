package store

import (
	"fmt"
	"strings"
)

// parseSearchReply decodes a raw FT.SEARCH reply:
//
//	[total, key1, [field, value, ...], key2, [field, value, ...], ...]
//
// Field maps keep their backend order in Docs. Documents whose field list is
// malformed are skipped rather than failing the whole reply.
func parseSearchReply(reply any) (SearchResult, error) {
	arr, ok := reply.([]any)
	if !ok {
		return SearchResult{}, fmt.Errorf("search reply is %T, want array", reply)
	}
	if len(arr) == 0 {
		return SearchResult{}, fmt.Errorf("search reply is empty")
	}

	total, err := toInt64(arr[0])
	if err != nil {
		return SearchResult{}, fmt.Errorf("search reply total: %w", err)
	}

	result := SearchResult{Total: total}
	// Entries come in (key, fields) pairs after the total.
	for i := 1; i+1 < len(arr); i += 2 {
		fields, ok := arr[i+1].([]any)
		if !ok {
			continue
		}
		doc, err := pairsToMap(fields)
		if err != nil {
			continue
		}
		result.Docs = append(result.Docs, doc)
	}
	return result, nil
}

// parsePairs decodes an alternating key/value array reply (FT.INFO shape)
// into a flat string map. Non-scalar values are rendered with %v.
func parsePairs(reply any) (map[string]string, error) {
	arr, ok := reply.([]any)
	if !ok {
		return nil, fmt.Errorf("reply is %T, want array", reply)
	}

	info := make(map[string]string, len(arr)/2)
	for i := 0; i+1 < len(arr); i += 2 {
		key, err := toString(arr[i])
		if err != nil {
			return nil, fmt.Errorf("pair key: %w", err)
		}
		info[key] = fmt.Sprintf("%v", arr[i+1])
	}
	return info, nil
}

// hasSearchModule inspects a MODULE LIST reply for the search module.
func hasSearchModule(reply any) bool {
	modules, ok := reply.([]any)
	if !ok {
		return false
	}
	for _, mod := range modules {
		entry, ok := mod.([]any)
		if !ok {
			continue
		}
		for i := 0; i+1 < len(entry); i += 2 {
			key, err := toString(entry[i])
			if err != nil || key != "name" {
				continue
			}
			if name, err := toString(entry[i+1]); err == nil && name == "search" {
				return true
			}
		}
	}
	return false
}

func pairsToMap(pairs []any) (map[string]string, error) {
	m := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, err := toString(pairs[i])
		if err != nil {
			return nil, err
		}
		value, err := toString(pairs[i+1])
		if err != nil {
			return nil, err
		}
		m[key] = value
	}
	return m, nil
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("value is %T, want string", v)
	}
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case string:
		var parsed int64
		if _, err := fmt.Sscan(strings.TrimSpace(n), &parsed); err != nil {
			return 0, fmt.Errorf("parsing %q as count: %w", n, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("value is %T, want integer", v)
	}
}
