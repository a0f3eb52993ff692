package common

import "sort"

// MapEntry is used for sorted iteration over map entries in templates.
type MapEntry struct {
	Key   string
	Value string
}

// SortedMapEntries returns map entries sorted by key for deterministic output.
func SortedMapEntries(entries map[string]string) []MapEntry {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]MapEntry, 0, len(keys))
	for _, k := range keys {
		result = append(result, MapEntry{Key: k, Value: entries[k]})
	}
	return result
}
