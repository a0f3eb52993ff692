package tmpl

import "sort"

// Map is the replacement source for a template. An absent key and an empty
// value behave the same way.
type Map map[string]string

func (m Map) Set(key, value string) {
	m[key] = value
}

// SetList stores the list joined with JoinList under key.
func (m Map) SetList(key string, list []string, sep, last string) {
	m[key] = JoinList(list, sep, last)
}

// Merge copies every entry of other into m, overwriting existing keys.
func (m Map) Merge(other Map) {
	for k, v := range other {
		m[k] = v
	}
}

func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Keys returns the map keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
