package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// OrderedMapEntry is a single (key, value) pair of an ordered view of a map.
type OrderedMapEntry[K constraints.Ordered, V any] struct {
	Key   K
	Value V
}

// OrderedKeys returns the sorted list of keys of the input map.
func OrderedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// OrderedEntries returns the list of entries of the input map ordered by key.
func OrderedEntries[K constraints.Ordered, V any](m map[K]V) []OrderedMapEntry[K, V] {
	keys := OrderedKeys(m)
	result := make([]OrderedMapEntry[K, V], 0, len(m))
	for _, k := range keys {
		result = append(result, OrderedMapEntry[K, V]{Key: k, Value: m[k]})
	}
	return result
}

// OrderedValues returns the list of values ordered by their keys.
func OrderedValues[K constraints.Ordered, V any](m map[K]V) []V {
	keys := OrderedKeys(m)
	result := make([]V, 0, len(m))
	for _, k := range keys {
		result = append(result, m[k])
	}
	return result
}

// OrderedSlice returns the ordered copy of the provided slice, the values are
// shallow-copied.
func OrderedSlice[V constraints.Ordered](values []V) []V {
	result := make([]V, len(values))
	copy(result, values)
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
