package collectionutils

// Associate builds a map from a slice, applying transform to each item to
// obtain its key and value. Later items overwrite earlier ones on key
// collision.
func Associate[T any, K comparable, V any](items []T, transform func(T) (K, V)) map[K]V {
	result := make(map[K]V, len(items))
	for _, item := range items {
		key, value := transform(item)
		result[key] = value
	}
	return result
}


// GetOrDefault looks up key in m, falling back to defaultValue when the key
// is absent.
func GetOrDefault[K comparable, V any](m map[K]V, key K, defaultValue V) V {
	if value, ok := m[key]; ok {
		return value
	}
	return defaultValue
}
