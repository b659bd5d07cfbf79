// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

// Lookup is one named strategy for resolving a field. Find reports false
// when the strategy does not apply to the element.
type Lookup[T any] struct {
	Name string
	Find func() (T, bool)
}

// First evaluates lookups in order and returns the value and name of the
// first one that applies. When none applies it returns the zero value,
// an empty name and false.
func First[T any](lookups ...Lookup[T]) (T, string, bool) {
	for _, l := range lookups {
		if v, ok := l.Find(); ok {
			return v, l.Name, true
		}
	}
	var zero T
	return zero, "", false
}

// Or is First with a default used when no lookup applies.
func Or[T any](def T, defName string, lookups ...Lookup[T]) (T, string) {
	if v, name, ok := First(lookups...); ok {
		return v, name
	}
	return def, defName
}
