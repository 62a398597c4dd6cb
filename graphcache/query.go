package graphcache

import "github.com/goliatone/go-graph-cache/cache"

// Predicate selects cached values of type T.
type Predicate[T any] func(T) bool

// Get returns the first cached T matching pred, with its references
// refreshed from the store. Stored *T values are also visible as T and the
// other way around. Which match is first is unspecified.
func Get[T any](c *Cache, pred Predicate[T]) (T, bool, error) {
	var zero T
	if c == nil {
		return zero, false, cache.NullArgument("cache")
	}
	if pred == nil {
		return zero, false, cache.NullArgument("predicate")
	}

	matches := find(c, pred, 1)
	c.metrics.Lookup(c.name, len(matches) > 0)
	if len(matches) == 0 {
		return zero, false, nil
	}

	value := matches[0]
	if err := c.rehydrate(&value); err != nil {
		return zero, false, err
	}
	return value, true, nil
}

// GetAll returns every cached T matching pred, each with its references
// refreshed from the store. A nil pred matches everything.
func GetAll[T any](c *Cache, pred Predicate[T]) ([]T, error) {
	if c == nil {
		return nil, cache.NullArgument("cache")
	}

	matches := find(c, pred, 0)
	c.metrics.Lookup(c.name, len(matches) > 0)
	for i := range matches {
		if err := c.rehydrate(&matches[i]); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// Contains reports whether any cached T matches pred.
func Contains[T any](c *Cache, pred Predicate[T]) (bool, error) {
	if c == nil {
		return false, cache.NullArgument("cache")
	}
	if pred == nil {
		return false, cache.NullArgument("predicate")
	}

	found := len(find(c, pred, 1)) > 0
	c.metrics.Lookup(c.name, found)
	return found, nil
}

// Remove drops the entry of the first cached T matching pred. Nodes it
// references stay cached.
func Remove[T any](c *Cache, pred Predicate[T]) error {
	if c == nil {
		return cache.NullArgument("cache")
	}
	if pred == nil {
		return cache.NullArgument("predicate")
	}
	return c.remove(values(find(c, pred, 1)))
}

// RemoveAll drops the entries of every cached T matching pred. A nil pred
// matches everything.
func RemoveAll[T any](c *Cache, pred Predicate[T]) error {
	if c == nil {
		return cache.NullArgument("cache")
	}
	return c.remove(values(find(c, pred, 0)))
}

// RemoveGraph drops the first cached T matching pred together with every
// cacheable node reachable from it.
func RemoveGraph[T any](c *Cache, pred Predicate[T]) error {
	if c == nil {
		return cache.NullArgument("cache")
	}
	if pred == nil {
		return cache.NullArgument("predicate")
	}
	return c.removeGraphs(values(find(c, pred, 1)))
}

// RemoveAllGraphs is RemoveGraph for every match. Nodes shared between the
// matched graphs are visited once. A nil pred matches everything.
func RemoveAllGraphs[T any](c *Cache, pred Predicate[T]) error {
	if c == nil {
		return cache.NullArgument("cache")
	}
	return c.removeGraphs(values(find(c, pred, 0)))
}

// ConfigureType registers the key extractor for T on the cache
// configuration.
func ConfigureType[T any](c *Cache, extractor func(T) (string, error)) error {
	if c == nil {
		return cache.NullArgument("cache")
	}
	return cache.ConfigureType(c.configuration, extractor)
}

// find scans the store for values usable as T that satisfy pred, stopping
// after limit matches. A limit of 0 means no limit.
func find[T any](c *Cache, pred Predicate[T], limit int) []T {
	var matches []T
	c.store.Range(func(_ string, stored any) bool {
		v, ok := cache.As[T](stored)
		if !ok {
			return true
		}
		if pred != nil && !pred(v) {
			return true
		}
		matches = append(matches, v)
		return limit <= 0 || len(matches) < limit
	})
	return matches
}

func values[T any](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
