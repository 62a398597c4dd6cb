// Package graphcache is an identity map for object graphs.
//
// # Overview
//
// Add walks a value, finds every node whose type is cacheable (a type with
// an explicit key extractor, or one that fits the configured convention)
// and stores each of them as its own entry, keyed by
//
//	<package path>.<type name> = <partial key>
//
// Nodes without a key, such as a Document holding an uploader, are walked
// through but not stored. Reads go the other way: Get and GetAll find the
// matching entries and rewrite every reference they hold with the version
// currently stored under the same key, so a Person replaced in the cache
// shows up inside every Order that points at it.
//
// # Basic Usage
//
//	registry := accessor.NewRegistry()
//	cfg, _ := cache.NewConfiguration(registry)
//	store, _ := cache.NewStore(cache.DefaultConfig())
//	c, _ := graphcache.New(cfg, store, graphcache.WithLogger(logger))
//
//	_ = c.Add(order, 10*time.Minute)
//	cached, ok, err := graphcache.Get(c, func(o *Order) bool { return o.ID == 1 })
//
// # Insert Semantics
//
// The first writer wins: Add never replaces a live entry. To refresh an
// entity, Remove it first and Add the new version. Remove and RemoveAll only
// drop the matched entries; RemoveGraph and RemoveAllGraphs also drop every
// cacheable node reachable from them.
//
// # Errors
//
// Errors match the sentinels of package cache through errors.Is, for
// example cache.ErrInvalidDuration or cache.ErrKeyExtractorMalformed.
// Operations touching several entries stop at the first error and keep the
// effects already applied.
package graphcache
