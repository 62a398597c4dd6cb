// Package cache provides key configuration, key creation and the store
// contract for graph caching.
//
// # Overview
//
// A type is cacheable when the Configuration can produce a KeyExtractor for
// it. Extractors are looked up in this order:
//
//   - an extractor registered with ConfigureType
//   - none, when conventions are disabled (ErrTypeNotMapped)
//   - an extractor built by the Convention, memoized per type
//   - none, when the type does not fit (ErrTypeNotFitInConvention)
//
// The default convention keys struct types by their ID field, falling back
// to Id. Custom conventions implement the Convention interface; any error or
// panic they raise is reported as a *ConventionError.
//
// # Keys
//
// KeyCreator joins the full type name and the partial key:
//
//	github.com/acme/shop/model.Person = 42
//
// Pointer and value forms of a type share one name, so *Person and Person
// with the same ID map to the same key.
//
// # Configuration
//
// Config mirrors the store settings and can be loaded from YAML:
//
//	name: orders
//	conventions_enabled: true
//	capacity: 10000
//	num_shards: 256
//	ttl: 24h
//	eviction_percentage: 10
//
// NewStore builds the default store, backed by sturdyc. Each entry keeps its
// own expiration; Config.TTL caps how long any entry may live.
package cache
