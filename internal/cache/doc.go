// Package cache provides the generic caches behind the style, color and
// shader caches.
//
// # Store[K, V]
//
// An append-only map guarded by a mutex. Entries are never evicted; the store
// lives as long as its owner (a View or a Creator) and is released with it.
// Style and color lookups use it because the set of visible
// (data source, technique, zoom) combinations is small and stable.
//
//	s := cache.NewStore[string, int]()
//	v := s.GetOrCreate("key", func() int { return 42 })
//
// # Sharded[K, V]
//
// A bounded LRU split across 16 shards. Compiled shader programs use it:
// they are expensive to build, keyed by source hash, and may be requested from
// several views at once.
//
//	s := cache.NewSharded[uint64, []uint32](64, cache.Uint64Hasher)
//
// Both caches are safe for concurrent use and must not be copied after
// creation.
package cache
