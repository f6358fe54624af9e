// Package cachemanager provides small generic caches backed by go-cache.
package cachemanager

import "time"

// NoExpiration keeps items until they are deleted or the cache is flushed.
const NoExpiration time.Duration = -1

// CacheManager is a typed key/value cache.
type CacheManager[K ~string, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	// Add stores value only if key is absent. It returns the value that is
	// cached for key afterwards and whether it was added by this call.
	Add(key K, value V, ttl time.Duration) (V, bool)
	Delete(keys ...K)
	Flush()
	Len() int
}
