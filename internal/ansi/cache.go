package ansi

import (
	"github.com/bkahlert/kommons-sub008/internal/cachemanager"
	"github.com/bkahlert/kommons-sub008/internal/log"
)

// Cache remembers tokenized strings so that parsing the same text again
// returns the very same *String. It is safe for concurrent use and never
// evicts entries.
type Cache struct {
	strings *cachemanager.ReadThroughCache[string, *String, string]
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	manager := cachemanager.NewInMemoryCacheManager[string, *String]("ansi-strings", cachemanager.NoExpiration, 0)
	return &Cache{
		strings: cachemanager.NewReadThroughCache[string, *String, string](
			manager,
			func(s string) (*String, error) {
				log.Debug(log.CatANSI, "tokenizing", "bytes", len(s))
				return Parse(s), nil
			},
			false,
		),
	}
}

// Parse returns the cached String for s, tokenizing s on first use.
// A nil cache tokenizes every time.
func (c *Cache) Parse(s string) *String {
	if c == nil {
		return Parse(s)
	}
	if s == "" {
		return empty
	}
	parsed, _ := c.strings.Get(s, s, cachemanager.NoExpiration)
	return parsed
}

// Len returns the number of cached strings.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.strings.Cache().Len()
}

// Flush forgets all cached strings.
func (c *Cache) Flush() {
	if c != nil {
		c.strings.Cache().Flush()
	}
}
