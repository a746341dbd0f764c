package web

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/transcripter/transcripter/internal/search"
)

// defaultCacheSize caps how many distinct queries keep their results warm.
const defaultCacheSize = 256

// queryCache memoizes search results per query string. Entries are never
// invalidated explicitly; bounded size plus the indexing interval keep
// staleness acceptable for a read-mostly index.
type queryCache struct {
	entries *lru.Cache[string, []search.Result]
}

func newQueryCache(size int) (*queryCache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	entries, err := lru.New[string, []search.Result](size)
	if err != nil {
		return nil, err
	}
	return &queryCache{entries: entries}, nil
}

func (c *queryCache) get(query string) ([]search.Result, bool) {
	return c.entries.Get(query)
}

func (c *queryCache) put(query string, results []search.Result) {
	c.entries.Add(query, results)
}
