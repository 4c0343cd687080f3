package lsp

import (
	"sync"

	"github.com/vix-4800/php-typehints-vsc/internal/lsp/protocol"
)

type hintCacheKey struct {
	uri     string
	version int
}

// hintCache memoizes computed inlay hints per document version. The cache is
// bounded: once full, the oldest entry is evicted. A new version of a
// document never hits a stale entry because the version is part of the key.
type hintCache struct {
	mu      sync.Mutex
	entries map[hintCacheKey][]protocol.InlayHint
	order   []hintCacheKey
	limit   int
}

func newHintCache(limit int) *hintCache {
	return &hintCache{
		entries: make(map[hintCacheKey][]protocol.InlayHint),
		limit:   limit,
	}
}

func (c *hintCache) get(uri string, version int) ([]protocol.InlayHint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hints, ok := c.entries[hintCacheKey{uri, version}]
	return hints, ok
}

func (c *hintCache) put(uri string, version int, hints []protocol.InlayHint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := hintCacheKey{uri, version}
	if _, ok := c.entries[key]; ok {
		c.entries[key] = hints
		return
	}

	for len(c.order) >= c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = hints
	c.order = append(c.order, key)
}

// invalidate drops all cached versions of a document.
func (c *hintCache) invalidate(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.order[:0]
	for _, key := range c.order {
		if key.uri == uri {
			delete(c.entries, key)
		} else {
			kept = append(kept, key)
		}
	}
	c.order = kept
}

// clear drops every cached entry.
func (c *hintCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[hintCacheKey][]protocol.InlayHint)
	c.order = nil
}
