package llm

import "sync"

// ExplainCache memoizes polished explanation texts per term for the process
// lifetime. It is an explicit object owned by whoever wires the dialogue,
// not a package global, and is safe for concurrent sessions.
type ExplainCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewExplainCache() *ExplainCache {
	return &ExplainCache{entries: make(map[string]string)}
}

func (c *ExplainCache) Get(term string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.entries[term]
	return text, ok
}

func (c *ExplainCache) Set(term, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[term] = text
}
