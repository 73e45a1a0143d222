package twauth

import "sync"

// instanceRegistry maps an identity to its live session handle for the life
// of the process. No TTL, no size bound, no persistence: entries are only
// replaced by a later successful resolution for the same identity. It is
// owned by the Resolver and injected at construction, never a package global.
type instanceRegistry struct {
	mu      sync.RWMutex
	handles map[string]*SessionHandle
}

func newInstanceRegistry() *instanceRegistry {
	return &instanceRegistry{
		handles: make(map[string]*SessionHandle),
	}
}

func (r *instanceRegistry) get(identity string) (*SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handles[identity]
	return h, ok
}

func (r *instanceRegistry) set(identity string, h *SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handles[identity] = h
}

func (r *instanceRegistry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handles)
}

// jarCache holds the last known-good cookie jar per identity for this
// process. Populated by any tier that validates a jar; read by the
// process-cookies tier before the durable store is consulted.
type jarCache struct {
	mu   sync.RWMutex
	jars map[string][]Cookie
}

func newJarCache() *jarCache {
	return &jarCache{
		jars: make(map[string][]Cookie),
	}
}

func (c *jarCache) get(identity string) ([]Cookie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	jar, ok := c.jars[identity]
	return jar, ok
}

func (c *jarCache) set(identity string, jar []Cookie) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.jars[identity] = jar
}
