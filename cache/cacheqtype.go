package cache

import (
	"sync"
	"time"
)

type cacheKey struct {
	qname  string
	qclass uint16
}

type cacheQtype struct {
	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

func newCacheQtype() *cacheQtype {
	return &cacheQtype{cache: make(map[cacheKey]cacheEntry)}
}

func (cq *cacheQtype) entries() (n int) {
	cq.mu.RLock()
	n = len(cq.cache)
	cq.mu.RUnlock()
	return
}

func (cq *cacheQtype) set(qname string, qclass uint16, v Value, ttl time.Duration) {
	key := cacheKey{qname: qname, qclass: qclass}
	expires := time.Now().Add(ttl)
	cq.mu.Lock()
	cq.cache[key] = cacheEntry{value: v, expires: expires}
	cq.mu.Unlock()
}

func (cq *cacheQtype) get(qname string, qclass uint16) (Value, bool) {
	key := cacheKey{qname: qname, qclass: qclass}
	cq.mu.RLock()
	e, ok := cq.cache[key]
	cq.mu.RUnlock()
	if ok {
		if time.Since(e.expires) < 0 {
			return e.value, true
		}
		cq.mu.Lock()
		delete(cq.cache, key)
		cq.mu.Unlock()
	}
	return Value{}, false
}

func (cq *cacheQtype) clear() {
	cq.clean(time.Time{})
}

func (cq *cacheQtype) clean(now time.Time) {
	cq.mu.Lock()
	defer cq.mu.Unlock()
	for key, e := range cq.cache {
		if now.IsZero() || now.After(e.expires) {
			delete(cq.cache, key)
		}
	}
}
