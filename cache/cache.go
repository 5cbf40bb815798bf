// Package cache stores parsed DNS responses keyed by question name, type
// and class. Stored messages have the Zero header bit set and must be
// treated as read-only by callers.
package cache

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/miekg/dns"
)

const DefaultMinTTL = 10 * time.Second // ten seconds
const DefaultMaxTTL = 6 * time.Hour    // six hours
const DefaultNXTTL = time.Hour         // one hour
const MaxQtype = 260

type Cache struct {
	MinTTL time.Duration // always cache responses for at least this long
	MaxTTL time.Duration // never cache responses for longer than this (excepting successful NS responses)
	NXTTL  time.Duration // cache NXDOMAIN responses for this long
	count  atomic.Uint64
	hits   atomic.Uint64
	cq     []*cacheQtype
}

func New() *Cache {
	cq := make([]*cacheQtype, MaxQtype+1)
	for i := range cq {
		cq[i] = newCacheQtype()
	}
	return &Cache{
		MinTTL: DefaultMinTTL,
		MaxTTL: DefaultMaxTTL,
		NXTTL:  DefaultNXTTL,
		cq:     cq,
	}
}

// HitRatio returns the hit ratio as a percentage.
func (cache *Cache) HitRatio() (n float64) {
	if cache != nil {
		if count := cache.count.Load(); count > 0 {
			n = float64(cache.hits.Load()*100) / float64(count)
		}
	}
	return
}

// Entries returns the number of entries in the cache.
func (cache *Cache) Entries() (n int) {
	if cache != nil {
		for _, cq := range cache.cq {
			n += cq.entries()
		}
	}
	return
}

// Set stores v for as long as its message TTLs allow. The question name,
// type and class are taken from the message itself. Messages with the Zero
// bit already set came out of a cache and are not stored again.
func (cache *Cache) Set(v Value) {
	if cache != nil && v.Msg != nil && !v.Msg.Zero && len(v.Msg.Question) == 1 {
		if q := v.Msg.Question[0]; q.Qtype <= MaxQtype {
			v.Msg = v.Msg.Copy()
			v.Msg.Zero = true
			v.Wire = append([]byte(nil), v.Wire...)
			ttl := cache.NXTTL
			if v.Msg.Rcode != dns.RcodeNameError {
				ttl = max(cache.MinTTL, time.Duration(minDNSMsgTTL(v.Msg))*time.Second)
				if q.Qtype != dns.TypeNS || v.Msg.Rcode != dns.RcodeSuccess {
					ttl = min(cache.MaxTTL, ttl)
				}
			}
			cache.cq[q.Qtype].set(q.Name, q.Qclass, v, ttl)
		}
	}
}

// Get returns the stored value for the question, if any. The message inside
// the returned value is shared and must not be modified.
func (cache *Cache) Get(qname string, qtype, qclass uint16) (v Value, ok bool) {
	if cache != nil {
		cache.count.Add(1)
		if qtype <= MaxQtype {
			if v, ok = cache.cq[qtype].get(qname, qclass); ok {
				cache.hits.Add(1)
			}
		}
	}
	return
}

func (cache *Cache) Clear() {
	if cache != nil {
		for _, cq := range cache.cq {
			cq.clear()
		}
	}
}

func (cache *Cache) Clean() {
	if cache != nil {
		now := time.Now()
		for _, cq := range cache.cq {
			cq.clean(now)
		}
	}
}

func minDNSMsgTTL(msg *dns.Msg) (minTTL int) {
	minTTL = math.MaxInt
	if msg != nil {
		for _, rr := range msg.Answer {
			if rr != nil {
				minTTL = min(minTTL, int(rr.Header().Ttl))
			}
		}
		for _, rr := range msg.Ns {
			if rr != nil {
				minTTL = min(minTTL, int(rr.Header().Ttl))
			}
		}
		for _, rr := range msg.Extra {
			if rr != nil {
				if rr.Header().Rrtype != dns.TypeOPT {
					minTTL = min(minTTL, int(rr.Header().Ttl))
				}
			}
		}
	}
	if minTTL == math.MaxInt {
		minTTL = -1
	}
	return
}
