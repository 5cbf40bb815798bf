package resolver

import (
	"context"
	"strconv"

	"github.com/miekg/dns"
	"golang.org/x/sync/singleflight"

	"github.com/rootfall/resolver/cache"
)

// Querier resolves a single DNS question into a Result. Implementations
// return a non-nil Result even on failure.
type Querier interface {
	Resolve(ctx context.Context, qname string, qtype, qclass uint16) (*Result, error)
}

var _ Querier = (*Resolver)(nil)
var _ Querier = (*CachedResolver)(nil)

// CachedResolver answers repeated questions from a response cache and
// collapses concurrent lookups for the same question into a single
// upstream call. Only results carrying a response are cached; error
// results always go back upstream.
type CachedResolver struct {
	Querier
	Cache *cache.Cache
	group singleflight.Group
}

// NewCached wraps q with a cache using the default TTL bounds.
func NewCached(q Querier) *CachedResolver {
	return &CachedResolver{Querier: q, Cache: cache.New()}
}

func (cr *CachedResolver) Resolve(ctx context.Context, qname string, qtype, qclass uint16) (*Result, error) {
	key, err := canonicalQname(qname)
	if err != nil {
		return cr.Querier.Resolve(ctx, qname, qtype, qclass)
	}
	if v, ok := cr.Cache.Get(key, qtype, qclass); ok {
		metricCacheRequests.WithLabelValues("hit").Inc()
		return cachedResult(v), nil
	}
	metricCacheRequests.WithLabelValues("miss").Inc()
	flightKey := key + "|" + strconv.Itoa(int(qtype)) + "|" + strconv.Itoa(int(qclass))
	v, err, shared := cr.group.Do(flightKey, func() (any, error) {
		res, err := cr.Querier.Resolve(ctx, qname, qtype, qclass)
		if err == nil && res.Ok() {
			cr.store(res)
		}
		return res, err
	})
	if shared {
		metricCacheRequests.WithLabelValues("coalesced").Inc()
	}
	res, _ := v.(*Result)
	if shared {
		res = cloneResult(res)
	}
	return res, err
}

// store re-parses the response so the cache can key it by its question and
// clamp its lifetime by record TTLs.
func (cr *CachedResolver) store(res *Result) {
	msg := new(dns.Msg)
	if err := msg.Unpack(res.Wire); err == nil {
		cr.Cache.Set(cache.Value{Msg: msg, Wire: res.Wire, Secure: res.Secure})
	}
}

// cachedResult builds a fresh Result for a hit. The stored wire is copied
// so callers can do as they please with it.
func cachedResult(v cache.Value) *Result {
	return &Result{
		Wire:   append([]byte(nil), v.Wire...),
		Rcode:  v.Msg.Rcode,
		Secure: v.Secure,
	}
}

func cloneResult(res *Result) *Result {
	if res == nil {
		return nil
	}
	dup := *res
	dup.Wire = append([]byte(nil), res.Wire...)
	return &dup
}
