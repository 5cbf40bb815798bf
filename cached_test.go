package resolver

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/miekg/dns"
)

func packedResult(t *testing.T, qname string, qtype uint16, rcode int) *Result {
	t.Helper()
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(qname), qtype)
	msg.Response = true
	msg.Rcode = rcode
	wire, err := msg.Pack()
	if err != nil {
		t.Fatal(err)
	}
	return &Result{Wire: wire, Rcode: rcode}
}

func TestCachedResolverHit(t *testing.T) {
	t.Parallel()
	q := &stubQuerier{res: packedResult(t, "example.com", dns.TypeA, dns.RcodeSuccess)}
	cr := NewCached(q)
	first, err := cr.Resolve(context.Background(), "example.com", dns.TypeA, dns.ClassINET)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cr.Resolve(context.Background(), "example.com", dns.TypeA, dns.ClassINET)
	if err != nil {
		t.Fatal(err)
	}
	if x := q.callCount(); x != 1 {
		t.Fatalf("upstream calls got=%d want=1", x)
	}
	if second == first {
		t.Error("hits must produce fresh results")
	}
	if second.Rcode != first.Rcode || !second.Ok() {
		t.Errorf("hit result differs: %+v vs %+v", second, first)
	}
	second.Wire[0] ^= 0xff
	third, err := cr.Resolve(context.Background(), "example.com", dns.TypeA, dns.ClassINET)
	if err != nil {
		t.Fatal(err)
	}
	if third.Wire[0] == second.Wire[0] {
		t.Error("hit results must not share wire memory")
	}
}

func TestCachedResolverCachesServerRcodes(t *testing.T) {
	t.Parallel()
	q := &stubQuerier{res: packedResult(t, "missing.example", dns.TypeA, dns.RcodeNameError)}
	cr := NewCached(q)
	for i := 0; i < 2; i++ {
		res, err := cr.Resolve(context.Background(), "missing.example", dns.TypeA, dns.ClassINET)
		if err != nil {
			t.Fatal(err)
		}
		if res.Rcode != dns.RcodeNameError {
			t.Fatalf("rcode got=%d want=%d", res.Rcode, dns.RcodeNameError)
		}
	}
	if x := q.callCount(); x != 1 {
		t.Fatalf("upstream calls got=%d want=1", x)
	}
}

func TestCachedResolverErrorsNotCached(t *testing.T) {
	t.Parallel()
	q := &stubQuerier{res: errorResult(ErrNoResponse), err: ErrNoResponse}
	cr := NewCached(q)
	for i := 0; i < 2; i++ {
		res, err := cr.Resolve(context.Background(), "down.example", dns.TypeA, dns.ClassINET)
		if !errors.Is(err, ErrNoResponse) {
			t.Fatalf("err got=%v want=%v", err, ErrNoResponse)
		}
		checkErrorResult(t, res)
	}
	if x := q.callCount(); x != 2 {
		t.Fatalf("upstream calls got=%d want=2", x)
	}
}

func TestCachedResolverNormalizesSpelling(t *testing.T) {
	t.Parallel()
	q := &stubQuerier{res: packedResult(t, "xn--bcher-kva.example", dns.TypeA, dns.RcodeSuccess)}
	cr := NewCached(q)
	if _, err := cr.Resolve(context.Background(), "bücher.example", dns.TypeA, dns.ClassINET); err != nil {
		t.Fatal(err)
	}
	if _, err := cr.Resolve(context.Background(), "BÜCHER.example", dns.TypeA, dns.ClassINET); err != nil {
		t.Fatal(err)
	}
	if x := q.callCount(); x != 1 {
		t.Fatalf("upstream calls got=%d want=1, spellings must share a key", x)
	}
}

func TestCachedResolverInvalidNamePassesThrough(t *testing.T) {
	t.Parallel()
	q := &stubQuerier{res: errorResult(ErrInvalidName), err: ErrInvalidName}
	cr := NewCached(q)
	for i := 0; i < 2; i++ {
		if _, err := cr.Resolve(context.Background(), "bad name.example", dns.TypeA, dns.ClassINET); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("err got=%v want=%v", err, ErrInvalidName)
		}
	}
	if x := q.callCount(); x != 2 {
		t.Fatalf("upstream calls got=%d want=2", x)
	}
}

func TestCachedResolverWithoutCachePassesThrough(t *testing.T) {
	t.Parallel()
	q := &stubQuerier{res: packedResult(t, "example.org", dns.TypeA, dns.RcodeSuccess)}
	cr := &CachedResolver{Querier: q}
	for i := 0; i < 2; i++ {
		if _, err := cr.Resolve(context.Background(), "example.org", dns.TypeA, dns.ClassINET); err != nil {
			t.Fatal(err)
		}
	}
	if x := q.callCount(); x != 2 {
		t.Fatalf("upstream calls got=%d want=2", x)
	}
}

func TestCachedResolverCollapsesConcurrentLookups(t *testing.T) {
	t.Parallel()
	q := &stubQuerier{
		res:   packedResult(t, "example.net", dns.TypeA, dns.RcodeSuccess),
		delay: 100 * time.Millisecond,
	}
	cr := NewCached(q)
	const callers = 8
	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer done.Done()
			start.Wait()
			res, err := cr.Resolve(context.Background(), "example.net", dns.TypeA, dns.ClassINET)
			if err != nil || !res.Ok() {
				t.Errorf("resolve failed: %v", err)
			}
		}()
	}
	start.Done()
	done.Wait()
	if x := q.callCount(); x != 1 {
		t.Fatalf("upstream calls got=%d want=1, concurrent lookups must collapse", x)
	}
}

// -------- Querier stub ---------

type stubQuerier struct {
	mu    sync.Mutex
	calls int
	res   *Result
	err   error
	delay time.Duration
}

func (q *stubQuerier) Resolve(ctx context.Context, qname string, qtype, qclass uint16) (*Result, error) {
	q.mu.Lock()
	q.calls++
	q.mu.Unlock()
	if q.delay > 0 {
		time.Sleep(q.delay)
	}
	return q.res, q.err
}

func (q *stubQuerier) callCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls
}
