package resolver

import (
	"context"
	"net/netip"
	"sync"
	"time"

	"github.com/miekg/dns"
)

// RootRTT is the probe outcome for a single root server.
type RootRTT struct {
	Addr netip.Addr
	RTT  time.Duration
	Err  error
}

// ProbeRoots measures the round-trip time to every root server with a few
// SOA queries for the root zone and reports per-server results in the fixed
// root order. The resolver's own server list is never reordered or trimmed;
// probing is purely diagnostic.
func (r *Resolver) ProbeRoots(ctx context.Context) []RootRTT {
	if _, ok := ctx.Deadline(); !ok {
		newctx, cancel := context.WithTimeout(ctx, 2*udpTimeout)
		defer cancel()
		ctx = newctx
	}
	l := make([]RootRTT, len(r.rootServers))
	var wg sync.WaitGroup
	for i, addr := range r.rootServers {
		l[i].Addr = addr
		wg.Add(1)
		go r.timeRoot(ctx, &wg, &l[i])
	}
	wg.Wait()
	return l
}

func (r *Resolver) timeRoot(ctx context.Context, wg *sync.WaitGroup, rt *RootRTT) {
	defer wg.Done()
	const numProbes = 3
	msg := new(dns.Msg)
	msg.SetQuestion(".", dns.TypeSOA)
	wire, err := msg.Pack()
	if err != nil {
		rt.Err = err
		return
	}
	tr := r.transport()
	var rtt time.Duration
	for i := 0; i < numProbes; i++ {
		now := time.Now()
		if _, err = tr.roundTrip(ctx, rt.Addr, wire); err != nil {
			rt.Err = err
			return
		}
		rtt += time.Since(now)
	}
	rt.RTT = rtt / numProbes
}
