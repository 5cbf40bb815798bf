// Command cli resolves a single DNS question against the root servers and
// prints the response.
//
// Usage:
//
//	cli [flags] qname [qtype] [qclass]
//
// qtype and qclass accept mnemonics ("AAAA", "CH") or numeric codes and
// default to A and IN.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/rootfall/resolver"
)

var (
	dnssec  = flag.Bool("dnssec", true, "request DNSSEC records and flag signed responses")
	timeout = flag.Duration("timeout", 5*time.Second, "resolution timeout")
	hints   = flag.String("hints", "", "path to a named.root hints file")
	trace   = flag.Bool("trace", false, "log resolution steps to stderr")
	probe   = flag.Bool("probe", false, "probe root server latency and exit")
	cached  = flag.Bool("cache", false, "resolve through the response cache")
	stats   = flag.Bool("stats", false, "print cache statistics after resolving")
)

func main() {
	flag.Parse()
	if err := run(context.Background(), flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if *hints != "" {
		if _, err := resolver.LoadRootHints(*hints); err != nil {
			return err
		}
	}
	r := resolver.New(*dnssec, *timeout, *hints)
	defer r.Close()
	if *trace {
		r.Trace = os.Stderr
	}

	if *probe {
		return probeRoots(ctx, r)
	}

	if len(args) < 1 {
		return errors.New("usage: cli [flags] qname [qtype] [qclass]")
	}
	qname := args[0]
	qtype := uint16(dns.TypeA)
	qclass := uint16(dns.ClassINET)
	var err error
	if len(args) > 1 {
		if qtype, err = parseCode(args[1], dns.StringToType); err != nil {
			return fmt.Errorf("qtype %q: %w", args[1], err)
		}
	}
	if len(args) > 2 {
		if qclass, err = parseCode(args[2], dns.StringToClass); err != nil {
			return fmt.Errorf("qclass %q: %w", args[2], err)
		}
	}

	var q resolver.Querier = r
	var cr *resolver.CachedResolver
	if *cached {
		cr = resolver.NewCached(r)
		q = cr
	}

	res, err := q.Resolve(ctx, qname, qtype, qclass)
	if err != nil {
		return err
	}
	if err = printResult(res); err != nil {
		return err
	}
	if *stats && cr != nil {
		fmt.Printf(";; CACHE: %d entries, %.0f%% hit ratio\n", cr.Cache.Entries(), cr.Cache.HitRatio())
	}
	return nil
}

// parseCode resolves a mnemonic through the given table, falling back to a
// bare numeric code.
func parseCode(s string, table map[string]uint16) (uint16, error) {
	if code, ok := table[strings.ToUpper(s)]; ok {
		return code, nil
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, errors.New("not a known mnemonic or numeric code")
	}
	return uint16(n), nil
}

func printResult(res *resolver.Result) error {
	msg := new(dns.Msg)
	if err := msg.Unpack(res.Wire); err != nil {
		return err
	}
	fmt.Println(msg)
	fmt.Println(";; RCODE:", res.RcodeString())
	fmt.Println(";; SECURE:", res.Secure)
	return nil
}

func probeRoots(ctx context.Context, r *resolver.Resolver) error {
	for _, rt := range r.ProbeRoots(ctx) {
		if rt.Err != nil {
			fmt.Printf("%-16s unreachable: %v\n", rt.Addr, rt.Err)
			continue
		}
		fmt.Printf("%-16s %s\n", rt.Addr, rt.RTT)
	}
	return nil
}
