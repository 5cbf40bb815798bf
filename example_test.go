package resolver_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bassosimone/runtimex"
	"github.com/miekg/dns"

	"github.com/rootfall/resolver"
)

// No output comment on this example: running it needs network access.
func Example() {
	r := resolver.New(true, 5*time.Second, "")
	defer r.Close()
	res := runtimex.PanicOnError1(r.Resolve(context.Background(), "example.com", dns.TypeA, dns.ClassINET))
	fmt.Println(res.RcodeString(), res.Secure)
}

// No output comment on this example: running it needs network access.
func ExampleCachedResolver() {
	r := resolver.New(false, 5*time.Second, "")
	defer r.Close()
	cr := resolver.NewCached(r)
	for i := 0; i < 2; i++ {
		res := runtimex.PanicOnError1(cr.Resolve(context.Background(), "example.org", dns.TypeNS, dns.ClassINET))
		fmt.Println(res.RcodeString())
	}
	fmt.Printf("cache hit ratio %.0f%%\n", cr.Cache.HitRatio())
}

func ExampleParseRootHints() {
	zone := `
B.ROOT-SERVERS.NET. 3600000 A 199.9.14.201
A.ROOT-SERVERS.NET. 3600000 A 198.41.0.4
`
	hints := runtimex.PanicOnError1(resolver.ParseRootHints(strings.NewReader(zone)))
	for _, h := range hints {
		fmt.Println(h.Name, h.Addr)
	}

	// Output:
	// a.root-servers.net. 198.41.0.4
	// b.root-servers.net. 199.9.14.201
}

func ExampleTypeToString() {
	fmt.Println(resolver.TypeToString(15), resolver.TypeToString(4095))

	// Output:
	// MX UNKNOWN
}
