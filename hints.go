package resolver

import (
	"errors"
	"io"
	"net/netip"
	"os"
	"sort"
	"strings"

	"github.com/miekg/dns"
)

var ErrNoRootHints = errors.New("resolver: no IPv4 root hints")

// RootHint is one root server taken from a zone-format hints file.
type RootHint struct {
	Name string
	Addr netip.Addr
}

// ParseRootHints reads a root hints zone in "named.root" format and returns
// the IPv4 root server addresses sorted by owner name. AAAA and NS records
// are ignored; queries go over udp4 only.
func ParseRootHints(r io.Reader) (hints []RootHint, err error) {
	zp := dns.NewZoneParser(r, "", "")
	for rr, ok := zp.Next(); ok; rr, ok = zp.Next() {
		if a, ok := rr.(*dns.A); ok {
			if ip, ok := netip.AddrFromSlice(a.A); ok {
				if ip = ip.Unmap(); ip.Is4() {
					hints = append(hints, RootHint{
						Name: strings.ToLower(a.Hdr.Name),
						Addr: ip,
					})
				}
			}
		}
	}
	if err = zp.Err(); err != nil {
		return nil, err
	}
	if len(hints) == 0 {
		return nil, ErrNoRootHints
	}
	sort.Slice(hints, func(i, j int) bool { return hints[i].Name < hints[j].Name })
	return hints, nil
}

// LoadRootHints is ParseRootHints for a file on disk.
func LoadRootHints(path string) ([]RootHint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseRootHints(f)
}
