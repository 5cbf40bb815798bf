package resolver

import (
	"fmt"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// maxResponseSize is both the EDNS0 advertised payload size and the size of
// the transport's receive buffer.
const maxResponseSize = dns.DefaultMsgSize

// canonicalQname IDNA encodes qname and makes it fully qualified. This is
// the exact form questions are packed with, so it doubles as the cache key.
func canonicalQname(qname string) (string, error) {
	punyName, err := idna.Lookup.ToASCII(qname)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	if !dns.IsFqdn(punyName) {
		punyName = dns.Fqdn(punyName)
	}
	return punyName, nil
}

// buildQuery assembles and packs a query for qname/qtype/qclass. The qname
// is IDNA encoded and made fully qualified; qtype and qclass are opaque
// codes and pass through unvalidated. The query requests recursion, carries
// a pseudo-random transaction id and advertises EDNS0 with the DO bit set.
func buildQuery(qname string, qtype, qclass uint16) (msg *dns.Msg, wire []byte, err error) {
	var punyName string
	if punyName, err = canonicalQname(qname); err != nil {
		return nil, nil, err
	}
	msg = new(dns.Msg)
	msg.Id = dns.Id()
	msg.RecursionDesired = true
	msg.Question = []dns.Question{{
		Name:   punyName,
		Qtype:  qtype,
		Qclass: qclass,
	}}
	setEDNS(msg)
	if wire, err = msg.Pack(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrQueryBuild, err)
	}
	return msg, wire, nil
}

// setEDNS appends the OPT pseudo-record signaling DNSSEC interest. The OPT
// is attached to every query regardless of the resolver's DNSSEC flag; only
// the response-side RRSIG scan is gated on that flag.
func setEDNS(m *dns.Msg) {
	opt := &dns.OPT{Hdr: dns.RR_Header{Name: ".", Rrtype: dns.TypeOPT}}
	opt.SetUDPSize(maxResponseSize)
	opt.SetDo()
	m.Extra = append(m.Extra, opt)
}
