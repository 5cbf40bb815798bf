package resolver

import (
	"strconv"

	"github.com/miekg/dns"
)

// Result is the outcome of a single Resolve call. Exactly one of two forms
// holds: the response form, where Wire carries the full response datagram
// and Rcode comes from its header, or the error form, where Wire is nil,
// Rcode is fixed to SERVFAIL and ErrorMsg describes the failure. A response
// carrying a DNS-level error code (NXDOMAIN, SERVFAIL from the server, ...)
// is still the response form.
type Result struct {
	Wire     []byte // raw response datagram, nil in the error form
	Rcode    int    // response code, dns.RcodeServerFailure in the error form
	Secure   bool   // response contained at least one RRSIG record (structural check, nothing is verified)
	Bogus    bool   // reserved for future signature validation, never set by any current path
	ErrorMsg string // failure description, empty in the response form
}

// Ok reports whether the result is the response form.
func (res *Result) Ok() bool {
	return res != nil && res.ErrorMsg == ""
}

// RcodeString returns the textual name of the result's response code.
func (res *Result) RcodeString() string {
	if s, ok := dns.RcodeToString[res.Rcode]; ok {
		return s
	}
	return strconv.Itoa(res.Rcode)
}

func errorResult(err error) *Result {
	return &Result{
		Rcode:    dns.RcodeServerFailure,
		ErrorMsg: err.Error(),
	}
}
