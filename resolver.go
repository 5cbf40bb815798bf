// Package resolver implements a minimal recursive DNS resolver client that
// sends each query to the IANA root nameservers in a fixed fallback order
// and returns the first response, using github.com/miekg/dns for the wire
// format. It follows no referrals and verifies no signatures; the Secure
// flag only reports that a signature record was present.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/net/proxy"
)

//go:generate go run ./cmd/genhints roothints.gen.go

var ErrInvalidParameters = errors.New("resolver: invalid parameters")
var ErrInvalidName = errors.New("resolver: invalid domain name")
var ErrQueryBuild = errors.New("resolver: failed to create query")
var ErrNoResponse = errors.New("resolver: no response from root servers")
var ErrUnparsableResponse = errors.New("resolver: failed to parse response")
var ErrResolverClosed = errors.New("resolver: closed")

// errServersExhausted carries the attempt count behind ErrNoResponse.
type errServersExhausted struct {
	attempts int
}

func (e errServersExhausted) Error() string {
	return ErrNoResponse.Error() + " (" + strconv.Itoa(e.attempts) + " attempts)"
}

func (e errServersExhausted) Is(target error) bool {
	return target == ErrNoResponse
}

func (e errServersExhausted) Unwrap() error {
	return ErrNoResponse
}

// Resolver holds the long-lived configuration shared by Resolve calls: the
// DNSSEC toggle, the configured timeout and an optional root hints path.
// Exported fields may be adjusted between New and the first Resolve; after
// that only Close may be used concurrently with Resolve.
type Resolver struct {
	proxy.ContextDialer // opens the UDP sockets, defaults to &net.Dialer{}

	// Timeout is retained as configuration but is not consulted by the
	// transport: every datagram exchange uses a fixed five second deadline.
	Timeout time.Duration
	DNSPort uint16    // destination port, 53 when zero
	Trace   io.Writer // optional per-call debug trace

	dnssecEnabled bool
	rootHints     string
	rootServers   []netip.Addr
	closed        atomic.Bool
}

// New returns a Resolver that consults the fixed root server list. The
// timeout range is not validated and rootHints is kept as an opaque string;
// no code path opens the file.
func New(dnssecEnabled bool, timeout time.Duration, rootHints string) *Resolver {
	return &Resolver{
		ContextDialer: &net.Dialer{},
		Timeout:       timeout,
		DNSPort:       53,
		dnssecEnabled: dnssecEnabled,
		rootHints:     rootHints,
		rootServers:   append([]netip.Addr(nil), Roots4...),
	}
}

// Close releases the resolver. It is safe on a nil or already closed
// Resolver; Resolve calls that observe the closed state yield an error
// result.
func (r *Resolver) Close() error {
	if r != nil {
		r.closed.Store(true)
	}
	return nil
}

// DNSSECEnabled reports whether responses are scanned for RRSIG presence.
func (r *Resolver) DNSSECEnabled() bool {
	return r != nil && r.dnssecEnabled
}

// RootHints returns the stored hints path, possibly empty.
func (r *Resolver) RootHints() string {
	if r == nil {
		return ""
	}
	return r.rootHints
}

// RootServers returns a copy of the fallback list in precedence order.
func (r *Resolver) RootServers() []netip.Addr {
	if r == nil {
		return nil
	}
	return append([]netip.Addr(nil), r.rootServers...)
}

func (r *Resolver) port() uint16 {
	if r.DNSPort != 0 {
		return r.DNSPort
	}
	return 53
}

func (r *Resolver) transport() *transport {
	return &transport{dialer: r.ContextDialer, port: r.port(), timeout: udpTimeout}
}

// Resolve sends one query for qname/qtype/qclass to the root servers in
// fallback order and returns the first response received. The returned
// Result is always fully formed; in the error form the same error is also
// returned, wrapping one of the package sentinels, or carrying the context
// error when the call starts on an expired context. DNS-level error codes
// in a response are not errors of this call: they are successful
// resolutions passed through verbatim.
//
// ctx is consulted when the call starts and when dialing; an expired ctx
// does not interrupt a receive already in progress.
func (r *Resolver) Resolve(ctx context.Context, qname string, qtype, qclass uint16) (res *Result, err error) {
	start := time.Now()
	defer func() {
		result := outcomeLabel(err)
		metricResolutions.WithLabelValues(result).Inc()
		metricResolveDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}()
	if ctx == nil {
		ctx = context.Background()
	}
	job := &resolution{
		resolver: r,
		ctx:      ctx,
		qname:    qname,
		qtype:    qtype,
		qclass:   qclass,
	}
	if r != nil {
		job.log = logContext{writer: r.Trace, start: start}
	}
	for state := stateValidating; state != stateDone; {
		state = job.step(state)
	}
	res = job.res
	err = job.err
	return
}

// -------- Resolution state machine ---------

// resolveState enumerates the phases of one Resolve call. Every state has
// exactly one successor on success; any failure jumps straight to stateDone
// with the error form of the Result. The per-server fallback loop is
// contained entirely within stateQueryingServers.
type resolveState uint8

const (
	stateValidating resolveState = iota
	stateBuildingQuery
	stateQueryingServers
	stateParsingResponse
	stateClassifyingSecurity
	stateDone
)

func (s resolveState) String() string {
	switch s {
	case stateValidating:
		return "Validating"
	case stateBuildingQuery:
		return "BuildingQuery"
	case stateQueryingServers:
		return "QueryingServers"
	case stateParsingResponse:
		return "ParsingResponse"
	case stateClassifyingSecurity:
		return "ClassifyingSecurity"
	}
	return "Done"
}

// resolution carries one Resolve call through the state machine.
type resolution struct {
	resolver *Resolver
	ctx      context.Context
	log      logContext
	qname    string
	qtype    uint16
	qclass   uint16
	attempts int
	query    []byte
	wire     []byte
	origin   netip.Addr
	msg      *dns.Msg
	res      *Result
	err      error
}

func (j *resolution) step(state resolveState) resolveState {
	switch state {
	case stateValidating:
		return j.validate()
	case stateBuildingQuery:
		return j.build()
	case stateQueryingServers:
		return j.queryServers()
	case stateParsingResponse:
		return j.parse()
	case stateClassifyingSecurity:
		return j.classify()
	}
	return stateDone
}

func (j *resolution) fail(err error) resolveState {
	j.err = err
	j.res = errorResult(err)
	j.logf(0, "FAILED %v", err)
	return stateDone
}

func (j *resolution) validate() resolveState {
	if j.resolver == nil || j.qname == "" {
		return j.fail(ErrInvalidParameters)
	}
	if j.resolver.closed.Load() {
		return j.fail(ErrResolverClosed)
	}
	if err := j.ctx.Err(); err != nil {
		return j.fail(err)
	}
	return stateBuildingQuery
}

func (j *resolution) build() resolveState {
	msg, wire, err := buildQuery(j.qname, j.qtype, j.qclass)
	if err != nil {
		return j.fail(err)
	}
	j.query = wire
	j.logf(0, "QUERY %s %s %q id=%d %d bytes", ClassToString(j.qclass), TypeToString(j.qtype), msg.Question[0].Name, msg.Id, len(wire))
	return stateQueryingServers
}

func (j *resolution) queryServers() resolveState {
	tr := j.resolver.transport()
	for _, server := range j.resolver.rootServers {
		j.attempts++
		metricServerAttempts.WithLabelValues(server.String()).Inc()
		j.logf(1, "SENDING  udp4: @%s %s %q", server, TypeToString(j.qtype), j.qname)
		begin := time.Now()
		wire, err := tr.roundTrip(j.ctx, server, j.query)
		if err != nil {
			j.logf(1, "SEND FAIL udp4: @%s err=%v", server, err)
			continue
		}
		j.logf(1, "RECEIVED udp4: @%s %s %q (%s, %d bytes)", server, TypeToString(j.qtype), j.qname, formatDuration(time.Since(begin)), len(wire))
		j.wire = wire
		j.origin = server
		if len(j.wire) == 0 {
			return j.fail(errServersExhausted{attempts: j.attempts})
		}
		return stateParsingResponse
	}
	return j.fail(errServersExhausted{attempts: j.attempts})
}

func (j *resolution) parse() resolveState {
	msg := new(dns.Msg)
	if err := msg.Unpack(j.wire); err != nil {
		return j.fail(fmt.Errorf("%w: %v", ErrUnparsableResponse, err))
	}
	j.msg = msg
	return stateClassifyingSecurity
}

func (j *resolution) classify() resolveState {
	secure := false
	if j.resolver.dnssecEnabled {
		secure = hasRRSIG(j.msg)
	}
	j.res = &Result{
		Wire:   j.wire,
		Rcode:  j.msg.Rcode,
		Secure: secure,
	}
	j.logf(0, "DONE rcode=%s secure=%v %d bytes from %s", j.res.RcodeString(), secure, len(j.wire), j.origin)
	return stateDone
}

// hasRRSIG reports whether any section of msg contains an RRSIG record.
func hasRRSIG(msg *dns.Msg) bool {
	return hasRRType(msg.Answer, dns.TypeRRSIG) ||
		hasRRType(msg.Ns, dns.TypeRRSIG) ||
		hasRRType(msg.Extra, dns.TypeRRSIG)
}

func hasRRType(rrs []dns.RR, t uint16) bool {
	for _, rr := range rrs {
		if rr.Header().Rrtype == t {
			return true
		}
	}
	return false
}

// -------- Trace logging ---------

type logContext struct {
	writer io.Writer
	start  time.Time
}

func (j *resolution) logf(depth int, format string, args ...any) {
	if j.log.writer == nil {
		return
	}
	elapsed := time.Since(j.log.start).Milliseconds()
	indent := strings.Repeat("  ", depth)
	_, _ = fmt.Fprintf(j.log.writer, "[%6dms] %s%s\n", elapsed, indent, fmt.Sprintf(format, args...))
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0ms"
	}
	ms := d.Milliseconds()
	if ms == 0 {
		return "<1ms"
	}
	return fmt.Sprintf("%dms", ms)
}
