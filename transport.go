package resolver

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/netip"
	"time"

	"golang.org/x/net/proxy"
)

// udpTimeout is the deadline for a single datagram exchange. The Resolver's
// configured Timeout is not consulted here; see the Resolver doc.
const udpTimeout = 5 * time.Second

// transport sends one query datagram to one server and waits for one
// response datagram. No retransmission: one send, one receive, then the
// socket is closed.
type transport struct {
	dialer  proxy.ContextDialer
	port    uint16
	timeout time.Duration
}

func (t *transport) roundTrip(ctx context.Context, server netip.Addr, query []byte) (wire []byte, err error) {
	addrPort := netip.AddrPortFrom(server, t.port)
	var conn net.Conn
	if conn, err = t.dialer.DialContext(ctx, "udp4", addrPort.String()); err != nil {
		return nil, fmt.Errorf("udp4 %s: %w", addrPort, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(t.timeout))
	var n int
	if n, err = conn.Write(query); err == nil && n != len(query) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return nil, fmt.Errorf("udp4 %s: %w", addrPort, err)
	}
	buf := make([]byte, maxResponseSize)
	if n, err = conn.Read(buf); err != nil {
		return nil, fmt.Errorf("udp4 %s: %w", addrPort, err)
	}
	return buf[:n], nil
}
