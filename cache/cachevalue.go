package cache

import (
	"time"

	"github.com/miekg/dns"
)

// Value is what the cache hands back for a question: the parsed message,
// the datagram it was parsed from, and whether the response was classified
// as signed when it arrived.
type Value struct {
	Msg    *dns.Msg
	Wire   []byte
	Secure bool
}

type cacheEntry struct {
	value   Value
	expires time.Time
}
