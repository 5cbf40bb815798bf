package resolver

// Fixed display tables for DNS type and class codes. This is the vocabulary
// the resolver reports in; any code outside it renders as "UNKNOWN".

const unknownName = "UNKNOWN"

var qtypeNames = []struct {
	code uint16
	name string
}{
	{1, "A"},
	{2, "NS"},
	{5, "CNAME"},
	{6, "SOA"},
	{12, "PTR"},
	{15, "MX"},
	{16, "TXT"},
	{28, "AAAA"},
	{33, "SRV"},
	{43, "DS"},
	{46, "RRSIG"},
	{47, "NSEC"},
	{48, "DNSKEY"},
	{50, "NSEC3"},
	{51, "NSEC3PARAM"},
}

var qclassNames = []struct {
	code uint16
	name string
}{
	{1, "IN"},
	{3, "CH"},
	{4, "HS"},
}

// TypeToString returns the mnemonic for a DNS record type code, or
// "UNKNOWN" for codes outside the table.
func TypeToString(qtype uint16) string {
	for _, e := range qtypeNames {
		if e.code == qtype {
			return e.name
		}
	}
	return unknownName
}

// ClassToString returns the mnemonic for a DNS class code, or "UNKNOWN"
// for codes outside the table.
func ClassToString(qclass uint16) string {
	for _, e := range qclassNames {
		if e.code == qclass {
			return e.name
		}
	}
	return unknownName
}
