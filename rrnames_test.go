package resolver

import "testing"

func TestTypeToString(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		code uint16
		want string
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
		{0, "UNKNOWN"},
		{999, "UNKNOWN"},
		{65535, "UNKNOWN"},
	} {
		if got := TypeToString(tc.code); got != tc.want {
			t.Errorf("TypeToString(%d) got=%q want=%q", tc.code, got, tc.want)
		}
	}
}

func TestClassToString(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		code uint16
		want string
	}{
		{1, "IN"},
		{3, "CH"},
		{4, "HS"},
		{2, "UNKNOWN"},
		{255, "UNKNOWN"},
	} {
		if got := ClassToString(tc.code); got != tc.want {
			t.Errorf("ClassToString(%d) got=%q want=%q", tc.code, got, tc.want)
		}
	}
}
