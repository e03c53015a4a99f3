package netstack

import "time"

const (
	dnsQueryPort  = 5353
	dnsServerPort = 53
	dnsRetries    = 3
	dnsWaitPerTry = 3 * time.Second
	dnsHeaderLen  = 12
	dnsTypeA      = 1
	dnsClassIN    = 1
)

var fallbackDNSServer = IPv4{8, 8, 8, 8}

type dnsState struct {
	resolved bool
	result   IPv4
}

func encodeDNSName(hostname string) []byte {
	var out []byte

	start := 0
	for i := 0; i <= len(hostname); i++ {
		if i == len(hostname) || hostname[i] == '.' {
			label := hostname[start:i]
			out = append(out, byte(len(label)))
			out = append(out, label...)
			start = i + 1
		}
	}

	return append(out, 0)
}

func buildDNSQuery(hostname string) []byte {
	h := make([]byte, dnsHeaderLen)
	putU16(h[0:2], 0x1234) // transaction id
	putU16(h[2:4], 0x0100) // standard query, recursion desired
	putU16(h[4:6], 1)      // question count

	question := encodeDNSName(hostname)
	question = append(question, 0, dnsTypeA, 0, dnsClassIN)

	return append(h, question...)
}

// skipDNSName advances past a name at p, following either a sequence of length-prefixed labels
// terminated by a zero byte, or a single 2-byte compression pointer (0xC0 prefix), per dns.c's
// inline name-skipping logic.
func skipDNSName(data []byte, p int) int {
	if p >= len(data) {
		return p
	}

	if data[p]&0xC0 == 0xC0 {
		return p + 2
	}

	for p < len(data) && data[p] != 0 {
		p += int(data[p]) + 1
	}

	return p + 1
}

// parseDNSResponse extracts the first A-record answer's address, following dns.c's
// dns_handle_response: skip the question section, then walk answers looking for type==1.
func parseDNSResponse(data []byte) (IPv4, bool) {
	if len(data) < dnsHeaderLen {
		return IPv4{}, false
	}

	flags := getU16(data[2:4])
	if flags&0x8000 == 0 {
		return IPv4{}, false // not a response
	}

	qCount := int(getU16(data[4:6]))
	ansCount := int(getU16(data[6:8]))

	p := dnsHeaderLen
	for i := 0; i < qCount; i++ {
		p = skipDNSName(data, p)
		p += 4 // type + class
	}

	for i := 0; i < ansCount; i++ {
		p = skipDNSName(data, p)

		if p+10 > len(data) {
			return IPv4{}, false
		}

		rtype := getU16(data[p : p+2])
		dlen := int(getU16(data[p+8 : p+10]))
		p += 10

		if rtype == dnsTypeA && dlen == 4 && p+4 <= len(data) {
			var ip IPv4
			copy(ip[:], data[p:p+4])

			return ip, true
		}

		p += dlen
	}

	return IPv4{}, false
}

// Resolve looks up hostname's A record against the DHCP-learned DNS server (falling back to
// 8.8.8.8), retrying up to 3 times with a bounded poll loop each attempt, per dns.c's dns_resolve.
func (s *Stack) Resolve(hostname string) (IPv4, bool) {
	s.dns = dnsState{}

	s.RegisterUDP(dnsQueryPort, func(src IPv4, srcPort uint16, srcMAC MACAddr, payload []byte) {
		if ip, ok := parseDNSResponse(payload); ok {
			s.dns.result = ip
			s.dns.resolved = true
		}
	})
	defer s.UnregisterUDP(dnsQueryPort)

	server := s.dhcp.dnsServer
	if server == (IPv4{}) {
		server = fallbackDNSServer
	}

	query := buildDNSQuery(hostname)

	for attempt := 0; attempt < dnsRetries && !s.dns.resolved; attempt++ {
		s.SendUDP(server, dnsQueryPort, dnsServerPort, query)

		deadline := time.Now().Add(dnsWaitPerTry)
		for !s.dns.resolved && time.Now().Before(deadline) {
			s.processFrames()
		}
	}

	return s.dns.result, s.dns.resolved
}
