package shell

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/brewos/kernel/internal/netstack"
)

// netPollTries and netPollInterval bound every busy-wait loop in this file, expressing spec.md
// §9's "poll_until(predicate, max_ticks)" guidance with a host-side tick (the shell's own clock)
// rather than the WM's frame tick, since shell commands run synchronously outside the WM's Tick.
const (
	netPollTries    = 50
	netPollInterval = 10 * time.Millisecond
)

func parseIPv4(s string) (netstack.IPv4, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return netstack.IPv4{}, false
	}

	var ip netstack.IPv4

	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return netstack.IPv4{}, false
		}

		ip[i] = byte(n)
	}

	return ip, true
}

func parsePort(s string) (uint16, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 65535 {
		return 0, false
	}

	return uint16(n), true
}

// requireNet prints spec.md §7's "Network not initialized" banner and returns false if "netinit"
// hasn't run yet -- the error-taxonomy behavior S4 (ping without netinit) exercises.
func requireNet(sh *Shell, out io.Writer) bool {
	if sh.netReady {
		return true
	}

	fmt.Fprintln(out, "Network not initialized")

	return false
}

func cmdNetinit(sh *Shell, _ string, out io.Writer) int {
	if sh.Net.DHCPAcquire() {
		fmt.Fprintf(out, "netinit: DHCP acquired %s\n", sh.Net.IP())
	} else {
		fmt.Fprintln(out, "netinit: DHCP failed, interface up with no address")
	}

	sh.netReady = true

	return 0
}

func cmdNetinfo(sh *Shell, _ string, out io.Writer) int {
	if !requireNet(sh, out) {
		return 1
	}

	fmt.Fprintf(out, "mac: %s\n", sh.Net.MAC())
	fmt.Fprintf(out, "ip:  %s\n", sh.Net.IP())

	return 0
}

func cmdIpset(sh *Shell, argStr string, out io.Writer) int {
	if !requireNet(sh, out) {
		return 1
	}

	ip, ok := parseIPv4(strings.TrimSpace(argStr))
	if !ok {
		fmt.Fprintln(out, "ipset: usage: ipset a.b.c.d")
		return 1
	}

	sh.Net.Configure(ip)

	return 0
}

func cmdUdpsend(sh *Shell, argStr string, out io.Writer) int {
	if !requireNet(sh, out) {
		return 1
	}

	args := strings.SplitN(argStr, " ", 3)
	if len(args) < 3 {
		fmt.Fprintln(out, "udpsend: usage: udpsend ip port message")
		return 1
	}

	ip, ipOK := parseIPv4(args[0])
	port, portOK := parsePort(args[1])

	if !ipOK || !portOK {
		fmt.Fprintln(out, "udpsend: bad address")
		return 1
	}

	sh.Net.SendUDP(ip, udpsendPort, port, []byte(args[2]))

	return 0
}

func cmdUdptest(sh *Shell, _ string, out io.Writer) int {
	if !requireNet(sh, out) {
		return 1
	}

	const testPort = 50001

	received := make(chan []byte, 1)

	sh.Net.RegisterUDP(testPort, func(_ netstack.IPv4, _ uint16, _ netstack.MACAddr, payload []byte) {
		cp := append([]byte(nil), payload...)

		select {
		case received <- cp:
		default:
		}
	})
	defer sh.Net.UnregisterUDP(testPort)

	message := []byte("udptest-loopback")
	sh.Net.SendUDP(sh.Net.IP(), udpsendPort, testPort, message)

	for i := 0; i < netPollTries; i++ {
		sh.Net.Poll()

		select {
		case got := <-received:
			if string(got) == string(message) {
				fmt.Fprintln(out, "ok")
				return 0
			}

			fmt.Fprintln(out, "failed: payload mismatch")

			return 1
		default:
		}

		time.Sleep(netPollInterval)
	}

	fmt.Fprintln(out, "failed: timed out")

	return 1
}

func cmdPing(sh *Shell, argStr string, out io.Writer) int {
	if !requireNet(sh, out) {
		return 1
	}

	ip, ok := parseIPv4(strings.TrimSpace(argStr))
	if !ok {
		fmt.Fprintln(out, "ping: usage: ping a.b.c.d")
		return 1
	}

	lines := sh.Net.Ping(ip, uint16(time.Now().UnixNano()))
	if len(lines) == 0 {
		fmt.Fprintln(out, "ping: timed out")
		return 1
	}

	for _, l := range lines {
		fmt.Fprintln(out, l)
	}

	return 0
}

func cmdDNS(sh *Shell, argStr string, out io.Writer) int {
	if !requireNet(sh, out) {
		return 1
	}

	host := strings.TrimSpace(argStr)
	if host == "" {
		fmt.Fprintln(out, "dns: usage: dns hostname")
		return 1
	}

	ip, ok := sh.Net.Resolve(host)
	if !ok {
		fmt.Fprintln(out, "dns: failed")
		return 1
	}

	fmt.Fprintln(out, ip)

	return 0
}

// cmdHTTPGet implements a minimal GET, grounded on original_source/http.c: resolve the host,
// connect on port 80, send a Connection: close request, poll until data arrives or time out.
func cmdHTTPGet(sh *Shell, argStr string, out io.Writer) int {
	if !requireNet(sh, out) {
		return 1
	}

	host := strings.TrimSpace(argStr)
	if host == "" {
		fmt.Fprintln(out, "httpget: usage: httpget hostname")
		return 1
	}

	ip, ok := parseIPv4(host)
	if !ok {
		fmt.Fprintln(out, "Resolving host...")

		ip, ok = sh.Net.Resolve(host)
		if !ok {
			fmt.Fprintln(out, "DNS resolution failed.")
			return 1
		}
	}

	fmt.Fprintf(out, "Connecting to %s...\n", ip)

	const httpPort = 80

	sock := sh.Net.Connect(ip, httpPort)
	if sock == nil {
		fmt.Fprintln(out, "Connection failed.")
		return 1
	}

	fmt.Fprintln(out, "Sending request...")

	request := "GET / HTTP/1.1\r\nHost: " + host + "\r\nConnection: close\r\n\r\n"
	sh.Net.Send(sock, []byte(request))

	fmt.Fprintln(out, "Waiting for response...")

	buf := make([]byte, 1024)

	var n int

	for i := 0; i < netPollTries; i++ {
		sh.Net.Poll()

		if n = sock.Read(buf); n > 0 {
			break
		}

		time.Sleep(netPollInterval)
	}

	if n <= 0 {
		fmt.Fprintln(out, "No data received.")
		return 1
	}

	fmt.Fprintln(out, "--- Response ---")
	out.Write(buf[:n])
	fmt.Fprintln(out, "\n----------------")

	return 0
}

func cmdPcilist(sh *Shell, _ string, out io.Writer) int {
	devices := sh.PCI.EnumerateDevices(32)

	for _, d := range devices {
		fmt.Fprintf(out, "%02x:%02x.%x vendor=%04x device=%04x class=%02x:%02x\n",
			d.Bus, d.Slot, d.Function, d.VendorID, d.DeviceID, d.ClassCode, d.Subclass)
	}

	return 0
}

func cmdMsgrc(sh *Shell, _ string, out io.Writer) int {
	if !requireNet(sh, out) {
		return 1
	}

	sh.Net.Poll()
	fmt.Fprintln(out, "polled network stack for pending messages")

	return 0
}
