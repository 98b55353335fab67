package network

import (
	"bufio"
	"net"
	"os"
	"strings"
)

// arpTablePath is the kernel's ARP table; absent on non-Linux hosts,
// which degrades LookupMAC to a miss
const arpTablePath = "/proc/net/arp"

// LookupMAC resolves the hardware address the kernel has cached for an
// IP. Best-effort: any parse or read failure reports a miss.
func LookupMAC(ip string) (string, bool) {
	host := ip
	// Tolerate host:port addresses
	if h, _, err := net.SplitHostPort(ip); err == nil {
		host = h
	}

	file, err := os.Open(arpTablePath)
	if err != nil {
		return "", false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// Skip the header line
	scanner.Scan()

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// IP address, HW type, Flags, HW address, Mask, Device
		if len(fields) < 4 {
			continue
		}
		if fields[0] != host {
			continue
		}
		mac := fields[3]
		if mac == "00:00:00:00:00:00" {
			continue
		}
		if _, err := net.ParseMAC(mac); err != nil {
			continue
		}
		return mac, true
	}

	return "", false
}
