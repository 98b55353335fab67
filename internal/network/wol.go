// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package network is the OS-facing collaborator: Wake-on-LAN packet
// transmission and ARP-table MAC lookup. Both are best-effort and their
// failure is never fatal to the device core.
package network

import (
	"fmt"
	"net"

	"braviad/internal/logger"
)

// wolPort is the conventional discard port for magic packets
const wolPort = 9

// MagicPacket builds the Wake-on-LAN payload for a MAC address: six
// 0xFF bytes followed by the MAC repeated sixteen times
func MagicPacket(mac string) ([]byte, error) {
	hwAddr, err := net.ParseMAC(mac)
	if err != nil {
		return nil, fmt.Errorf("invalid MAC address %q: %w", mac, err)
	}
	if len(hwAddr) != 6 {
		return nil, fmt.Errorf("unsupported MAC length %d for %q", len(hwAddr), mac)
	}

	packet := make([]byte, 0, 102)
	for i := 0; i < 6; i++ {
		packet = append(packet, 0xFF)
	}
	for i := 0; i < 16; i++ {
		packet = append(packet, hwAddr...)
	}
	return packet, nil
}

// Wake broadcasts a magic packet for the given MAC address
func Wake(mac string) error {
	log := logger.GetLogger("network.wol")

	packet, err := MagicPacket(mac)
	if err != nil {
		return err
	}

	conn, err := net.Dial("udp", fmt.Sprintf("255.255.255.255:%d", wolPort))
	if err != nil {
		return fmt.Errorf("failed to open broadcast socket: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write(packet); err != nil {
		return fmt.Errorf("failed to send magic packet: %w", err)
	}

	log.Debug().
		Str("mac", mac).
		Msg("Magic packet sent")

	return nil
}
