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

package bravia

// Endpoint identifies a single television on the LAN. Immutable after
// construction; the MAC address may be empty and is then resolved
// best-effort from the ARP table.
type Endpoint struct {
	Host string
	PSK  string
	MAC  string
}

// ConnectionState represents the logical connection to the television
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnected
)

func (s ConnectionState) String() string {
	if s == StateConnected {
		return "connected"
	}
	return "disconnected"
}

// PowerState is re-read on every poll tick. The physical remote or other
// clients can flip it out-of-band, so it is never cached beyond one tick.
type PowerState string

const (
	PowerActive  PowerState = "active"
	PowerStandby PowerState = "standby"
	PowerUnknown PowerState = "unknown"
)

// BraviaService is a namespace segment in the REST API path
type BraviaService string

// BraviaMethod is an API method name
type BraviaMethod string

// BraviaRemoteCode is an IRCC infrared code string
type BraviaRemoteCode string

// BraviaPayload is the JSON-RPC-shaped request body for control API calls.
// Params entries may be maps, bare strings or numbers depending on method.
type BraviaPayload struct {
	ID      int    `json:"id"`
	Version string `json:"version"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// RemoteCommand is one entry of the device's IR capability listing
type RemoteCommand struct {
	Name string `json:"name"`
	Code string `json:"value"`
}
