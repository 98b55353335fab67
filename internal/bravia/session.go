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

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"braviad/internal"
	"braviad/internal/logger"
	"braviad/internal/network"
	"braviad/internal/state"
)

// defaultPollInterval is a scheduling parameter, not a user tunable
const defaultPollInterval = 30 * time.Second

// WakeFunc transmits a Wake-on-LAN packet for a MAC address
type WakeFunc func(mac string) error

// Session owns the logical connection to one television: the
// disconnected/connected state machine, the per-epoch IR capability
// table and the observable power/volume/mute state. The poll loop and
// the command dispatcher share one mutex, so a user command never
// overlaps a poll tick in flight.
type Session struct {
	client   *BraviaClient
	endpoint Endpoint
	store    state.Store
	wake     WakeFunc
	logger   zerolog.Logger

	pollInterval   time.Duration
	onConnectivity func(connected bool)

	mu        sync.Mutex
	state     ConnectionState
	power     PowerState
	volume    int
	muted     bool
	muteKnown bool
	displayOn bool
	model     string

	irTable *IRCommandTable
}

// NewSession creates a session for one device endpoint. A nil store
// falls back to an in-memory one.
func NewSession(endpoint Endpoint, store state.Store, options *internal.FnModeOptions) *Session {
	if store == nil {
		store = state.NewMemoryStore()
	}

	return &Session{
		client:       NewBraviaClient(endpoint.Host, endpoint.PSK, options),
		endpoint:     endpoint,
		store:        store,
		wake:         network.Wake,
		logger:       logger.GetLogger("bravia.session"),
		pollInterval: defaultPollInterval,
		state:        StateDisconnected,
		power:        PowerUnknown,
		irTable:      NewIRCommandTable(),
	}
}

// OnConnectivityChange registers the callback fired whenever the
// connection state flips. The callback runs outside the session lock.
func (s *Session) OnConnectivityChange(fn func(connected bool)) {
	s.onConnectivity = fn
}

// SetWakeFunc replaces the Wake-on-LAN collaborator
func (s *Session) SetWakeFunc(fn WakeFunc) {
	s.wake = fn
}

// Run drives the poll cycle until the context is cancelled. Fixed-delay
// scheduling; a failed tick neither accelerates nor delays the next one.
func (s *Session) Run(ctx context.Context) {
	s.logger.Info().
		Str("host", s.endpoint.Host).
		Dur("interval", s.pollInterval).
		Msg("Starting poll loop")

	s.Tick()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Poll loop stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick executes one poll cycle. Exactly one tick runs at a time; the
// session lock also excludes concurrent dispatcher commands.
func (s *Session) Tick() {
	s.mu.Lock()
	prev := s.state

	switch s.state {
	case StateDisconnected:
		s.tickDisconnected()
	case StateConnected:
		s.tickConnected()
	}

	current := s.state
	s.mu.Unlock()

	if prev != current && s.onConnectivity != nil {
		s.onConnectivity(current == StateConnected)
	}
}

// tickDisconnected probes the device with a lightweight system-info
// query. Connected is entered only after the capability fetch also
// succeeds, never from the probe alone.
func (s *Session) tickDisconnected() {
	result, err := s.client.Do(Simple(GetSystemInformation), ShapeFlat)
	if err != nil {
		// Expected while the device is off the network
		s.logger.Debug().Err(err).Msg("System info probe failed")
		return
	}

	s.model = asString(result.Flat["model"])

	count, err := s.refreshIRCodesLocked()
	if err != nil {
		s.logger.Debug().Err(err).Msg("IR code fetch failed, staying disconnected")
		return
	}

	s.setStateLocked(StateConnected)
	s.logger.Info().
		Str("model", s.model).
		Int("ir_codes", count).
		Msg("Device connected")
}

// tickConnected re-reads power status and, while the display is active,
// the audio state. Any failure demotes immediately; the IR table is left
// in place, stale but harmless until the next reconnection refresh.
func (s *Session) tickConnected() {
	result, err := s.client.Do(Simple(GetPowerStatus), ShapeFlat)
	if err != nil {
		s.logger.Info().Err(err).Msg("Power status poll failed, disconnecting")
		s.setStateLocked(StateDisconnected)
		return
	}

	switch PowerState(asString(result.Flat["status"])) {
	case PowerActive:
		s.power = PowerActive
		s.displayOn = true
		s.pollAudioState()
	case PowerStandby:
		s.power = PowerStandby
		s.displayOn = false
		// The device exposes no audio info while off; force the
		// observables locally instead of querying
		s.volume = 0
		s.muted = false
		s.muteKnown = true
	default:
		s.power = PowerUnknown
	}

	s.syncStoreLocked()
}

// pollAudioState refreshes volume and mute from the speaker target
func (s *Session) pollAudioState() {
	result, err := s.client.Do(Simple(GetVolumeInformation), ShapeNested)
	if err != nil {
		s.logger.Info().Err(err).Msg("Volume poll failed, disconnecting")
		s.setStateLocked(StateDisconnected)
		return
	}

	for _, target := range result.Nested {
		if asString(target["target"]) != "speaker" {
			continue
		}
		if volume, ok := asInt(target["volume"]); ok {
			s.volume = volume
		}
		if muted, ok := asBool(target["mute"]); ok {
			s.muted = muted
			s.muteKnown = true
		}
	}
}

// RefreshIRCodes re-fetches the capability table and replaces it
// wholesale, returning the number of commands received
func (s *Session) RefreshIRCodes() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshIRCodesLocked()
}

func (s *Session) refreshIRCodesLocked() (int, error) {
	result, err := s.client.Do(Simple(GetRemoteControllerInfo), ShapeNested)
	if err != nil {
		return 0, err
	}

	commands := make([]RemoteCommand, 0, len(result.Nested))
	for _, entry := range result.Nested {
		commands = append(commands, RemoteCommand{
			Name: asString(entry["name"]),
			Code: asString(entry["value"]),
		})
	}

	count := s.irTable.Replace(commands)
	s.logger.Debug().
		Int("count", count).
		Msg("IR command table replaced")
	return count, nil
}

// setStateLocked transitions the connection state and mirrors it to the
// variable store
func (s *Session) setStateLocked(next ConnectionState) {
	if s.state == next {
		return
	}
	s.state = next

	if next == StateDisconnected {
		s.power = PowerUnknown
	}

	s.logger.Info().
		Str("state", next.String()).
		Msg("Connection state changed")

	s.storeSet(state.FieldConnected, strconv.FormatBool(next == StateConnected))
}

// syncStoreLocked mirrors the observable device state into the
// write-only variable sink
func (s *Session) syncStoreLocked() {
	s.storeSet(state.FieldDisplayOn, strconv.FormatBool(s.displayOn))
	s.storeSet(state.FieldVolume, strconv.Itoa(s.volume))
	s.storeSet(state.FieldMute, strconv.FormatBool(s.muted))
	s.storeSet(state.FieldModel, s.model)
}

// storeSet writes one field, logging instead of failing: persistence is
// a sink, never a poll-cycle dependency
func (s *Session) storeSet(name, value string) {
	if err := s.store.Set(name, value); err != nil {
		s.logger.Warn().Err(err).Str("field", name).Msg("Variable store write failed")
	}
}

// State returns the current connection state
func (s *Session) State() ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Power returns the power state observed by the most recent poll
func (s *Session) Power() PowerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.power
}

// Volume returns the cached speaker volume
func (s *Session) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Muted returns the cached speaker mute flag
func (s *Session) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// DisplayOn reports whether the display is believed to be on
func (s *Session) DisplayOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayOn
}

// Model returns the device model recorded on the last connect
func (s *Session) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// IRCodes exposes the capability table
func (s *Session) IRCodes() *IRCommandTable {
	return s.irTable
}
