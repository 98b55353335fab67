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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"braviad/internal/network"
	"braviad/internal/state"
)

// Dispatcher precondition errors. A rejected command never issues a
// network call.
var (
	ErrDisplayOff  = errors.New("display is off")
	ErrVolumeRange = errors.New("volume must be between 0 and 100")
	ErrVolumeStep  = errors.New("volume step must be one of ±2, ±5, ±10")
)

// MuteMode selects the setMute behavior
type MuteMode string

const (
	MuteOn     MuteMode = "on"
	MuteOff    MuteMode = "off"
	MuteToggle MuteMode = "toggle"
)

// SetPower turns the display on or off. The local display-on flag is
// updated optimistically since the device may take a while to follow.
// Powering on a fully-off device falls back to Wake-on-LAN.
func (s *Session) SetPower(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.displayOn = on
	s.storeSet(state.FieldDisplayOn, strconv.FormatBool(on))

	_, err := s.client.Do(WithParams(SetPowerStatus, map[string]any{"status": on}), ShapeNone)
	if err == nil {
		return nil
	}

	if on && (errors.Is(err, ErrUnreachable) || errors.Is(err, ErrDeviceBusy)) {
		// Device is fully off; a magic packet is the only way in
		if wakeErr := s.wakeLocked(); wakeErr == nil {
			return nil
		}
	}
	return err
}

// wakeLocked fires a best-effort Wake-on-LAN packet, resolving the MAC
// from the ARP table when the endpoint does not carry one
func (s *Session) wakeLocked() error {
	mac := s.endpoint.MAC
	if mac == "" {
		resolved, ok := network.LookupMAC(s.endpoint.Host)
		if !ok {
			return fmt.Errorf("no MAC address known for %s", s.endpoint.Host)
		}
		mac = resolved
		s.storeSet(state.FieldMAC, mac)
	}

	if err := s.wake(mac); err != nil {
		s.logger.Warn().Err(err).Str("mac", mac).Msg("Wake-on-LAN failed")
		return err
	}

	s.logger.Info().Str("mac", mac).Msg("Wake-on-LAN packet sent")
	return nil
}

// SetMute controls speaker muting. Requires the display to be on.
// Toggling with no previously observed mute state is a no-op.
func (s *Session) SetMute(mode MuteMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.displayOn {
		return ErrDisplayOff
	}

	var target bool
	switch mode {
	case MuteOn:
		target = true
	case MuteOff:
		target = false
	case MuteToggle:
		if !s.muteKnown {
			s.logger.Debug().Msg("Mute toggle with unknown prior state, ignoring")
			return nil
		}
		target = !s.muted
	default:
		return fmt.Errorf("unknown mute mode %q", mode)
	}

	_, err := s.client.Do(WithParams(SetAudioMute, map[string]any{"status": target}), ShapeNone)
	if err != nil {
		return err
	}

	s.muted = target
	s.muteKnown = true
	if target {
		s.volume = 0
	}
	s.syncStoreLocked()
	return nil
}

// SetVolume sets the absolute speaker volume. Out-of-range values are
// rejected before any network call.
func (s *Session) SetVolume(volume int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.displayOn {
		return ErrDisplayOff
	}
	if volume < 0 || volume > 100 {
		return ErrVolumeRange
	}

	_, err := s.client.Do(WithParams(SetAudioVolume, map[string]any{
		"target": "speaker",
		"volume": strconv.Itoa(volume),
	}), ShapeNone)
	if err != nil {
		return err
	}

	s.volume = volume
	s.syncStoreLocked()
	return nil
}

// SetVolumeStep adjusts the volume relatively. Only magnitudes 2, 5 and
// 10 are accepted; the cached volume follows the delta, clamped to
// [0,100].
func (s *Session) SetVolumeStep(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.displayOn {
		return ErrDisplayOff
	}

	magnitude := delta
	if magnitude < 0 {
		magnitude = -magnitude
	}
	allowed := false
	for _, step := range allowedVolumeSteps {
		if magnitude == step {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrVolumeStep
	}

	_, err := s.client.Do(WithParams(SetAudioVolume, map[string]any{
		"target": "speaker",
		"volume": fmt.Sprintf("%+d", delta),
	}), ShapeNone)
	if err != nil {
		return err
	}

	s.volume = clampVolume(s.volume + delta)
	s.syncStoreLocked()
	return nil
}

func clampVolume(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}

// SetActiveApp launches an application by URI. A URI without a known
// app prefix is silently ignored.
func (s *Session) SetActiveApp(uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !hasAppPrefix(uri) {
		s.logger.Warn().Str("uri", uri).Msg("Ignoring malformed app URI")
		return nil
	}

	_, err := s.client.Do(WithParams(SetActiveApp, map[string]any{"uri": uri}), ShapeNone)
	return err
}

func hasAppPrefix(uri string) bool {
	for _, prefix := range appURIPrefixes {
		if strings.HasPrefix(uri, prefix) {
			return true
		}
	}
	return false
}

// SetPlayContent switches playback to a content URI. The URI is
// case-sensitive and passed through untouched.
func (s *Session) SetPlayContent(uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.client.Do(WithParams(SetPlayContent, map[string]any{"uri": uri}), ShapeNone)
	return err
}

// SetTextForm injects text into an on-device keyboard field. The text is
// an opaque bare-string parameter.
func (s *Session) SetTextForm(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.client.Do(WithParams(SetTextForm, text), ShapeNone)
	return err
}

// TerminateApps closes all running applications
func (s *Session) TerminateApps() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.client.Do(Simple(TerminateApps), ShapeNone)
	return err
}

// SendRemoteCode injects an infrared button press by command name or raw
// code. An unresolvable input is dropped with a log entry, not an error.
func (s *Session) SendRemoteCode(nameOrCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.irTable.Resolve(nameOrCode)
	if !ok {
		s.logger.Warn().Str("command", nameOrCode).Msg("Unresolvable remote command, dropping")
		return nil
	}

	if name, ok := s.irTable.NameOf(code); ok {
		s.logger.Debug().
			Str("name", name).
			Str("code", string(code)).
			Msg("Sending remote code")
	}

	_, err := s.client.Do(RawIRCC(code), ShapeNone)
	return err
}

// Invoke executes an arbitrary request under the session lock. This is
// the escape hatch for methods like getMethodTypes that need an explicit
// service override.
func (s *Session) Invoke(req Request, shape ResultShape) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Do(req, shape)
}

// SystemInfo queries device identification data
func (s *Session) SystemInfo() (map[string]any, error) {
	result, err := s.Invoke(Simple(GetSystemInformation), ShapeFlat)
	if err != nil {
		return nil, err
	}
	return result.Flat, nil
}

// PowerStatus queries the current power state directly
func (s *Session) PowerStatus() (PowerState, error) {
	result, err := s.Invoke(Simple(GetPowerStatus), ShapeFlat)
	if err != nil {
		return PowerUnknown, err
	}
	switch PowerState(asString(result.Flat["status"])) {
	case PowerActive:
		return PowerActive, nil
	case PowerStandby:
		return PowerStandby, nil
	default:
		return PowerUnknown, nil
	}
}

// VolumeInfo queries all audio output targets
func (s *Session) VolumeInfo() ([]map[string]any, error) {
	result, err := s.Invoke(Simple(GetVolumeInformation), ShapeNested)
	if err != nil {
		return nil, err
	}
	return result.Nested, nil
}

// AppList queries the installed applications
func (s *Session) AppList() ([]map[string]any, error) {
	result, err := s.Invoke(Simple(GetApplicationList), ShapeNested)
	if err != nil {
		return nil, err
	}
	return result.Nested, nil
}

// PlayingContent queries the currently playing content
func (s *Session) PlayingContent() (map[string]any, error) {
	result, err := s.Invoke(Simple(GetPlayingContentInfo), ShapeFlat)
	if err != nil {
		return nil, err
	}
	return result.Flat, nil
}

// Status assembles a human-readable multi-line report of the device
func (s *Session) Status() (string, error) {
	info, err := s.SystemInfo()
	if err != nil {
		return "", err
	}
	power, err := s.PowerStatus()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Model:    %s\n", asString(info["model"]))
	fmt.Fprintf(&b, "Name:     %s\n", asString(info["name"]))
	fmt.Fprintf(&b, "Firmware: %s\n", asString(info["generation"]))
	fmt.Fprintf(&b, "MAC:      %s\n", asString(info["macAddr"]))
	fmt.Fprintf(&b, "Power:    %s\n", power)

	if power == PowerActive {
		targets, err := s.VolumeInfo()
		if err != nil {
			return "", err
		}
		for _, target := range targets {
			fmt.Fprintf(&b, "Audio:    %s volume=%s mute=%s\n",
				asString(target["target"]),
				asString(target["volume"]),
				asString(target["mute"]))
		}
	}

	return b.String(), nil
}
