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
	"regexp"
	"strings"
	"sync"
)

// codePattern matches the device code format: fixed-length base64-like
// string with a literal == suffix. Codes are case-sensitive.
var codePattern = regexp.MustCompile(`^[A-Za-z0-9+/]{18}==$`)

// IRCommandTable maps lower-cased command names to opaque IRCC codes.
// It is populated wholesale from one capability query per connection
// epoch and never merged incrementally. Stale entries after a disconnect
// are harmless: the device assigns stable codes per firmware.
type IRCommandTable struct {
	mu    sync.RWMutex
	codes map[string]BraviaRemoteCode
}

// NewIRCommandTable creates an empty table
func NewIRCommandTable() *IRCommandTable {
	return &IRCommandTable{
		codes: make(map[string]BraviaRemoteCode),
	}
}

// Replace swaps the whole table atomically. Duplicate codes under
// different names are kept independently resolvable.
func (t *IRCommandTable) Replace(commands []RemoteCommand) int {
	codes := make(map[string]BraviaRemoteCode, len(commands))
	for _, command := range commands {
		if command.Name == "" || command.Code == "" {
			continue
		}
		codes[strings.ToLower(command.Name)] = BraviaRemoteCode(command.Code)
	}

	t.mu.Lock()
	t.codes = codes
	t.mu.Unlock()

	return len(codes)
}

// Resolve maps a command name (case-insensitive) to its code. Input that
// already matches the code pattern is accepted as-is.
func (t *IRCommandTable) Resolve(nameOrCode string) (BraviaRemoteCode, bool) {
	t.mu.RLock()
	code, ok := t.codes[strings.ToLower(nameOrCode)]
	t.mu.RUnlock()
	if ok {
		return code, true
	}

	if codePattern.MatchString(nameOrCode) {
		return BraviaRemoteCode(nameOrCode), true
	}

	return "", false
}

// NameOf reverse-looks-up the name assigned to a code. Used for logging
// symmetry only; sending never requires it. When several names share one
// code any of them may be returned.
func (t *IRCommandTable) NameOf(code BraviaRemoteCode) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for name, candidate := range t.codes {
		if candidate == code {
			return name, true
		}
	}
	return "", false
}

// Names returns the known command names in no particular order
func (t *IRCommandTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.codes))
	for name := range t.codes {
		names = append(names, name)
	}
	return names
}

// Len reports how many commands the table currently holds
func (t *IRCommandTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.codes)
}
