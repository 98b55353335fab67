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

package daemon

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"braviad/internal/device"
)

// cachedResponse is a replayable response tied to a nonce
type cachedResponse struct {
	response  *device.ActionResponse
	timestamp time.Time
}

// ReplayCache deduplicates inbound commands by nonce so a retried
// request replays the original response instead of re-executing the
// command against the device
type ReplayCache struct {
	cache      *lru.Cache[string, *cachedResponse]
	expiration time.Duration
}

// NewReplayCache creates a replay cache bounded by size and age
func NewReplayCache(maxSize int, expiration time.Duration) *ReplayCache {
	if maxSize <= 0 {
		maxSize = 50
	}
	if expiration <= 0 {
		expiration = time.Hour
	}

	cache, _ := lru.New[string, *cachedResponse](maxSize)
	return &ReplayCache{
		cache:      cache,
		expiration: expiration,
	}
}

// Get returns the cached response for a nonce if it is still fresh
func (rc *ReplayCache) Get(nonce string) (*device.ActionResponse, bool) {
	if nonce == "" {
		return nil, false
	}

	entry, ok := rc.cache.Get(nonce)
	if !ok {
		return nil, false
	}
	if time.Since(entry.timestamp) > rc.expiration {
		rc.cache.Remove(nonce)
		return nil, false
	}
	return entry.response, true
}

// Put records the response for a nonce
func (rc *ReplayCache) Put(nonce string, response *device.ActionResponse) {
	if nonce == "" {
		return
	}
	rc.cache.Add(nonce, &cachedResponse{
		response:  response,
		timestamp: time.Now(),
	})
}

// Len reports how many responses are currently cached
func (rc *ReplayCache) Len() int {
	return rc.cache.Len()
}
