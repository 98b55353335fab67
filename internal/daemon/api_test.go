package daemon

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braviad/internal"
	"braviad/internal/bravia"
)

// fakeTV answers the device-side protocol so the API can be exercised
// end to end without hardware
type fakeTV struct {
	mu     sync.Mutex
	calls  map[string]int
	server *httptest.Server
}

func newFakeTV() *fakeTV {
	tv := &fakeTV{calls: map[string]int{}}
	tv.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload bravia.BraviaPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		tv.mu.Lock()
		tv.calls[payload.Method]++
		tv.mu.Unlock()

		body := `{"result":[]}`
		switch payload.Method {
		case "getSystemInformation":
			body = `{"result":[{"model":"KD-55X80J","name":"Test TV"}]}`
		case "getRemoteControllerInfo":
			body = `{"result":[{"bundled":true},[{"name":"Power","value":"AAAAAQAAAAEAAAAVAw=="}]]}`
		case "getPowerStatus":
			body = `{"result":[{"status":"active"}]}`
		case "getVolumeInformation":
			body = `{"result":[1,[{"target":"speaker","volume":15,"mute":false}]]}`
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}))
	return tv
}

func (tv *fakeTV) callCount(method string) int {
	tv.mu.Lock()
	defer tv.mu.Unlock()
	return tv.calls[method]
}

func newTestAPI(t *testing.T, tv *fakeTV) (*bravia.Session, *httptest.Server) {
	t.Helper()

	endpoint := bravia.Endpoint{
		Host: strings.TrimPrefix(tv.server.URL, "http://"),
		PSK:  "0000",
	}
	session := bravia.NewSession(endpoint, nil, internal.NewModeOptions(internal.WithTimeout(2*time.Second)))
	session.Tick()
	session.Tick()

	api := NewAPIServer(session, ":0")
	server := httptest.NewServer(api.server.Handler)
	t.Cleanup(server.Close)
	t.Cleanup(tv.server.Close)

	return session, server
}

func postCommand(t *testing.T, server *httptest.Server, body string) *CommandResponse {
	t.Helper()

	resp, err := http.Post(server.URL+"/command", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var command CommandResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&command))
	return &command
}

func TestAPIStatus(t *testing.T) {
	t.Run("reports the observable session snapshot", func(t *testing.T) {
		tv := newFakeTV()
		_, server := newTestAPI(t, tv)

		resp, err := http.Get(server.URL + "/status")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var status StatusResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
		assert.True(t, status.Connected)
		assert.Equal(t, "active", status.Power)
		assert.Equal(t, 15, status.Volume)
		assert.Equal(t, "KD-55X80J", status.Model)
		assert.Equal(t, 1, status.IRCodes)
	})
}

func TestAPIHealth(t *testing.T) {
	t.Run("answers ok", func(t *testing.T) {
		tv := newFakeTV()
		_, server := newTestAPI(t, tv)

		resp, err := http.Get(server.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestAPICommand(t *testing.T) {
	t.Run("routes a control command to the device", func(t *testing.T) {
		tv := newFakeTV()
		_, server := newTestAPI(t, tv)

		response := postCommand(t, server,
			`{"type":"control","action":"set_volume","parameters":{"volume":40}}`)

		assert.True(t, response.Success)
		assert.NotEmpty(t, response.ID)
		assert.NotEmpty(t, response.Timestamp)
		assert.Equal(t, 1, tv.callCount("setAudioVolume"))
	})

	t.Run("assigns an ID when the request carries none", func(t *testing.T) {
		tv := newFakeTV()
		_, server := newTestAPI(t, tv)

		response := postCommand(t, server, `{"type":"control","action":"system_info"}`)

		assert.NotEmpty(t, response.ID)
	})

	t.Run("keeps the caller-provided ID", func(t *testing.T) {
		tv := newFakeTV()
		_, server := newTestAPI(t, tv)

		response := postCommand(t, server,
			`{"id":"cmd-42","type":"control","action":"system_info"}`)

		assert.Equal(t, "cmd-42", response.ID)
	})

	t.Run("replays a duplicate nonce without re-executing", func(t *testing.T) {
		tv := newFakeTV()
		_, server := newTestAPI(t, tv)

		before := tv.callCount("setAudioVolume")
		body := `{"nonce":"n-1","type":"control","action":"set_volume","parameters":{"volume":55}}`

		first := postCommand(t, server, body)
		second := postCommand(t, server, body)

		assert.False(t, first.Replayed)
		assert.True(t, second.Replayed)
		assert.True(t, second.Success)
		assert.Equal(t, before+1, tv.callCount("setAudioVolume"))
	})

	t.Run("distinct nonces execute independently", func(t *testing.T) {
		tv := newFakeTV()
		_, server := newTestAPI(t, tv)

		before := tv.callCount("setAudioVolume")
		postCommand(t, server, `{"nonce":"n-1","type":"control","action":"set_volume","parameters":{"volume":10}}`)
		postCommand(t, server, `{"nonce":"n-2","type":"control","action":"set_volume","parameters":{"volume":20}}`)

		assert.Equal(t, before+2, tv.callCount("setAudioVolume"))
	})

	t.Run("invalid JSON answers 400 with a structured error", func(t *testing.T) {
		tv := newFakeTV()
		_, server := newTestAPI(t, tv)

		resp, err := http.Post(server.URL+"/command", "application/json",
			bytes.NewBufferString(`{broken`))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var command CommandResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&command))
		assert.False(t, command.Success)
		assert.Contains(t, command.Error, "invalid JSON")
	})

	t.Run("a failed device action still answers 200", func(t *testing.T) {
		tv := newFakeTV()
		_, server := newTestAPI(t, tv)

		response := postCommand(t, server,
			`{"type":"control","action":"set_volume","parameters":{"volume":500}}`)

		assert.False(t, response.Success)
		assert.Contains(t, response.Error, "volume must be between")
	})

	t.Run("command endpoint rejects GET", func(t *testing.T) {
		tv := newFakeTV()
		_, server := newTestAPI(t, tv)

		resp, err := http.Get(server.URL + "/command")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}
