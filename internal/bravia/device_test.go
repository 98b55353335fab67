package bravia_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braviad/internal/bravia"
)

// connectedSession runs enough poll cycles against the mock to reach the
// connected, display-on state most commands require
func connectedSession(t *testing.T, tv *mockTV) *bravia.Session {
	t.Helper()
	session := newTestSession(tv, nil)
	session.Tick()
	session.Tick()
	require.Equal(t, bravia.StateConnected, session.State())
	require.True(t, session.DisplayOn())
	return session
}

func TestSetPower(t *testing.T) {
	t.Run("sends the power request and updates the display flag", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()

		session := newTestSession(tv, nil)
		err := session.SetPower(true)

		require.NoError(t, err)
		assert.True(t, session.DisplayOn())
		assert.Equal(t, 1, tv.callCount("setPowerStatus"))
		assert.Contains(t, tv.lastParams("setPowerStatus"), `"status":true`)
	})

	t.Run("falls back to Wake-on-LAN when the device is unreachable", func(t *testing.T) {
		session := bravia.NewSession(bravia.Endpoint{
			Host: "127.0.0.1:1",
			PSK:  "0000",
			MAC:  "aa:bb:cc:dd:ee:ff",
		}, nil, nil)

		var woken string
		session.SetWakeFunc(func(mac string) error {
			woken = mac
			return nil
		})

		err := session.SetPower(true)

		assert.NoError(t, err)
		assert.Equal(t, "aa:bb:cc:dd:ee:ff", woken)
	})

	t.Run("power off gets no wake fallback", func(t *testing.T) {
		session := bravia.NewSession(bravia.Endpoint{
			Host: "127.0.0.1:1",
			PSK:  "0000",
			MAC:  "aa:bb:cc:dd:ee:ff",
		}, nil, nil)

		woken := false
		session.SetWakeFunc(func(mac string) error {
			woken = true
			return nil
		})

		err := session.SetPower(false)

		assert.ErrorIs(t, err, bravia.ErrUnreachable)
		assert.False(t, woken)
	})

	t.Run("surfaces the transport error when the wake also fails", func(t *testing.T) {
		session := bravia.NewSession(bravia.Endpoint{
			Host: "127.0.0.1:1",
			PSK:  "0000",
			MAC:  "aa:bb:cc:dd:ee:ff",
		}, nil, nil)
		session.SetWakeFunc(func(mac string) error {
			return assert.AnError
		})

		err := session.SetPower(true)

		assert.ErrorIs(t, err, bravia.ErrUnreachable)
	})
}

func TestSetVolume(t *testing.T) {
	t.Run("rejects out-of-range volume before any network call", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := connectedSession(t, tv)

		assert.ErrorIs(t, session.SetVolume(-1), bravia.ErrVolumeRange)
		assert.ErrorIs(t, session.SetVolume(101), bravia.ErrVolumeRange)
		assert.Equal(t, 0, tv.callCount("setAudioVolume"))
	})

	t.Run("rejects volume while the display is off", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()

		session := newTestSession(tv, nil)
		err := session.SetVolume(30)

		assert.ErrorIs(t, err, bravia.ErrDisplayOff)
		assert.Equal(t, 0, tv.callCount("setAudioVolume"))
	})

	t.Run("sends the volume as a decimal string and caches it", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := connectedSession(t, tv)

		err := session.SetVolume(42)

		require.NoError(t, err)
		assert.Equal(t, 42, session.Volume())
		assert.Contains(t, tv.lastParams("setAudioVolume"), `"volume":"42"`)
		assert.Contains(t, tv.lastParams("setAudioVolume"), `"target":"speaker"`)
	})
}

func TestSetVolumeStep(t *testing.T) {
	t.Run("rejects step magnitudes outside 2, 5 and 10", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := connectedSession(t, tv)

		assert.ErrorIs(t, session.SetVolumeStep(3), bravia.ErrVolumeStep)
		assert.ErrorIs(t, session.SetVolumeStep(-7), bravia.ErrVolumeStep)
		assert.ErrorIs(t, session.SetVolumeStep(0), bravia.ErrVolumeStep)
		assert.Equal(t, 0, tv.callCount("setAudioVolume"))
	})

	t.Run("sends a signed relative volume string", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := connectedSession(t, tv)

		require.NoError(t, session.SetVolumeStep(-5))
		assert.Contains(t, tv.lastParams("setAudioVolume"), `"volume":"-5"`)

		require.NoError(t, session.SetVolumeStep(10))
		assert.Contains(t, tv.lastParams("setAudioVolume"), `"volume":"+10"`)
	})

	t.Run("adjusts the cached volume with clamping", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := connectedSession(t, tv)
		require.Equal(t, 25, session.Volume())

		require.NoError(t, session.SetVolumeStep(-5))
		assert.Equal(t, 20, session.Volume())

		for i := 0; i < 3; i++ {
			require.NoError(t, session.SetVolumeStep(-10))
		}
		assert.Equal(t, 0, session.Volume())
	})
}

func TestSetMute(t *testing.T) {
	t.Run("requires the display to be on", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()

		session := newTestSession(tv, nil)
		err := session.SetMute(bravia.MuteOn)

		assert.ErrorIs(t, err, bravia.ErrDisplayOff)
		assert.Equal(t, 0, tv.callCount("setAudioMute"))
	})

	t.Run("muting zeroes the cached volume", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := connectedSession(t, tv)
		require.Equal(t, 25, session.Volume())

		require.NoError(t, session.SetMute(bravia.MuteOn))

		assert.True(t, session.Muted())
		assert.Equal(t, 0, session.Volume())
		assert.Contains(t, tv.lastParams("setAudioMute"), `"status":true`)
	})

	t.Run("toggle inverts the observed state", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := connectedSession(t, tv)
		require.False(t, session.Muted())

		require.NoError(t, session.SetMute(bravia.MuteToggle))
		assert.True(t, session.Muted())

		require.NoError(t, session.SetMute(bravia.MuteToggle))
		assert.False(t, session.Muted())
	})

	t.Run("toggle with unknown prior state is a no-op", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()

		// Display on via SetPower but no audio poll yet, so mute was
		// never observed
		session := newTestSession(tv, nil)
		require.NoError(t, session.SetPower(true))

		err := session.SetMute(bravia.MuteToggle)

		assert.NoError(t, err)
		assert.Equal(t, 0, tv.callCount("setAudioMute"))
	})
}

func TestSetActiveApp(t *testing.T) {
	t.Run("accepts known app URI prefixes", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := connectedSession(t, tv)

		require.NoError(t, session.SetActiveApp("localapp://webappruntime?url=http%3A%2F%2Fexample"))
		require.NoError(t, session.SetActiveApp("com.sony.dtv.com.youtube.tv"))

		assert.Equal(t, 2, tv.callCount("setActiveApp"))
	})

	t.Run("silently drops a malformed URI", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := connectedSession(t, tv)

		err := session.SetActiveApp("https://example.com")

		assert.NoError(t, err)
		assert.Equal(t, 0, tv.callCount("setActiveApp"))
	})
}

func TestSetTextForm(t *testing.T) {
	t.Run("passes the text as a bare string parameter", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := connectedSession(t, tv)

		require.NoError(t, session.SetTextForm("hello"))

		assert.Equal(t, `["hello"]`, tv.lastParams("setTextForm"))
	})
}

func TestSendRemoteCode(t *testing.T) {
	t.Run("resolves a command name case-insensitively", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := connectedSession(t, tv)

		require.NoError(t, session.SendRemoteCode("vOlUmEuP"))

		assert.Equal(t, 1, tv.callCount("ircc"))
	})

	t.Run("passes a raw code through without table lookup", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()

		// Empty table; the raw pattern alone must carry the command
		session := newTestSession(tv, nil)
		require.NoError(t, session.SendRemoteCode("AAAAAQAAAAEAAAAVAw=="))

		assert.Equal(t, 1, tv.callCount("ircc"))
	})

	t.Run("drops an unresolvable command without error", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := connectedSession(t, tv)

		err := session.SendRemoteCode("NoSuchButton")

		assert.NoError(t, err)
		assert.Equal(t, 0, tv.callCount("ircc"))
	})
}

func TestCommandErrorsLeaveStateAlone(t *testing.T) {
	t.Run("auth rejection on a command does not demote the session", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := connectedSession(t, tv)

		tv.fail("setAudioVolume", http.StatusForbidden)
		err := session.SetVolume(30)

		assert.ErrorIs(t, err, bravia.ErrAuthRejected)
		assert.Equal(t, bravia.StateConnected, session.State())
		assert.Equal(t, 25, session.Volume())
	})
}

func TestQueries(t *testing.T) {
	t.Run("system info returns the flat mapping", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := newTestSession(tv, nil)

		info, err := session.SystemInfo()

		require.NoError(t, err)
		assert.Equal(t, "KD-55X80J", info["model"])
	})

	t.Run("power status maps unknown strings to PowerUnknown", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		tv.respond("getPowerStatus", `{"result":[{"status":"warming"}]}`)
		session := newTestSession(tv, nil)

		power, err := session.PowerStatus()

		require.NoError(t, err)
		assert.Equal(t, bravia.PowerUnknown, power)
	})

	t.Run("volume info returns every audio target", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := newTestSession(tv, nil)

		targets, err := session.VolumeInfo()

		require.NoError(t, err)
		require.Len(t, targets, 2)
		assert.Equal(t, "speaker", targets[0]["target"])
		assert.Equal(t, "headphone", targets[1]["target"])
	})

	t.Run("status report includes the audio targets while active", func(t *testing.T) {
		tv := newMockTV()
		defer tv.close()
		session := newTestSession(tv, nil)

		report, err := session.Status()

		require.NoError(t, err)
		assert.Contains(t, report, "KD-55X80J")
		assert.Contains(t, report, "active")
		assert.Contains(t, report, "speaker")
	})
}
