package device

// Device represents a controllable device that can process commands
type Device interface {
	// Process handles a JSON-encoded action and executes the corresponding operation
	Process(actionJSON []byte) (*ActionResponse, error)

	// GetDeviceInfo returns basic information about the device
	GetDeviceInfo() DeviceInfo
}

// DeviceInfo contains basic information about a device
type DeviceInfo struct {
	Type         string   `json:"type"`
	Model        string   `json:"model"`
	Address      string   `json:"address"`
	Capabilities []string `json:"capabilities"`
}

// ActionType represents the type of action to perform
type ActionType string

const (
	// ActionTypeRemote injects an infrared remote-button press
	ActionTypeRemote ActionType = "remote"
	// ActionTypeControl invokes a REST control operation
	ActionTypeControl ActionType = "control"
)

// ActionRequest represents a JSON action request
type ActionRequest struct {
	Type       ActionType     `json:"type"`       // "remote" or "control"
	Action     string         `json:"action"`     // specific action name
	Parameters map[string]any `json:"parameters"` // optional parameters
}

// ActionResponse represents the response from processing an action.
// Report carries the human-readable multi-line summary for query actions.
type ActionResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Report  string `json:"report,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ControlAction represents available control API actions
type ControlAction string

const (
	ControlActionSetPower       ControlAction = "set_power"
	ControlActionSetMute        ControlAction = "set_mute"
	ControlActionSetVolume      ControlAction = "set_volume"
	ControlActionVolumeStep     ControlAction = "volume_step"
	ControlActionSetActiveApp   ControlAction = "set_active_app"
	ControlActionSetPlayContent ControlAction = "set_play_content"
	ControlActionSetTextForm    ControlAction = "set_text_form"
	ControlActionTerminateApps  ControlAction = "terminate_apps"
	ControlActionStatus         ControlAction = "status"
	ControlActionSystemInfo     ControlAction = "system_info"
	ControlActionVolumeInfo     ControlAction = "volume_info"
	ControlActionAppList        ControlAction = "app_list"
	ControlActionPlayingContent ControlAction = "playing_content"
	ControlActionMethodTypes    ControlAction = "method_types"
)
