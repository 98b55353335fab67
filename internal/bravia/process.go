package bravia

import (
	"encoding/json"
	"fmt"
	"strconv"

	"braviad/internal/device"
)

// GetDeviceInfo returns information about this television
func (s *Session) GetDeviceInfo() device.DeviceInfo {
	model := s.Model()
	if model == "" {
		model = "Sony Bravia"
	}
	return device.DeviceInfo{
		Type:    "bravia_tv",
		Model:   model,
		Address: s.endpoint.Host,
		Capabilities: []string{
			"remote_control",
			"system_control",
			"audio_control",
			"content_control",
			"app_control",
			"text_entry",
		},
	}
}

// Process handles JSON action requests and routes them to the dispatcher
func (s *Session) Process(actionJSON []byte) (*device.ActionResponse, error) {
	request, err := parseActionRequest(actionJSON)
	if err != nil {
		return &device.ActionResponse{
			Success: false,
			Error:   err.Error(),
		}, nil
	}

	switch request.Type {
	case device.ActionTypeRemote:
		return s.processRemoteAction(request)
	case device.ActionTypeControl:
		return s.processControlAction(request)
	default:
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("unsupported action type: %s", request.Type),
		}, nil
	}
}

// processRemoteAction injects an IR button press by name or raw code
func (s *Session) processRemoteAction(request *device.ActionRequest) (*device.ActionResponse, error) {
	if err := s.SendRemoteCode(request.Action); err != nil {
		return &device.ActionResponse{
			Success: false,
			Error:   fmt.Sprintf("remote request failed: %v", err),
		}, nil
	}

	return &device.ActionResponse{
		Success: true,
		Data:    fmt.Sprintf("Remote command '%s' sent", request.Action),
	}, nil
}

// processControlAction routes a REST control operation
func (s *Session) processControlAction(request *device.ActionRequest) (*device.ActionResponse, error) {
	run := func() (any, string, error) {
		switch device.ControlAction(request.Action) {
		case device.ControlActionSetPower:
			on, err := boolParam(request.Parameters, "status")
			if err != nil {
				return nil, "", err
			}
			return nil, "", s.SetPower(on)

		case device.ControlActionSetMute:
			mode, err := stringParam(request.Parameters, "mode")
			if err != nil {
				return nil, "", err
			}
			return nil, "", s.SetMute(MuteMode(mode))

		case device.ControlActionSetVolume:
			volume, err := intParam(request.Parameters, "volume")
			if err != nil {
				return nil, "", err
			}
			return nil, "", s.SetVolume(volume)

		case device.ControlActionVolumeStep:
			delta, err := intParam(request.Parameters, "step")
			if err != nil {
				return nil, "", err
			}
			return nil, "", s.SetVolumeStep(delta)

		case device.ControlActionSetActiveApp:
			uri, err := stringParam(request.Parameters, "uri")
			if err != nil {
				return nil, "", err
			}
			return nil, "", s.SetActiveApp(uri)

		case device.ControlActionSetPlayContent:
			uri, err := stringParam(request.Parameters, "uri")
			if err != nil {
				return nil, "", err
			}
			return nil, "", s.SetPlayContent(uri)

		case device.ControlActionSetTextForm:
			text, err := stringParam(request.Parameters, "text")
			if err != nil {
				return nil, "", err
			}
			return nil, "", s.SetTextForm(text)

		case device.ControlActionTerminateApps:
			return nil, "", s.TerminateApps()

		case device.ControlActionStatus:
			report, err := s.Status()
			return nil, report, err

		case device.ControlActionSystemInfo:
			info, err := s.SystemInfo()
			return info, "", err

		case device.ControlActionVolumeInfo:
			targets, err := s.VolumeInfo()
			return targets, "", err

		case device.ControlActionAppList:
			apps, err := s.AppList()
			return apps, "", err

		case device.ControlActionPlayingContent:
			content, err := s.PlayingContent()
			return content, "", err

		case device.ControlActionMethodTypes:
			service, err := stringParam(request.Parameters, "service")
			if err != nil {
				return nil, "", err
			}
			result, err := s.Invoke(WithParams(GetMethodTypes, "1.0").OnService(BraviaService(service)), ShapeNone)
			if err != nil {
				return nil, "", err
			}
			return result, "", nil

		default:
			return nil, "", fmt.Errorf("unsupported control action: %s", request.Action)
		}
	}

	data, report, err := run()
	if err != nil {
		return &device.ActionResponse{
			Success: false,
			Error:   err.Error(),
		}, nil
	}

	return &device.ActionResponse{
		Success: true,
		Data:    data,
		Report:  report,
	}, nil
}

// parseActionRequest parses JSON input into an ActionRequest
func parseActionRequest(actionJSON []byte) (*device.ActionRequest, error) {
	var request device.ActionRequest
	if err := json.Unmarshal(actionJSON, &request); err != nil {
		return nil, fmt.Errorf("failed to parse action request: %w", err)
	}

	if request.Type == "" {
		return nil, fmt.Errorf("action type is required")
	}
	if request.Action == "" {
		return nil, fmt.Errorf("action is required")
	}

	return &request, nil
}

func stringParam(params map[string]any, key string) (string, error) {
	value, exists := params[key]
	if !exists {
		return "", fmt.Errorf("%s parameter is required", key)
	}
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s parameter must be a string", key)
	}
	return text, nil
}

func boolParam(params map[string]any, key string) (bool, error) {
	value, exists := params[key]
	if !exists {
		return false, fmt.Errorf("%s parameter is required", key)
	}
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%s parameter must be a boolean", key)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%s parameter must be a boolean", key)
	}
}

// intParam accepts JSON numbers and numeric strings; anything else is
// rejected before a network call is made
func intParam(params map[string]any, key string) (int, error) {
	value, exists := params[key]
	if !exists {
		return 0, fmt.Errorf("%s parameter is required", key)
	}
	n, ok := asInt(value)
	if !ok {
		return 0, fmt.Errorf("%s parameter must be a number", key)
	}
	return n, nil
}
