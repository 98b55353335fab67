package bravia

// API Services for Sony Bravia control
const (
	SystemService     BraviaService = "system"
	AudioService      BraviaService = "audio"
	AVContentService  BraviaService = "avContent"
	AppControlService BraviaService = "appControl"
	IRCCService       BraviaService = "ircc"
)

// API Methods for Sony Bravia control
const (
	// System Methods
	GetPowerStatus          BraviaMethod = "getPowerStatus"
	SetPowerStatus          BraviaMethod = "setPowerStatus"
	GetSystemInformation    BraviaMethod = "getSystemInformation"
	GetRemoteControllerInfo BraviaMethod = "getRemoteControllerInfo"

	// Audio Methods
	GetVolumeInformation BraviaMethod = "getVolumeInformation"
	SetAudioVolume       BraviaMethod = "setAudioVolume"
	SetAudioMute         BraviaMethod = "setAudioMute"

	// AV Content Methods
	GetPlayingContentInfo BraviaMethod = "getPlayingContentInfo"
	GetContentList        BraviaMethod = "getContentList"
	SetPlayContent        BraviaMethod = "setPlayContent"

	// App Control Methods
	GetApplicationList BraviaMethod = "getApplicationList"
	SetActiveApp       BraviaMethod = "setActiveApp"
	SetTextForm        BraviaMethod = "setTextForm"
	TerminateApps      BraviaMethod = "terminateApps"

	// GetMethodTypes is valid against every service; callers must pass
	// an explicit service override when sending it
	GetMethodTypes BraviaMethod = "getMethodTypes"
)

// serviceBindings routes a method name to its service path segment.
// Fixed table, never mutated at runtime.
var serviceBindings = map[BraviaMethod]BraviaService{
	GetPowerStatus:          SystemService,
	SetPowerStatus:          SystemService,
	GetSystemInformation:    SystemService,
	GetRemoteControllerInfo: SystemService,

	GetVolumeInformation: AudioService,
	SetAudioVolume:       AudioService,
	SetAudioMute:         AudioService,

	GetPlayingContentInfo: AVContentService,
	GetContentList:        AVContentService,
	SetPlayContent:        AVContentService,

	GetApplicationList: AppControlService,
	SetActiveApp:       AppControlService,
	SetTextForm:        AppControlService,
	TerminateApps:      AppControlService,
}

// Application URIs must carry one of these prefixes; anything else is
// dropped before a request is made
var appURIPrefixes = []string{
	"localapp://",
	"com.sony.dtv.",
}

// Volume step magnitudes the dispatcher accepts for relative adjustment
var allowedVolumeSteps = []int{2, 5, 10}

// Well-known remote codes used as fallbacks before the capability table
// has been fetched from the device
const (
	CodePowerButton BraviaRemoteCode = "AAAAAQAAAAEAAAAVAw=="
	CodePowerOn     BraviaRemoteCode = "AAAAAQAAAAEAAAAuAw=="
	CodePowerOff    BraviaRemoteCode = "AAAAAQAAAAEAAAAvAw=="
	CodeVolumeUp    BraviaRemoteCode = "AAAAAQAAAAEAAAASAw=="
	CodeVolumeDown  BraviaRemoteCode = "AAAAAQAAAAEAAAATAw=="
	CodeMute        BraviaRemoteCode = "AAAAAQAAAAEAAAAUAw=="
	CodeHome        BraviaRemoteCode = "AAAAAQAAAAEAAABgAw=="
	CodeConfirm     BraviaRemoteCode = "AAAAAQAAAAEAAABlAw=="
)
