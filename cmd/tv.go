package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"braviad/internal"
	"braviad/internal/bravia"
	"braviad/internal/logger"
)

var (
	tvHost  string
	tvPSK   string
	tvMAC   string
	tvDebug bool
)

var tvCmd = &cobra.Command{
	Use:   "tv",
	Short: "One-shot television commands",
	Long: `Send a single command to the television and exit.
Each invocation probes the device first so commands that depend on the
display state or the IR code table work without a running daemon.`,
}

// newOneShotSession builds a session and runs one poll tick so the IR
// table and display state reflect the live device
func newOneShotSession() *bravia.Session {
	if tvDebug {
		logger.SetSilentMode(false)
		logger.SetLevel("debug")
	}

	endpoint := bravia.Endpoint{Host: tvHost, PSK: tvPSK, MAC: tvMAC}
	options := internal.NewModeOptions(internal.WithDebug(tvDebug))
	session := bravia.NewSession(endpoint, nil, options)
	session.Tick()
	return session
}

var tvPowerCmd = &cobra.Command{
	Use:   "power [on|off]",
	Short: "Turn the display on or off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var on bool
		switch args[0] {
		case "on":
			on = true
		case "off":
			on = false
		default:
			return fmt.Errorf("power argument must be 'on' or 'off'")
		}

		session := newOneShotSession()
		if err := session.SetPower(on); err != nil {
			return err
		}
		fmt.Printf("Power set to %s\n", args[0])
		return nil
	},
}

var tvVolumeCmd = &cobra.Command{
	Use:   "volume [0-100|+2|-2|+5|-5|+10|-10]",
	Short: "Set the speaker volume, absolute or relative",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session := newOneShotSession()

		arg := args[0]
		if strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-") {
			delta, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid volume step %q", arg)
			}
			if err := session.SetVolumeStep(delta); err != nil {
				return err
			}
			fmt.Printf("Volume adjusted by %s\n", arg)
			return nil
		}

		volume, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid volume %q", arg)
		}
		if err := session.SetVolume(volume); err != nil {
			return err
		}
		fmt.Printf("Volume set to %d\n", volume)
		return nil
	},
}

var tvMuteCmd = &cobra.Command{
	Use:   "mute [on|off|toggle]",
	Short: "Control speaker muting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := bravia.MuteMode(args[0])
		switch mode {
		case bravia.MuteOn, bravia.MuteOff, bravia.MuteToggle:
		default:
			return fmt.Errorf("mute argument must be 'on', 'off' or 'toggle'")
		}

		session := newOneShotSession()
		if err := session.SetMute(mode); err != nil {
			return err
		}
		fmt.Printf("Mute %s\n", args[0])
		return nil
	},
}

var tvAppCmd = &cobra.Command{
	Use:   "app [uri]",
	Short: "Launch an application by URI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session := newOneShotSession()
		return session.SetActiveApp(args[0])
	},
}

var tvPlayCmd = &cobra.Command{
	Use:   "play [uri]",
	Short: "Switch playback to a content URI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session := newOneShotSession()
		return session.SetPlayContent(args[0])
	},
}

var tvTextCmd = &cobra.Command{
	Use:   "text [string]",
	Short: "Type text into the focused on-screen field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session := newOneShotSession()
		return session.SetTextForm(args[0])
	},
}

var tvKillAppsCmd = &cobra.Command{
	Use:   "kill-apps",
	Short: "Terminate all running applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		session := newOneShotSession()
		return session.TerminateApps()
	},
}

var tvIRCCCmd = &cobra.Command{
	Use:   "ircc [name-or-code]",
	Short: "Send a remote-button press by command name or raw IRCC code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session := newOneShotSession()
		return session.SendRemoteCode(args[0])
	},
}

var tvStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a device status report",
	RunE: func(cmd *cobra.Command, args []string) error {
		session := newOneShotSession()
		report, err := session.Status()
		if err != nil {
			return err
		}
		fmt.Print(report)
		return nil
	},
}

var tvAppsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List installed applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		session := newOneShotSession()
		apps, err := session.AppList()
		if err != nil {
			return err
		}
		for _, app := range apps {
			fmt.Printf("%-40s %s\n", appField(app, "title"), appField(app, "uri"))
		}
		return nil
	},
}

func appField(app map[string]any, key string) string {
	if value, ok := app[key].(string); ok {
		return value
	}
	return ""
}

var tvCodesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List remote command names known to the device",
	RunE: func(cmd *cobra.Command, args []string) error {
		session := newOneShotSession()
		names := session.IRCodes().Names()
		if len(names) == 0 {
			return fmt.Errorf("no IR codes available, device unreachable?")
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	tvCmd.PersistentFlags().StringVarP(&tvHost, "host", "H", "", "Television host address")
	tvCmd.PersistentFlags().StringVarP(&tvPSK, "psk", "k", "", "Pre-shared key")
	tvCmd.PersistentFlags().StringVarP(&tvMAC, "mac", "m", "", "Hardware address for Wake-on-LAN")
	tvCmd.PersistentFlags().BoolVarP(&tvDebug, "debug", "d", false, "Enable debug logging")

	tvCmd.MarkPersistentFlagRequired("host")
	tvCmd.MarkPersistentFlagRequired("psk")

	tvCmd.AddCommand(tvPowerCmd)
	tvCmd.AddCommand(tvVolumeCmd)
	tvCmd.AddCommand(tvMuteCmd)
	tvCmd.AddCommand(tvAppCmd)
	tvCmd.AddCommand(tvPlayCmd)
	tvCmd.AddCommand(tvTextCmd)
	tvCmd.AddCommand(tvKillAppsCmd)
	tvCmd.AddCommand(tvIRCCCmd)
	tvCmd.AddCommand(tvStatusCmd)
	tvCmd.AddCommand(tvAppsCmd)
	tvCmd.AddCommand(tvCodesCmd)

	rootCmd.AddCommand(tvCmd)
}
