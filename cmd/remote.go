package cmd

import (
	"github.com/spf13/cobra"

	"braviad/cmd/cli"
	"braviad/internal"
	"braviad/internal/bravia"
)

var (
	remoteHost  string
	remotePSK   string
	remoteDebug bool
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Interactive TV remote control",
	Long: `Launch an interactive terminal remote control. Button presses are
translated through the device's own IR capability table, so only
commands the television actually supports are sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := bravia.Endpoint{Host: remoteHost, PSK: remotePSK}
		options := internal.NewModeOptions(internal.WithDebug(remoteDebug))
		session := bravia.NewSession(endpoint, nil, options)

		return cli.StartTUI(session)
	},
}

func init() {
	remoteCmd.Flags().StringVarP(&remoteHost, "host", "H", "", "Television host address")
	remoteCmd.Flags().StringVarP(&remotePSK, "psk", "k", "", "Pre-shared key")
	remoteCmd.Flags().BoolVarP(&remoteDebug, "debug", "d", false, "Enable debug logging")

	remoteCmd.MarkFlagRequired("host")
	remoteCmd.MarkFlagRequired("psk")

	rootCmd.AddCommand(remoteCmd)
}
