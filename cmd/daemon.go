package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"braviad/internal/daemon"
	"braviad/internal/logger"
)

var (
	daemonConfigPath string
	daemonDebugFlag  bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the braviad control daemon",
	Long: `Run the braviad daemon: polls the television on a fixed interval,
tracks its connection state and serves the local HTTP command API.
A default configuration file is written on first run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetSilentMode(false)
		if daemonDebugFlag {
			logger.SetLevel("debug")
		} else {
			logger.SetLevel("info")
		}

		if _, err := os.Stat(daemonConfigPath); os.IsNotExist(err) {
			defaultConfig := daemon.NewDefaultConfig()
			if err := daemon.SaveConfig(defaultConfig, daemonConfigPath); err != nil {
				return fmt.Errorf("failed to create default config file: %w", err)
			}
			log.Info().
				Str("config_path", daemonConfigPath).
				Msg("Created default configuration file. Please edit it with your settings.")
			return nil
		}

		d, err := daemon.NewDaemon(daemonConfigPath, daemonDebugFlag)
		if err != nil {
			return err
		}

		return d.Run()
	},
}

func init() {
	daemonCmd.Flags().StringVarP(&daemonConfigPath, "config", "c", "braviad.yaml", "Path to configuration file")
	daemonCmd.Flags().BoolVarP(&daemonDebugFlag, "debug", "d", false, "Enable debug logging")

	rootCmd.AddCommand(daemonCmd)
}
