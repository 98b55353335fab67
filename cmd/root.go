package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"braviad/internal/logger"
)

var (
	verbose bool
	log     = logger.New()
)

var rootCmd = &cobra.Command{
	Use:   "braviad",
	Short: "braviad - Sony Bravia television control",
	Long: `braviad maintains a persistent logical connection to a networked Sony
Bravia television. It polls device status, exposes a local command API and
translates high-level operations into the TV's REST and IRCC protocols.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetSilentMode(false)
			logger.SetLevel("debug")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
