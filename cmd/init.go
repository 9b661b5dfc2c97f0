package cmd

import (
	"log"

	"github.com/josephlewis42/bsh/core/config"
	"github.com/spf13/cobra"
)

// initCmd writes the default configuration
var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Write the default shell configuration to DIR (default the current directory).",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		path, err := config.Initialize(appFs, dir)
		if err != nil {
			return err
		}

		logger.Printf("Wrote configuration to %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
