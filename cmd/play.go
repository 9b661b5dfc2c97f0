package cmd

import (
	"time"

	"github.com/josephlewis42/bsh/core/ttylog"
	"github.com/spf13/cobra"
)

var maxSleep time.Duration

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play RECORDING",
	Short: "Play a recorded session.",
	Long:  `Plays a session recorded with --record back to the current terminal.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		fd, err := appFs.Open(args[0])
		if err != nil {
			return err
		}
		defer fd.Close()

		source := ttylog.NewAsciicastLogSource(fd)
		output := ttylog.NewClientOutput(cmd.OutOrStdout())
		return ttylog.Replay(source, ttylog.NewRealTimePlayback(maxSleep, output))
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().DurationVar(&maxSleep, "max-sleep", 2*time.Second, "longest pause between events, 0 plays without pauses")
}
