package cmd

import (
	"fmt"
	"io"

	"github.com/josephlewis42/bsh/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore a session event log.",
}

var reportCommand = &cobra.Command{
	Use:   "report LOG",
	Short: "Show a report of events.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var report logger.Report
		return summarizeLog(cmd, args[0], report.Update, &report)
	},
}

var sessionsCommand = &cobra.Command{
	Use:   "sessions LOG",
	Short: "List the commands run in each session.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var transcript logger.SessionTranscript
		return summarizeLog(cmd, args[0], transcript.Update, &transcript)
	},
}

func summarizeLog(cmd *cobra.Command, path string, handler func(*logger.LogEntry), summary interface{}) error {
	cmd.SilenceUsage = true

	fd, err := appFs.Open(path)
	if err != nil {
		return err
	}
	defer fd.Close()

	if err := logger.ReadJSONLinesLog(fd, handler); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out, err := yaml.Marshal(summary)
	if err != nil {
		return err
	}

	_, err = io.WriteString(cmd.OutOrStdout(), string(out))
	return err
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
	eventsCmd.AddCommand(sessionsCommand)
}
