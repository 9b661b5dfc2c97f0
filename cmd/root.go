package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/josephlewis42/bsh/core/config"
	"github.com/josephlewis42/bsh/core/shell"
	"github.com/josephlewis42/bsh/core/ttylog"
	"github.com/josephlewis42/bsh/core/vos"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	promptFlag   string
	noReadline   bool
	eventLogPath string
	recordPath   string
)

// appFs is the filesystem configuration and logs are read from.
var appFs = afero.NewOsFs()

func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	logger := log.New(cmd.ErrOrStderr(), "", 0)

	if !cmd.Flags().Changed("config") {
		configuration, err := config.LoadOrDefault(appFs, cfgPath)
		if err != nil {
			return nil, err
		}
		return applyFlags(cmd, configuration), nil
	}

	configuration, err := config.Load(appFs, cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Println("Couldn't load config: did you run init?")
	}
	if err != nil {
		return nil, err
	}
	return applyFlags(cmd, configuration), nil
}

func applyFlags(cmd *cobra.Command, configuration *config.Configuration) *config.Configuration {
	if cmd.Flags().Changed("prompt") {
		configuration.Prompt = promptFlag
	}
	if noReadline {
		configuration.Readline = false
	}
	if eventLogPath != "" {
		configuration.EventLog = eventLogPath
	}

	return configuration
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bsh",
	Short: "A homemade shell",
	Long: `bsh reads one command per line from standard input. The builtins cd,
help and exit run inside the shell, anything else is started as a program
and waited on before the next prompt.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var files vos.VIO = vos.NewVIOAdapter(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if recordPath != "" {
			fd, err := appFs.OpenFile(recordPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
			if err != nil {
				return err
			}
			defer fd.Close()
			files = ttylog.NewRecorder(files, ttylog.NewAsciicastLogSink(fd, "bsh session"))
		}

		sh, err := shell.NewShell(files, configuration, appFs)
		if err != nil {
			return err
		}
		defer sh.Close()

		return sh.Run()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config directory or config.yaml path")
	rootCmd.Flags().StringVar(&promptFlag, "prompt", "> ", "prompt shown before each command")
	rootCmd.Flags().BoolVar(&noReadline, "no-readline", false, "read lines without the interactive line editor")
	rootCmd.Flags().StringVar(&eventLogPath, "event-log", "", "append session events to this file")
	rootCmd.Flags().StringVar(&recordPath, "record", "", "record terminal output to this asciicast file")
}
