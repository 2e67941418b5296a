package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskdeck/taskdeck/internal/logger"
	"github.com/taskdeck/taskdeck/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands.
// Running taskdeck with no arguments opens the interactive session, which is
// the primary way to work with the tracker: staged and active tasks live only
// for the duration of the session, and only finished tasks are durably
// logged.
var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "taskdeck tracks tasks through staging, work, and completion.",
	Long: `taskdeck is a single-operator task tracker. Tasks move through a fixed
three-stage lifecycle — staged, active, finished — and every finished task is
appended to a durable completion log with its timing data.

Run taskdeck without arguments to open the interactive session.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetCommand(cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveSession()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig, initCrashLogger)

	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.taskdeck/.taskdeck.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Bind persistent flags to Viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initCrashLogger points crash logs at the project root dir. Runs after
// InitConfig so the configured root is known.
func initCrashLogger() {
	logger.SetBasePath(GetConfig().Project.RootDir)
	logger.SetVersion(version)
}

// GetCompletionLog opens the completion log configured for this project.
func GetCompletionLog() (store.CompletionLog, error) {
	config := GetConfig()
	log, err := store.Open(store.Config{
		Driver: config.Log.Driver,
		Path:   GetLogFilePath(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open completion log at %s: %w", GetLogFilePath(), err)
	}
	return log, nil
}
