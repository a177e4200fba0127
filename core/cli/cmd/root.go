package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/growthsystem/erpchat/core/infrastructure/logging"
)

// version stores the version string, set via SetVersion()
var version = "dev"

// SetVersion sets the version string (called from main.init())
func SetVersion(v string) {
	version = v
}

var (
	configFile string
	logLevel   int
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "erpchat",
	Short:         "ERP assistant core\nGuarded SQL execution and template rendering for LLM answers",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "erpchat.yaml", "Path to the config file")
	rootCmd.PersistentFlags().IntVar(&logLevel, "log-level", 0, "Log level: 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging (sets log level to DEBUG)")
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	// A missing .env is fine; config falls back to the process environment.
	_ = godotenv.Load()

	rootCmd.Version = version
	return rootCmd.Execute()
}

// configureLogging applies the shared logging flags.
func configureLogging() {
	if verbose {
		logging.SetLogLevel(logging.LogLevelDebug)
	} else if logLevel > 0 {
		logging.SetLogLevel(logLevel)
	} else {
		logging.SetLogLevel(logging.LogLevelInfo)
	}
}
