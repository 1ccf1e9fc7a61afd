// Package cmd provides the command-line interface of the chrono demo.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "chronodemo",
	Short: "Run animation scenarios on a virtual-time clock.",
	Long: `Chronodemo loads a YAML scenario describing animated properties, ` +
		`plays it on a virtual-time clock, and prints the sampled values tick ` +
		`by tick. The run can be inspected over HTTP and recorded to SQLite.`,
}

// Execute runs the root command.
func Execute() {
	// Optional environment overrides, such as CHRONO_MONITOR_PORT.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func init() {
	rootCmd.SetOut(os.Stdout)
}
