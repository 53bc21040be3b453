package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sidemon",
	Short: "Read-only Sidekiq monitor",
	Long: `sidemon reads the state Sidekiq keeps in Redis (processes, busy workers, queues and
the retry, schedule and dead sets) and reports it on the terminal or a web dashboard.
It never writes to Redis.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func GetRoot() *cobra.Command {
	return rootCmd
}

// SetInfo replaces the name and descriptions shown in help output.
func SetInfo(use, short, long string) {
	rootCmd.Use = use
	rootCmd.Short = short
	rootCmd.Long = long
}
