package console

import (
	"github.com/pixelvide/sidemon/pkg/root"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print processes, workers, queues and the retry, schedule and dead sets once",
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	if err := checkFormat(format); err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	session := a.driver.Session()
	defer session.Close()

	return report(ctx, session, cmd.OutOrStdout(), format, int64(a.cfg.Limit), a.opts...)
}

func init() {
	inspectCmd.Flags().StringVar(&format, "format", FormatText, "Output format: text or json")

	r := root.GetRoot()
	r.AddCommand(inspectCmd)
	// Running the binary without a command prints the report.
	r.Flags().StringVar(&format, "format", FormatText, "Output format: text or json")
	r.RunE = runInspect
}
