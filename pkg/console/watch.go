package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pixelvide/sidemon/pkg/monitor"
	"github.com/pixelvide/sidemon/pkg/root"
	"github.com/pixelvide/sidemon/pkg/schedule"
	"github.com/pixelvide/sidemon/pkg/store"
	"github.com/pixelvide/sidemon/pkg/telemetry"
	"github.com/spf13/cobra"
)

var every time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the report again on a fixed interval",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(format); err != nil {
			return err
		}
		if every < time.Second {
			return fmt.Errorf("--every must be at least 1s, got %s", every)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := setup(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.close()

		out := cmd.OutOrStdout()
		tick := func(ctx context.Context) {
			session := a.driver.Session()
			defer session.Close()

			if err := refresh(ctx, session, out, format, int64(a.cfg.Limit), time.Now(), a.opts...); err != nil {
				telemetry.LoggerFromContext(ctx).Error().Err(err).Msg("Failed to read report")
			}
		}

		kernel := schedule.NewKernel()
		err = kernel.Register("@every "+every.String(), tick, schedule.WithoutOverlapping(), schedule.Named("report"))
		if err != nil {
			return err
		}

		tick(ctx)
		return kernel.Run(ctx)
	},
}

// refresh prints one report. Text reports get a timestamp header; JSON output stays a
// plain stream of documents and the timestamp goes to the log instead.
func refresh(ctx context.Context, s store.Store, out io.Writer, f string, limit int64, at time.Time, opts ...monitor.Option) error {
	stamp := at.UTC().Format(time.RFC3339)
	if f == FormatJSON {
		telemetry.LoggerFromContext(ctx).Info().Str("at", stamp).Msg("Refreshing report")
	} else {
		fmt.Fprintf(out, "=== %s\n", stamp)
	}
	return report(ctx, s, out, f, limit, opts...)
}

func init() {
	watchCmd.Flags().DurationVar(&every, "every", 5*time.Second, "Refresh interval")
	watchCmd.Flags().StringVar(&format, "format", FormatText, "Output format: text or json")

	root.GetRoot().AddCommand(watchCmd)
}
