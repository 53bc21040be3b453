package console

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pixelvide/sidemon/pkg/render"
	"github.com/pixelvide/sidemon/pkg/root"
	"github.com/pixelvide/sidemon/pkg/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard and JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := setup(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if cmd.Flags().Changed("addr") {
			a.cfg.Dashboard.Addr = addr
		}

		pages, err := render.HTML()
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              a.cfg.Dashboard.Addr,
			Handler:           server.New(a.driver, pages, int64(a.cfg.Limit), a.opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info().Str("addr", srv.Addr).Msg("Dashboard listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			log.Info().Msg("Shutting down dashboard...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3000", "Dashboard listen address (overrides SIDEMON_ADDR)")

	root.GetRoot().AddCommand(serveCmd)
}
