package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/in-nis/planner/internal/api"
	"github.com/in-nis/planner/internal/cron"
	"github.com/in-nis/planner/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the scheduled conflict audit",
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, store, log, err := open("server")
	if err != nil {
		return err
	}
	defer closeStore(store, log)

	var (
		prom *metrics.Prom
		rec  metrics.Recorder = metrics.NopRecorder{}
	)
	if cfg.Metrics.Enabled {
		if prom, err = metrics.NewProm(nil); err != nil {
			return err
		}
		rec = prom
	}

	s, err := api.NewServer(cfg, store, log, rec)
	if err != nil {
		return err
	}
	jobs, err := cron.StartJobs(cfg.Cron.AuditSpec, s.Auditor(), log)
	if err != nil {
		return err
	}
	defer func() { <-jobs.Stop().Done() }()

	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: api.SetupRouter(s, prom)}
	errc := make(chan error, 1)
	go func() {
		log.Infof("server running on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
