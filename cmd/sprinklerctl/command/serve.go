package command

import (
	"context"
	"log"
	"net/http"
	"time"

	http_api "sprinkler-jobs/internal/api/http"
	"sprinkler-jobs/internal/domain"
	"sprinkler-jobs/internal/infra/etcd"
	"sprinkler-jobs/internal/scheduler"
	"sprinkler-jobs/internal/usecase"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

type Serve struct {
	Env *Env
}

func (cmd Serve) Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "run the job console server",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmd.main(c.Context())
		},
	}
	c.Flags().String("listen-addr", "", "address the console listens on")
	c.Flags().String("refresh-schedule", "", "cron schedule of background refreshes, e.g. \"@every 5s\"")
	c.Flags().StringSlice("etcd-endpoints", nil, "etcd endpoints to publish job list snapshots to")
	return c
}

// corsMiddleware wraps an http.Handler with CORS headers for a browser console.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-Request-ID")

		// Handle pre-flight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (cmd Serve) main(ctx context.Context) error {
	cfg, logger := cmd.Env.Config, cmd.Env.Logger
	log.Println("Starting sprinkler job console...")

	// Snapshots are only published when etcd is configured.
	var store domain.SnapshotStore
	if len(cfg.EtcdEndpoints) > 0 {
		etcdClient, err := etcd.NewClient(cfg.EtcdEndpoints, cfg.EtcdTimeout)
		if err != nil {
			return errors.Wrap(err, "serve : failed to create etcd client")
		}
		defer etcdClient.Close()
		store = etcd.NewEtcdSnapshotStore(etcdClient, logger)
		log.Println("Connected to etcd.")
	}

	active := usecase.NewActiveJobsController(cmd.Env.Gateway, logger)
	waiting := usecase.NewWaitingJobsController(cmd.Env.Gateway, logger)
	courts := usecase.NewCourtsController(cmd.Env.Gateway, logger)

	refresher := scheduler.NewCronRefresher(store, cfg.RequestTimeout, logger)
	targets := map[string]domain.Refresher{
		string(domain.ListActive):  active,
		string(domain.ListWaiting): waiting,
		"courts":                   courts,
	}
	for name, target := range targets {
		if err := refresher.Add(name, cfg.RefreshSchedule, target); err != nil {
			return errors.Wrap(err, "serve : failed to schedule refresh")
		}
	}
	refresher.RunNow()

	viewHandler := http_api.NewViewHandler(active, waiting, courts, logger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	viewHandler.RegisterRoutes(mux)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	refresherDone := make(chan struct{})
	go func() {
		defer close(refresherDone)
		_ = refresher.Start(runCtx)
	}()

	log.Printf("Starting console server on %s", cfg.ListenAddr)
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: corsMiddleware(mux),
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-runCtx.Done():
		log.Println("Shutting down console gracefully...")
	case err := <-serveErr:
		runErr = errors.Wrap(err, "serve : HTTP server failed")
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = errors.Wrap(err, "serve : HTTP server shutdown failed")
	}
	<-refresherDone

	log.Println("Console shut down.")
	return runErr
}
