package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/lawgest/internal/api"
	"github.com/dgallion1/lawgest/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, true)
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogFormat, os.Stdout)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := pipeline.NewMetrics(reg)
			stats := pipeline.NewLatencyStats(time.Hour)

			sinks, closeSinks := buildSinks(cfg, log)
			defer closeSinks()

			// Initialize pipeline.
			worker := pipeline.NewWorker(sinks, parserOptions(cfg), metrics, stats, log)
			orch := pipeline.NewOrchestrator(cfg, worker, log)
			orch.Start(ctx)

			// Initialize HTTP server.
			srv := api.NewServer(orch, stats, reg, log, cfg)
			httpServer := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      srv,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 120 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			// Graceful shutdown.
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				log.Info("shutting down...")

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				httpServer.Shutdown(shutdownCtx)

				orch.Stop()
			}()

			log.Info("starting lawgest", "port", cfg.Port, "output_dir", cfg.OutputDir)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("port", "", "listen port (default \"8090\")")
	bindFlag(v, "port", cmd.Flags().Lookup("port"))
	return cmd
}
