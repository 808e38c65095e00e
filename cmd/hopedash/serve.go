package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hopefoundation/hopedash/internal/exitcode"
	"github.com/hopefoundation/hopedash/internal/logging"
	"github.com/hopefoundation/hopedash/internal/report"
	"github.com/hopefoundation/hopedash/internal/source"
	"github.com/hopefoundation/hopedash/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	table, err := source.Load(ctx, cfg.DataSource, cfg.SourceOptions(), log)
	if err != nil {
		log.Error().Err(err).Str("source", cfg.DataSource).Msg("dataset load failed")
		os.Exit(exitcode.LoadError)
	}

	if cfg.LogFormat == "json" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler, err := web.NewDashboardHandler(report.NewRegistry(), table, reportEnv(time.Now()), log)
	if err != nil {
		log.Error().Err(err).Msg("template setup failed")
		os.Exit(exitcode.ServeError)
	}

	if err := web.Serve(ctx, cfg.ListenAddr, web.NewRouter(handler, log), log); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(exitcode.ServeError)
	}
	return nil
}
