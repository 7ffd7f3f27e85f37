package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bbdash/internal/client"
	"bbdash/internal/config"
	"bbdash/internal/dashboard"
	"bbdash/internal/logger"
	"bbdash/internal/poller"
	"bbdash/internal/repository"
	"bbdash/internal/state"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard daemon",
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	if cfg.Project == "" && cfg.Builder == "" {
		return fmt.Errorf("config needs at least a project or a builder to watch")
	}

	upstream := client.New(cfg)
	store := state.NewStore()
	history := repository.NewBuildRepository()

	registry := poller.NewRegistry()
	poller.RegisterHandlers(registry, store, history)

	sources := poller.Sources(cfg.Project, cfg.Builder, cfg.RecentBuilds)
	p := poller.New(upstream, registry, sources, cfg.PollInterval)
	p.Start()

	config.Watch(func(next *config.Config) {
		p.SetInterval(next.PollInterval)
		upstream.SetCodebases(next.Codebases)
	})

	srv := dashboard.NewServer(cfg, store, p, upstream, history)
	srv.Start()

	logger.Log.Info("bbdash daemon started",
		zap.String("master", cfg.MasterURL),
		zap.String("project", cfg.Project),
		zap.String("builder", cfg.Builder),
		zap.Int("port", cfg.DaemonPort))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Log.Info("shutting down",
			zap.String("signal", sig.String()))
	case <-srv.StopCh():
		logger.Log.Info("stop requested via API")
	}

	p.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
