package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"activityfeed/internal/app"
	"activityfeed/internal/cache"
	"activityfeed/internal/config"
	"activityfeed/internal/extractors"
	"activityfeed/internal/fetch"
	"activityfeed/internal/logger"
	"activityfeed/internal/render"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, cfg, logger.Log)
}

// Serve opens the cache, builds the server and runs it until ctx ends.
func Serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	store, err := cache.Open(ctx, cfg.Cache, log)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer store.Close()

	browser, static := NewRenderers(cfg, log)
	srv, err := app.NewServer(cfg, app.Deps{
		Cache:     store,
		CacheName: store.BackendName(),
		Browser:   browser,
		Static:    static,
		Registry:  extractors.NewDefaultRegistry(cfg.ArticleDomains),
		Log:       log,
	})
	if err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}
	return srv.Run(ctx, cfg.Addr())
}

// NewRenderers builds the page renderer for the configured mode and the plain
// HTTP renderer used for static routes.
func NewRenderers(cfg *config.Config, log *zap.Logger) (browser, static render.Renderer) {
	client := fetch.NewClient(fetch.ClientOptions{
		Timeout:   cfg.Render.HTTPTimeout,
		UserAgent: cfg.Render.UserAgent,
		RetryMax:  cfg.Render.RetryMax,
		Logger:    log,
	})
	static = render.NewStaticRenderer(client)
	if cfg.Render.Mode == "http" {
		return static, static
	}
	browser = render.NewChromeRenderer(render.ChromeOptions{
		ExecPath:    cfg.Render.ChromePath,
		UserAgent:   cfg.Render.UserAgent,
		Width:       cfg.Render.Width,
		Height:      cfg.Render.Height,
		WaitTimeout: cfg.Render.WaitTimeout,
		SettleDelay: cfg.Render.SettleDelay,
		Logger:      log,
	})
	return browser, static
}
