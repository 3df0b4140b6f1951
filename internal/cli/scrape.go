package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"activityfeed/internal/cache"
	"activityfeed/internal/extractors"
	"activityfeed/internal/logger"
	"activityfeed/internal/render"
)

var (
	flagURL     string
	flagNoCache bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Render and extract a page once and print the entries as JSON",
	Long: "scrape runs the same pipeline as the API for a single URL. Render failures are " +
		"reported as errors instead of being replaced with sample entries.",
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringVar(&flagURL, "url", "", "page to scrape (default: configured profile URL)")
	scrapeCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "do not store the result in the cache")
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	target := flagURL
	if target == "" {
		target = cfg.ProfileURL
	}

	browser, static := NewRenderers(cfg, logger.Log)
	route := extractors.NewDefaultRegistry(cfg.ArticleDomains).ForURL(target)
	var r render.Renderer = browser
	if route.Static {
		r = static
	}

	ctx := cmd.Context()
	markup, err := r.Render(ctx, target)
	if err != nil {
		return err
	}
	entries := route.Extractor.Extract(markup, target)

	if !flagNoCache {
		store, err := cache.Open(ctx, cfg.Cache, logger.Log)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Write(ctx, entries); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
