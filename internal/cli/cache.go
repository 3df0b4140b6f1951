package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"activityfeed/internal/cache"
	"activityfeed/internal/logger"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the activity cache",
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cached record and whether it is still fresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		store, err := cache.Open(cmd.Context(), cfg.Cache, logger.Log)
		if err != nil {
			return err
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		rec, err := store.Inspect(cmd.Context())
		if errors.Is(err, cache.ErrNotFound) {
			fmt.Fprintf(out, "%s cache is empty\n", store.BackendName())
			return nil
		}
		if err != nil {
			return err
		}

		written := rec.WrittenAt()
		fmt.Fprintf(out, "backend:  %s\n", store.BackendName())
		fmt.Fprintf(out, "written:  %s (%s ago)\n", written.Format(time.RFC3339), time.Since(written).Round(time.Second))
		fmt.Fprintf(out, "fresh:    %t\n", store.Fresh(rec))
		fmt.Fprintf(out, "entries:  %d\n", len(rec.Data))

		data, err := json.MarshalIndent(rec.Data, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cached record",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		store, err := cache.Open(cmd.Context(), cfg.Cache, logger.Log)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s cache cleared\n", store.BackendName())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
