// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubimport/internal/scholar"
	"github.com/pdiddy/pubimport/pkg/types"
)

var scholarCmd = &cobra.Command{
	Use:   "scholar <user_id> [max_pages]",
	Short: "Import a Google Scholar profile listing",
	Long: `Scholar fetches a public Google Scholar profile listing in pages of 100
rows, sorted by publication date, and writes one file per row. Pagination
stops at max_pages (default 5) or at the first page with no rows.`,
	Args: scholarArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadImportConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		maxPages := cfg.MaxPages
		if len(args) == 2 {
			maxPages, _ = strconv.Atoi(args[1])
		}

		ctx := cmd.Context()
		run, err := startImport(ctx, cfg, log, types.SourceGoogleScholar, args[0])
		if err != nil {
			return err
		}

		im := &scholar.Importer{
			Client:    newHTTPClient(cfg),
			Writer:    run.writer,
			UserAgent: cfg.UserAgent,
			Log:       run.log,
		}
		total, err := im.Import(ctx, args[0], maxPages)
		run.finish(ctx, total)
		if err != nil {
			return err
		}

		scholar.Summary(cmd.OutOrStdout(), total)
		return nil
	},
}

// scholarArgs requires a non-blank user id and an optional non-negative
// integer page limit.
func scholarArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(1, 2)(cmd, args); err != nil {
		return err
	}
	if strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("user_id must not be empty")
	}
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return fmt.Errorf("max_pages must be a non-negative integer, got %q", args[1])
		}
	}
	return nil
}

func init() {
	scholarCmd.Flags().Int("max-pages", 0, "maximum number of listing pages to fetch (default 5)")
	_ = viper.BindPFlag("max_pages", scholarCmd.Flags().Lookup("max-pages"))

	rootCmd.AddCommand(scholarCmd)
}
