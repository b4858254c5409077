// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubimport/internal/semantic"
	"github.com/pdiddy/pubimport/pkg/types"
)

var semanticCmd = &cobra.Command{
	Use:   "semantic <author_id>",
	Short: "Import an author's papers from the Semantic Scholar Graph API",
	Long: `Semantic fetches up to 200 papers for a Semantic Scholar author id in a
single request and writes one file per paper, printing each path as it goes.
An API key is read from semantic_scholar_api_key, PUBIMPORT_SEMANTIC_SCHOLAR_API_KEY,
or .secrets/semantic-scholar-api-key.`,
	Args: semanticArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadImportConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		run, err := startImport(ctx, cfg, log, types.SourceSemanticScholar, args[0])
		if err != nil {
			return err
		}

		im := &semantic.Importer{
			Client:    newHTTPClient(cfg),
			Writer:    run.writer,
			UserAgent: cfg.UserAgent,
			APIKey:    cfg.SemanticScholarAPIKey,
			Log:       run.log,
			Out:       cmd.OutOrStdout(),
		}
		total, err := im.Import(ctx, args[0])
		run.finish(ctx, total)
		if err != nil {
			return err
		}

		semantic.Summary(cmd.OutOrStdout(), total)
		return nil
	},
}

func semanticArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	if strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("author_id must not be empty")
	}
	return nil
}

func init() {
	semanticCmd.Flags().String("api-key", "", "Semantic Scholar API key")
	_ = viper.BindPFlag("semantic_scholar_api_key", semanticCmd.Flags().Lookup("api-key"))

	rootCmd.AddCommand(semanticCmd)
}
