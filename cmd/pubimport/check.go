// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubimport/internal/publication"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Validate the front matter of generated publication files",
	Long: `Check parses every .md file under dir (default: the configured
publications directory) as front matter and reports files that are malformed
or lack a title, date, or pub_date. It exits non-zero when any file fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir := ""
		if len(args) == 1 {
			dir = args[0]
		} else {
			cfg, err := loadImportConfig(viper.GetViper(), loadedSecrets)
			if err != nil {
				return err
			}
			dir = cfg.OutputRoot()
		}

		checked, problems, err := publication.CheckTree(dir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range problems {
			fmt.Fprintf(out, "%s: %v\n", p.Path, p.Err)
		}
		fmt.Fprintf(out, "Checked %d files, %d with problems.\n", checked, len(problems))
		if len(problems) > 0 {
			return fmt.Errorf("%d of %d files failed validation", len(problems), checked)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
