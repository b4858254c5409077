// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubimport/internal/ledger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show what previous imports wrote",
	Long: `Ledger reads the SQLite import ledger kept under the publications directory
when imports run with --ledger. By default it lists every file with the title
and run that last wrote it, followed by paths that have held more than one
title. Use --runs to list import runs instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadImportConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		path := ledgerPath(cfg)
		out := cmd.OutOrStdout()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Fprintf(out, "No ledger at %s. Run an import with --ledger first.\n", path)
			return nil
		}

		store, err := ledger.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		showRuns, _ := cmd.Flags().GetBool("runs")
		asJSON, _ := cmd.Flags().GetBool("json")

		if showRuns {
			runs, err := store.Runs(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, runs)
			}
			printRuns(out, runs)
			return nil
		}

		entries, err := store.Entries(ctx)
		if err != nil {
			return err
		}
		collisions, err := store.Collisions(ctx)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(out, struct {
				Entries    []ledger.Entry     `json:"entries"`
				Collisions []ledger.Collision `json:"collisions"`
			}{entries, collisions})
		}
		printEntries(out, entries)
		printCollisions(out, collisions)
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRuns(w io.Writer, runs []ledger.Run) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSOURCE\tID\tSTARTED\tWRITTEN")
	for _, r := range runs {
		written := "-"
		if !r.FinishedAt.IsZero() {
			written = fmt.Sprint(r.Written)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Source, r.Identifier, r.StartedAt.Format(time.RFC3339), written)
	}
	tw.Flush()
}

func printEntries(w io.Writer, entries []ledger.Entry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tYEAR\tSOURCE\tTITLE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.Path, e.Year, e.Source, e.Title)
	}
	tw.Flush()
}

func printCollisions(w io.Writer, collisions []ledger.Collision) {
	if len(collisions) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d paths have held more than one title:\n", len(collisions))
	for _, c := range collisions {
		fmt.Fprintf(w, "  %s\n    %s\n", c.Path, strings.Join(c.Titles, "\n    "))
	}
}

func init() {
	ledgerCmd.Flags().Bool("runs", false, "list import runs instead of files")
	ledgerCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(ledgerCmd)
}
