// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubimport CLI, which turns a
// researcher's Google Scholar or Semantic Scholar publication list into
// front-matter Markdown files for a static site.
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubimport/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// appName names the config file and its XDG directory.
const appName = "pubimport"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// log is configured in PersistentPreRunE from log_level.
var log = logrus.New()

// rootCmd is the base command for the pubimport CLI.
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Import a publication list into static-site Markdown files",
	Long: `pubimport fetches a researcher's publication list and writes one Markdown
file with front matter per publication under <root>/_publications/<year>/.

The scholar subcommand reads a Google Scholar profile listing page by page;
the semantic subcommand reads an author's papers from the Semantic Scholar
Graph API. Existing files with the same year and title slug are overwritten.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		configureLogger(log, viper.GetString("log_level"), viper.GetBool("verbose"))

		s, err := secrets.Load(secrets.DefaultDir, log)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := s.Keys()
			sort.Strings(keys)
			log.WithField("keys", keys).Debug("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./pubimport.yaml or $XDG_CONFIG_HOME/pubimport/pubimport.yaml)")
	pf.String("root", ".", "static-site repository root")
	pf.String("publications-dir", "_publications", "content directory under the root")
	pf.String("self-name", "", "canonical name of the list owner")
	pf.StringSlice("self-alias", nil, "alternate spelling of the owner's name (repeatable)")
	pf.String("date-offset", "+0900", "UTC offset written into each date field")
	pf.Bool("ledger", false, "record every written file in the SQLite import ledger")
	pf.Duration("timeout", 0, "HTTP request timeout (default: none)")
	pf.String("user-agent", "", "User-Agent header for HTTP requests")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.BoolP("verbose", "v", false, "shorthand for --log-level debug")

	for key, flag := range map[string]string{
		"root":             "root",
		"publications_dir": "publications-dir",
		"self.name":        "self-name",
		"self.aliases":     "self-alias",
		"date_offset":      "date-offset",
		"ledger":           "ledger",
		"http.timeout":     "timeout",
		"http.user_agent":  "user-agent",
		"log_level":        "log-level",
		"verbose":          "verbose",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}

	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
	}

	viper.SetEnvPrefix("PUBIMPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Info("using config file")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
