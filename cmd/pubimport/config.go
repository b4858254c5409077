// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubimport/internal/ledger"
	"github.com/pdiddy/pubimport/internal/publication"
	"github.com/pdiddy/pubimport/internal/secrets"
	"github.com/pdiddy/pubimport/pkg/types"
)

const defaultMaxPages = 5

// setDefaults registers every config key so that AutomaticEnv overrides are
// visible to Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("publications_dir", "_publications")
	v.SetDefault("self.name", "")
	v.SetDefault("self.aliases", []string{})
	v.SetDefault("self.marker", publication.DefaultMarker)
	v.SetDefault("date_offset", publication.DefaultDateOffset)
	v.SetDefault("max_pages", defaultMaxPages)
	v.SetDefault("http.timeout", 0)
	v.SetDefault("http.user_agent", "")
	v.SetDefault("semantic_scholar_api_key", "")
	v.SetDefault("ledger", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("verbose", false)
}

// loadImportConfig materializes the viper state into an ImportConfig. The
// Semantic Scholar key falls back to the .secrets/ file when not configured.
func loadImportConfig(v *viper.Viper, s secrets.Secrets) (types.ImportConfig, error) {
	var cfg types.ImportConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	if cfg.SemanticScholarAPIKey == "" {
		cfg.SemanticScholarAPIKey = s.Get(secrets.SemanticScholarAPIKey)
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	return cfg, nil
}

// configureLogger sets l's level and text formatter on stderr.
func configureLogger(l *logrus.Logger, level string, verbose bool) {
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	l.SetLevel(lvl)
}

func newHTTPClient(cfg types.ImportConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// importRun bundles the writer and the optional ledger for one import.
type importRun struct {
	cfg    types.ImportConfig
	writer *publication.Writer
	store  *ledger.Store
	run    ledger.Run
	log    logrus.FieldLogger
}

// startImport builds the writer for cfg and, when the ledger is enabled,
// opens it and begins a run.
func startImport(ctx context.Context, cfg types.ImportConfig, l logrus.FieldLogger, source, identifier string) (*importRun, error) {
	rl := l.WithFields(logrus.Fields{"source": source, "id": identifier})
	r := &importRun{
		cfg:    cfg,
		writer: publication.NewWriter(cfg, rl),
		log:    rl,
	}
	if !cfg.Ledger {
		return r, nil
	}

	store, err := ledger.Open(ledgerPath(cfg))
	if err != nil {
		return nil, err
	}
	run, err := store.BeginRun(ctx, source, identifier)
	if err != nil {
		store.Close()
		return nil, err
	}
	r.store = store
	r.run = run
	r.writer.SetRecorder(store.Recorder(run))
	r.log = rl.WithField("run", run.ID)
	return r, nil
}

// finish closes the ledger run, if any. Ledger errors are logged only.
func (r *importRun) finish(ctx context.Context, written int) {
	if r.store == nil {
		return
	}
	if err := r.store.FinishRun(ctx, r.run, written); err != nil {
		r.log.WithError(err).Warn("could not finish ledger run")
	}
	if err := r.store.Close(); err != nil {
		r.log.WithError(err).Warn("could not close ledger")
	}
}

func ledgerPath(cfg types.ImportConfig) string {
	return filepath.Join(cfg.OutputRoot(), ledger.FileName)
}
