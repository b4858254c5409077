// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubimport/internal/ledger"
	"github.com/pdiddy/pubimport/internal/publication"
	"github.com/pdiddy/pubimport/internal/secrets"
	"github.com/pdiddy/pubimport/pkg/types"
)

func TestScholarArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"user only", []string{"abc123"}, false},
		{"user and pages", []string{"abc123", "2"}, false},
		{"zero pages", []string{"abc123", "0"}, false},
		{"no args", nil, true},
		{"blank user", []string{"  "}, true},
		{"pages not a number", []string{"abc123", "two"}, true},
		{"negative pages", []string{"abc123", "-1"}, true},
		{"too many args", []string{"abc123", "2", "3"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scholarArgs(scholarCmd, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSemanticArgs(t *testing.T) {
	assert.NoError(t, semanticArgs(semanticCmd, []string{"12345"}))
	assert.Error(t, semanticArgs(semanticCmd, nil))
	assert.Error(t, semanticArgs(semanticCmd, []string{""}))
	assert.Error(t, semanticArgs(semanticCmd, []string{"1", "2"}))
}

func TestLoadImportConfig(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("root", "/site")
	v.Set("self.name", "Youngbin Choi")
	v.Set("self.aliases", []string{"Y Choi"})
	v.Set("http.timeout", "30s")
	v.Set("max_pages", 0)

	cfg, err := loadImportConfig(v, secrets.Secrets{secrets.SemanticScholarAPIKey: "from-file"})
	require.NoError(t, err)

	assert.Equal(t, "/site", cfg.Root)
	assert.Equal(t, filepath.Join("/site", "_publications"), cfg.OutputRoot())
	assert.Equal(t, "Youngbin Choi", cfg.Self.Name)
	assert.Equal(t, []string{"Y Choi"}, cfg.Self.Aliases)
	assert.Equal(t, "*", cfg.Self.Marker)
	assert.Equal(t, "+0900", cfg.DateOffset)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, defaultMaxPages, cfg.MaxPages)
	assert.Equal(t, "from-file", cfg.SemanticScholarAPIKey)
}

func TestLoadImportConfigPrefersConfiguredKey(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("semantic_scholar_api_key", "from-config")

	cfg, err := loadImportConfig(v, secrets.Secrets{secrets.SemanticScholarAPIKey: "from-file"})
	require.NoError(t, err)
	assert.Equal(t, "from-config", cfg.SemanticScholarAPIKey)
}

func TestConfigureLogger(t *testing.T) {
	l := logrus.New()

	configureLogger(l, "warn", false)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	configureLogger(l, "nonsense", false)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	configureLogger(l, "error", true)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}

func TestStartImportRecordsToLedger(t *testing.T) {
	root := t.TempDir()
	cfg := types.ImportConfig{Root: root, Ledger: true, DateOffset: "+0900"}
	ctx := context.Background()
	l, _ := testLogger()

	run, err := startImport(ctx, cfg, l, types.SourceSemanticScholar, "12345")
	require.NoError(t, err)
	path, err := run.writer.Write(ctx, types.Publication{Title: "A Paper", Year: 2022})
	require.NoError(t, err)
	run.finish(ctx, 1)

	store, err := ledger.Open(ledgerPath(cfg))
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, path, entries[0].Path)

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "12345", runs[0].Identifier)
	assert.Equal(t, 1, runs[0].Written)
}

func TestStartImportWithoutLedger(t *testing.T) {
	cfg := types.ImportConfig{Root: t.TempDir()}
	l, _ := testLogger()

	run, err := startImport(context.Background(), cfg, l, types.SourceGoogleScholar, "u1")
	require.NoError(t, err)
	assert.Nil(t, run.store)
	run.finish(context.Background(), 0)

	_, err = os.Stat(ledgerPath(cfg))
	assert.True(t, os.IsNotExist(err))
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := publication.Render(types.Publication{Title: "Good", Year: 2020}, publication.RenderOptions{})
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "2020"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2020", "2020-good.md"), good, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2020", "2020-bad.md"), []byte("no front matter\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"check", dir})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, out.String(), "2020-bad.md")
	assert.Contains(t, out.String(), "Checked 2 files, 1 with problems.")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "pubimport dev\n", out.String())
}

func testLogger() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	return l, &buf
}
