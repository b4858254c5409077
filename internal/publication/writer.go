// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publication

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pubimport/pkg/types"
)

// Recorder is notified of every file the Writer produces.
type Recorder interface {
	Record(ctx context.Context, path string, p types.Publication) error
}

// Writer renders publications and writes them under a year-bucketed root.
// A Writer is meant for one import run and is not safe for concurrent use.
type Writer struct {
	root     string
	opts     RenderOptions
	log      logrus.FieldLogger
	recorder Recorder

	// written maps each path produced in this run to the title written there.
	written map[string]string
}

// NewWriter returns a Writer for cfg's output root.
func NewWriter(cfg types.ImportConfig, log logrus.FieldLogger) *Writer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Writer{
		root: cfg.OutputRoot(),
		opts: RenderOptions{
			Identity:   NewIdentity(cfg.Self),
			DateOffset: cfg.DateOffset,
		},
		log:     log,
		written: make(map[string]string),
	}
}

// SetRecorder attaches r; nil detaches.
func (w *Writer) SetRecorder(r Recorder) {
	w.recorder = r
}

// Root returns the directory files are written under.
func (w *Writer) Root() string {
	return w.root
}

// Write normalizes p, renders it, and writes it to its computed path,
// creating the year directory if needed. An existing file is overwritten.
// It returns the path written.
func (w *Writer) Write(ctx context.Context, p types.Publication) (string, error) {
	n := Normalize(p)
	path := Path(w.root, n)

	if prev, ok := w.written[path]; ok && prev != n.Title {
		w.log.WithFields(logrus.Fields{
			"path":     path,
			"previous": prev,
			"title":    n.Title,
		}).Warn("slug collision, overwriting earlier record")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := writeFileAtomic(path, Render(n, w.opts)); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	w.written[path] = n.Title
	w.log.WithField("path", path).Debug("wrote publication")

	if w.recorder != nil {
		if err := w.recorder.Record(ctx, path, n); err != nil {
			w.log.WithError(err).WithField("path", path).Warn("ledger record failed")
		}
	}
	return path, nil
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".pubimport-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
