// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"time"
)

// HTTPConfig holds shared HTTP settings used by the importers.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport default.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "academic-homepage-import/1.0").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SelfIdentity names the owner of the publication list. Author names that
// exactly match Name or one of Aliases are rendered as Name followed by Marker.
type SelfIdentity struct {
	// Name is the canonical rendering of the owner's name (e.g. "Youngbin Choi").
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Aliases are alternate spellings that also identify the owner (e.g. "Y Choi").
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty" mapstructure:"aliases"`

	// Marker is appended to the owner's rendered name (default "*").
	Marker string `json:"marker" yaml:"marker" mapstructure:"marker"`
}

// ImportConfig holds everything an import run needs. It is built once by the
// CLI and passed to each component; library packages hold no global state.
type ImportConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:"http"`

	// Root is the static-site repository root.
	Root string `json:"root" yaml:"root" mapstructure:"root"`

	// PublicationsDir is the content directory under Root (default "_publications").
	PublicationsDir string `json:"publications_dir" yaml:"publications_dir" mapstructure:"publications_dir"`

	// Self identifies the list owner among co-authors.
	Self SelfIdentity `json:"self" yaml:"self" mapstructure:"self"`

	// DateOffset is the UTC offset written into the date field (default "+0900").
	DateOffset string `json:"date_offset" yaml:"date_offset" mapstructure:"date_offset"`

	// MaxPages bounds Google Scholar pagination (default 5).
	MaxPages int `json:"max_pages" yaml:"max_pages" mapstructure:"max_pages"`

	// SemanticScholarAPIKey is an optional API key sent as x-api-key.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`

	// Ledger enables the SQLite import ledger under the publications directory.
	Ledger bool `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
}

// OutputRoot returns the directory publications are written under.
func (c ImportConfig) OutputRoot() string {
	dir := c.PublicationsDir
	if dir == "" {
		dir = "_publications"
	}
	return filepath.Join(c.Root, dir)
}
