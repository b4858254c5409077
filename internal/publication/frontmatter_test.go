// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publication

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubimport/pkg/types"
)

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		want    string // expected title
	}{
		{"minimal", "---\ntitle: \"T\"\n---\n", "", "T"},
		{"body after block", "---\ntitle: \"T\"\n---\n\nSome body text.\n", "", "T"},
		{"no trailing newline", "---\ntitle: \"T\"\n---", "", "T"},
		{"crlf line endings", "---\r\ntitle: \"T\"\r\n---\r\n", "", "T"},
		{"empty block", "---\n---\n", "", ""},
		{"missing opening", "title: \"T\"\n---\n", "opening", ""},
		{"missing closing", "---\ntitle: \"T\"\n", "closing", ""},
		{"invalid yaml", "---\ntitle: [unterminated\n---\n", "decoding", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, err := ParseFrontMatter([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, fm.Title)
		})
	}
}

func TestFrontMatterValidate(t *testing.T) {
	ok := FrontMatter{Title: "T", Date: "2020-01-01 00:00:00 +0900", PubDate: "2020"}
	assert.NoError(t, ok.Validate())

	noTitle := ok
	noTitle.Title = ""
	assert.ErrorContains(t, noTitle.Validate(), "title")

	noDate := ok
	noDate.Date = ""
	assert.ErrorContains(t, noDate.Validate(), "date")
}

func TestCheckTree(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(testConfig(root), quietLogger())
	for _, p := range []types.Publication{
		{Title: "One", Year: 2021},
		{Title: "Two", Year: 2022, Abstract: "multi\nline"},
		{Year: 0},
	} {
		_, err := w.Write(context.Background(), p)
		require.NoError(t, err)
	}

	broken := filepath.Join(w.Root(), "2022", "2022-broken.md")
	require.NoError(t, os.WriteFile(broken, []byte("no front matter here\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(w.Root(), "notes.txt"), []byte("ignored"), 0o644))

	checked, problems, err := CheckTree(w.Root())
	require.NoError(t, err)
	assert.Equal(t, 4, checked)
	require.Len(t, problems, 1)
	assert.Equal(t, broken, problems[0].Path)
}

func TestCheckTreeMissingRoot(t *testing.T) {
	_, _, err := CheckTree(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
