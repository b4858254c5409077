// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publication

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

// FrontMatter is the decoded metadata block of a publication file.
type FrontMatter struct {
	Title    string            `yaml:"title"`
	Date     string            `yaml:"date"`
	Selected bool              `yaml:"selected"`
	Pub      string            `yaml:"pub"`
	PubDate  string            `yaml:"pub_date"`
	Abstract string            `yaml:"abstract"`
	Authors  []string          `yaml:"authors"`
	Links    map[string]string `yaml:"links,omitempty"`
}

var (
	errNoOpeningDelim = errors.New("missing opening --- line")
	errNoClosingDelim = errors.New("missing closing --- line")
)

// ParseFrontMatter decodes the block between the leading and trailing ---
// lines of data.
func ParseFrontMatter(data []byte) (FrontMatter, error) {
	var fm FrontMatter

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return fm, errNoOpeningDelim
	}
	body := text[len(frontMatterDelim)+1:]

	var block string
	switch {
	case strings.HasPrefix(body, frontMatterDelim+"\n"), body == frontMatterDelim:
		block = ""
	case strings.Contains(body, "\n"+frontMatterDelim+"\n"):
		block = body[:strings.Index(body, "\n"+frontMatterDelim+"\n")+1]
	case strings.HasSuffix(body, "\n"+frontMatterDelim):
		block = strings.TrimSuffix(body, frontMatterDelim)
	default:
		return fm, errNoClosingDelim
	}

	dec := yaml.NewDecoder(strings.NewReader(block))
	if err := dec.Decode(&fm); err != nil && !errors.Is(err, io.EOF) {
		return fm, fmt.Errorf("decoding front matter: %w", err)
	}
	return fm, nil
}

// Validate reports the first required field that is missing.
func (fm FrontMatter) Validate() error {
	switch {
	case fm.Title == "":
		return errors.New("title is empty")
	case fm.Date == "":
		return errors.New("date is empty")
	case fm.PubDate == "":
		return errors.New("pub_date is empty")
	}
	return nil
}

// Problem describes one file that failed CheckTree.
type Problem struct {
	Path string
	Err  error
}

// CheckTree parses and validates every .md file under root. It returns the
// number of files checked and the problems found, sorted by path. Only
// filesystem errors abort the walk.
func CheckTree(root string) (int, []Problem, error) {
	var checked int
	var problems []Problem

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		checked++

		fm, err := ParseFrontMatter(data)
		if err == nil {
			err = fm.Validate()
		}
		if err != nil {
			problems = append(problems, Problem{Path: path, Err: err})
		}
		return nil
	})
	if err != nil {
		return checked, problems, err
	}

	sort.Slice(problems, func(i, j int) bool { return problems[i].Path < problems[j].Path })
	return checked, problems, nil
}
