//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Import runs the importers against the current site root.
type Import mg.Namespace

// Scholar imports a Google Scholar profile listing.
func (Import) Scholar(user string) error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath(), "scholar", user)
}

// Semantic imports an author's papers from Semantic Scholar.
func (Import) Semantic(author string) error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath(), "semantic", author)
}
