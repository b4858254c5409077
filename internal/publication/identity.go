// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publication

import "github.com/pdiddy/pubimport/pkg/types"

// DefaultMarker is appended to the owner's name when none is configured.
const DefaultMarker = "*"

// Identity marks the list owner among a record's authors.
type Identity struct {
	name   string
	marker string
	names  map[string]struct{}
}

// NewIdentity builds an Identity from configuration. An empty Name disables
// marking even when aliases are set.
func NewIdentity(cfg types.SelfIdentity) Identity {
	id := Identity{name: cfg.Name, marker: cfg.Marker}
	if id.marker == "" {
		id.marker = DefaultMarker
	}
	if cfg.Name == "" {
		return id
	}
	id.names = map[string]struct{}{cfg.Name: {}}
	for _, a := range cfg.Aliases {
		if a != "" {
			id.names[a] = struct{}{}
		}
	}
	return id
}

// IsSelf reports whether name exactly matches the owner's name or an alias.
func (id Identity) IsSelf(name string) bool {
	_, ok := id.names[name]
	return ok
}

// Mark renders an author name. Matches become the canonical owner name plus
// the marker; any other name is returned unchanged.
func (id Identity) Mark(name string) string {
	if id.IsSelf(name) {
		return id.name + id.marker
	}
	return name
}
