package graph

import (
	"errors"

	"github.com/chazu/mapgen/pkg/noise"
)

var (
	// ErrNotFound is returned when a name is not present in the Registry.
	ErrNotFound = errors.New("node not found")
	// ErrDuplicateName is returned when a name is already taken.
	ErrDuplicateName = errors.New("node name already exists")
	// ErrIndexOutOfRange is returned for a bad source slot index.
	ErrIndexOutOfRange = noise.ErrIndexOutOfRange
	// ErrCycle is returned when a link would make a node its own upstream.
	ErrCycle = errors.New("link would create a cycle")
	// ErrForeignNode is returned when linking nodes owned by different
	// registries.
	ErrForeignNode = errors.New("node belongs to another registry")
)
