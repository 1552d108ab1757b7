// Package compass provides the public API for embedding the framework
// recommendation engine. It exposes catalog loading and engine construction
// while keeping implementation details internal.
//
// Example:
//
//	c, err := compass.LoadCatalog(compass.FormatAuto, "")
//	if err != nil {
//	    return err
//	}
//	eng, err := compass.New(c)
//	if err != nil {
//	    return err
//	}
//	rec, err := eng.Recommend(ctx, cc, 5)
package compass

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/compass/internal/catalog"
	"github.com/mesh-intelligence/compass/internal/engine"
	"github.com/mesh-intelligence/compass/internal/sqlite"
)

// Catalog formats accepted by LoadCatalog.
const (
	FormatAuto    = "auto"
	FormatBuiltin = "builtin"
	FormatYAML    = "yaml"
	FormatJSONL   = "jsonl"
)

// ErrUnknownFormat is returned by LoadCatalog for an unsupported format.
var ErrUnknownFormat = errors.New("unknown catalog format")

type (
	// Catalog is an immutable, validated set of frameworks.
	Catalog = catalog.Catalog
	// Engine computes recommendations and journeys against one catalog.
	Engine = engine.Engine
	// Option configures an Engine.
	Option = engine.Option
)

// Engine options.
var (
	WithLogger          = engine.WithLogger
	WithMinScore        = engine.WithMinScore
	WithJourneyPoolSize = engine.WithJourneyPoolSize
	WithPhaseCapacity   = engine.WithPhaseCapacity
)

// New returns an engine over c.
func New(c *Catalog, opts ...Option) (*Engine, error) {
	return engine.New(c, opts...)
}

// LoadCatalog loads a catalog in the given format. FormatAuto picks jsonl
// when dir holds frameworks.jsonl, yaml for any other directory and the
// built-in catalog when dir is empty.
func LoadCatalog(format, dir string) (*Catalog, error) {
	if format == "" || format == FormatAuto {
		format = DetectFormat(dir)
	}

	var (
		c   *Catalog
		err error
	)
	switch format {
	case FormatBuiltin:
		c, err = catalog.Builtin()
	case FormatYAML:
		c, err = catalog.LoadYAML(dir)
	case FormatJSONL:
		c, err = sqlite.LoadCatalog(dir)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s catalog: %w", format, err)
	}
	return c, nil
}

// DetectFormat returns the format FormatAuto resolves to for dir.
func DetectFormat(dir string) string {
	if dir == "" {
		return FormatBuiltin
	}
	if _, err := os.Stat(filepath.Join(dir, sqlite.FrameworksFile)); err == nil {
		return FormatJSONL
	}
	return FormatYAML
}

// ExportCatalog writes c as frameworks.jsonl in dir.
func ExportCatalog(c *Catalog, dir string) error {
	return sqlite.ExportCatalog(c, dir)
}
