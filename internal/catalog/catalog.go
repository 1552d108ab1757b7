// Package catalog holds the framework catalog: an immutable, ID-indexed
// arena of frameworks that every engine stage reads from.
package catalog

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/compass/pkg/types"
)

// Catalog is a validated, read-only set of frameworks. It is safe for
// concurrent use; callers must not mutate the frameworks it returns.
type Catalog struct {
	snapshot string
	byID     map[string]*types.Framework
	ordered  []*types.Framework
}

// New validates the frameworks and builds a catalog from them. Any
// duplicate ID, dangling relationship or invalid entry fails the whole load
// with a *types.CatalogIntegrityError. New takes ownership of the slice
// contents.
func New(frameworks []types.Framework) (*Catalog, error) {
	if len(frameworks) == 0 {
		return nil, types.ErrEmptyCatalog
	}
	if ierr := Validate(frameworks); ierr != nil {
		return nil, ierr
	}

	snapshot, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating catalog snapshot id: %w", err)
	}

	c := &Catalog{
		snapshot: snapshot.String(),
		byID:     make(map[string]*types.Framework, len(frameworks)),
		ordered:  make([]*types.Framework, 0, len(frameworks)),
	}
	for i := range frameworks {
		fw := &frameworks[i]
		c.byID[fw.ID] = fw
		c.ordered = append(c.ordered, fw)
	}
	sort.Slice(c.ordered, func(i, k int) bool { return c.ordered[i].ID < c.ordered[k].ID })
	return c, nil
}

// Validate checks catalog integrity and returns every defect found, or nil.
func Validate(frameworks []types.Framework) *types.CatalogIntegrityError {
	ierr := &types.CatalogIntegrityError{}

	seen := make(map[string]int, len(frameworks))
	for _, fw := range frameworks {
		if fw.ID == "" {
			ierr.Invalid = append(ierr.Invalid, fmt.Sprintf("framework %q has no id", fw.Name))
			continue
		}
		seen[fw.ID]++
		if seen[fw.ID] == 2 {
			ierr.DuplicateIDs = append(ierr.DuplicateIDs, fw.ID)
		}
	}

	for _, fw := range frameworks {
		if fw.ID == "" {
			continue
		}
		ierr.Invalid = append(ierr.Invalid, invalidFields(&fw)...)
		for _, e := range fw.Relationships {
			if !types.ValidRelationKind(e.Kind) {
				ierr.Invalid = append(ierr.Invalid, fmt.Sprintf("%s: unknown relationship kind %q", fw.ID, e.Kind))
			}
			if _, ok := seen[e.Target]; !ok {
				ierr.Dangling = append(ierr.Dangling, types.DanglingEdge{From: fw.ID, Target: e.Target, Kind: e.Kind})
			}
		}
	}

	if ierr.Empty() {
		return nil
	}
	sort.Strings(ierr.DuplicateIDs)
	return ierr
}

func invalidFields(fw *types.Framework) []string {
	var out []string
	if fw.Effectiveness < 0 || fw.Effectiveness > 1 {
		out = append(out, fmt.Sprintf("%s: effectiveness %v outside [0,1]", fw.ID, fw.Effectiveness))
	}
	if fw.TimeToValueDays < 0 {
		out = append(out, fmt.Sprintf("%s: negative time_to_value_days", fw.ID))
	}
	if fw.MinTeamSize < 0 {
		out = append(out, fmt.Sprintf("%s: negative min_team_size", fw.ID))
	}
	for _, s := range fw.Tags.Stages {
		if !s.Valid() {
			out = append(out, fmt.Sprintf("%s: unknown stage %q", fw.ID, s))
		}
	}
	for _, p := range fw.Tags.Problems {
		if !p.Valid() {
			out = append(out, fmt.Sprintf("%s: unknown problem archetype %q", fw.ID, p))
		}
	}
	if d := fw.Tags.DataRequirement; d != "" {
		if _, ok := d.Ordinal(); !ok {
			out = append(out, fmt.Sprintf("%s: unknown data requirement %q", fw.ID, d))
		}
	}
	if c := fw.Tags.Complexity; c != "" {
		if _, ok := c.Ordinal(); !ok {
			out = append(out, fmt.Sprintf("%s: unknown complexity %q", fw.ID, c))
		}
	}
	return out
}

// SnapshotID identifies this load of the catalog.
func (c *Catalog) SnapshotID() string { return c.snapshot }

// Len returns the number of frameworks.
func (c *Catalog) Len() int { return len(c.ordered) }

// Get returns the framework with the given ID.
func (c *Catalog) Get(id string) (*types.Framework, bool) {
	fw, ok := c.byID[id]
	return fw, ok
}

// All returns every framework sorted by ID. The slice is a copy; the
// frameworks are shared.
func (c *Catalog) All() []*types.Framework {
	out := make([]*types.Framework, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Frameworks returns value copies of every framework sorted by ID, suitable
// for export.
func (c *Catalog) Frameworks() []types.Framework {
	out := make([]types.Framework, len(c.ordered))
	for i, fw := range c.ordered {
		out[i] = *fw
	}
	return out
}
