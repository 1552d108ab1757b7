package types

import (
	"errors"
	"fmt"
	"strings"
)

// Engine errors. Typed errors below unwrap to these sentinels so callers can
// use errors.Is.
var (
	ErrCatalogIntegrity  = errors.New("catalog integrity violation")
	ErrContextValidation = errors.New("invalid company context")
	ErrEmptyCatalog      = errors.New("catalog is empty")
)

// CatalogIntegrityError reports structural defects found while loading a
// catalog. It is fatal: a catalog with integrity errors is never served.
type CatalogIntegrityError struct {
	DuplicateIDs []string
	Dangling     []DanglingEdge
	Invalid      []string
}

// DanglingEdge is a relationship whose target is not in the catalog.
type DanglingEdge struct {
	From   string
	Target string
	Kind   string
}

func (e *CatalogIntegrityError) Error() string {
	var parts []string
	if len(e.DuplicateIDs) > 0 {
		parts = append(parts, fmt.Sprintf("duplicate ids: %s", strings.Join(e.DuplicateIDs, ", ")))
	}
	if len(e.Dangling) > 0 {
		refs := make([]string, len(e.Dangling))
		for i, d := range e.Dangling {
			refs[i] = fmt.Sprintf("%s -%s-> %s", d.From, d.Kind, d.Target)
		}
		parts = append(parts, fmt.Sprintf("dangling relationships: %s", strings.Join(refs, ", ")))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, strings.Join(e.Invalid, "; "))
	}
	return fmt.Sprintf("%s: %s", ErrCatalogIntegrity, strings.Join(parts, "; "))
}

func (e *CatalogIntegrityError) Unwrap() error { return ErrCatalogIntegrity }

// Empty reports whether no defect was recorded.
func (e *CatalogIntegrityError) Empty() bool {
	return len(e.DuplicateIDs) == 0 && len(e.Dangling) == 0 && len(e.Invalid) == 0
}

// ContextValidationError is returned when a CompanyContext violates its
// invariants. The caller is expected to fix the context and retry.
type ContextValidationError struct {
	Problems []string
}

func (e *ContextValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrContextValidation, strings.Join(e.Problems, "; "))
}

func (e *ContextValidationError) Unwrap() error { return ErrContextValidation }
