// Package overlay applies industry-specific variants to a framework's
// presentation fields. It runs only on frameworks that have already been
// selected, so it can change how a framework is shown but never whether it
// is chosen.
package overlay

import "github.com/mesh-intelligence/compass/pkg/types"

// View is a framework's presentation fields after the overlay.
type View struct {
	Name        string
	Description string
	Metrics     []types.Metric
	Axes        []types.Axis
	Benchmarks  map[string]float64
	// Variant is the industry key whose variant was applied, or empty.
	Variant string
}

// Apply shallow-merges the framework's variant for industry over its
// generic fields. Fields the variant leaves empty pass through. A missing
// key or variant returns the generic fields with an empty Variant.
func Apply(fw *types.Framework, industry string) View {
	v := View{
		Name:        fw.Name,
		Description: fw.Description,
		Metrics:     fw.Metrics,
		Axes:        fw.Axes,
		Benchmarks:  fw.Benchmarks,
	}
	if industry == "" {
		return v
	}
	variant, ok := fw.IndustryVariants[industry]
	if !ok {
		return v
	}

	v.Variant = industry
	if variant.Name != "" {
		v.Name = variant.Name
	}
	if variant.Description != "" {
		v.Description = variant.Description
	}
	if len(variant.Metrics) > 0 {
		v.Metrics = variant.Metrics
	}
	if len(variant.Axes) > 0 {
		v.Axes = variant.Axes
	}
	if len(variant.Benchmarks) > 0 {
		v.Benchmarks = variant.Benchmarks
	}
	return v
}

// HasVariant reports whether the framework defines a variant for industry.
func HasVariant(fw *types.Framework, industry string) bool {
	_, ok := fw.IndustryVariants[industry]
	return ok
}

// ToFrameworkView combines a scoring result with the overlaid presentation
// fields.
func ToFrameworkView(s types.ScoredFramework, industry string) types.FrameworkView {
	v := Apply(s.Framework, industry)
	return types.FrameworkView{
		ID:            s.FrameworkID,
		Name:          v.Name,
		Category:      s.Framework.Category,
		Description:   v.Description,
		Score:         s.Score,
		SubScores:     s.SubScores,
		Contributions: s.Contributions,
		Dimensions:    s.Dimensions,
		Variant:       v.Variant,
		Metrics:       v.Metrics,
		Axes:          v.Axes,
		Benchmarks:    v.Benchmarks,
	}
}
