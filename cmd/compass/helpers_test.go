package main

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short ascii", "Lean Canvas", 40, "Lean Canvas"},
		{"exact length", "abcdef", 6, "abcdef"},
		{"long ascii", "Balanced Scorecard Strategy Map", 12, "Balanced ..."},
		{"curly apostrophe", "Porter’s Five Forces", 10, "Porter’..."},
		{"accented", "Análisis de la Cadena de Valor", 8, "Análi..."},
		{"multi-byte fits by runes", "Análisis", 8, "Análisis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.n)
		})
	}
}
