package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvert_WithinDimension(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		from     string
		to       string
		expected float64
	}{
		{"grams to kilograms", 500, "g", "kg", 0.5},
		{"kilograms to grams", 2.5, "kg", "g", 2500},
		{"milligrams to grams", 250, "mg", "g", 0.25},
		{"millilitres to litres", 750, "ml", "l", 0.75},
		{"litres to millilitres", 1.2, "l", "ml", 1200},
		{"dozen to pieces", 2, "dozen", "piece", 24},
		{"pieces to dozen", 18, "piece", "dozen", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.quantity, tt.from, tt.to)
			assert.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestConvert_SameUnitIsIdentity(t *testing.T) {
	got, err := Convert(3.7, "kg", "kg")
	assert.NoError(t, err)
	assert.Equal(t, 3.7, got)
}

func TestConvert_RoundTrip(t *testing.T) {
	// Converting there and back must not drift beyond float noise
	pairs := [][2]string{{"g", "kg"}, {"oz", "lb"}, {"tsp", "cup"}, {"dozen", "piece"}}
	for _, pair := range pairs {
		forward, err := Convert(123.456, pair[0], pair[1])
		assert.NoError(t, err)
		back, err := Convert(forward, pair[1], pair[0])
		assert.NoError(t, err)
		assert.InDelta(t, 123.456, back, 1e-9)
	}
}

func TestConvert_UnknownUnit(t *testing.T) {
	_, err := Convert(1, "stone", "kg")
	assert.ErrorIs(t, err, ErrUnknownUnit)

	_, err = Convert(1, "kg", "stone")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestConvert_IncompatibleDimensions(t *testing.T) {
	_, err := Convert(1, "kg", "l")
	assert.ErrorIs(t, err, ErrIncompatibleDimension)

	_, err = Convert(1, "piece", "g")
	assert.ErrorIs(t, err, ErrIncompatibleDimension)
}

func TestLookup(t *testing.T) {
	u, ok := Lookup("tbsp")
	assert.True(t, ok)
	assert.Equal(t, Volume, u.Dimension)
	assert.Equal(t, "l", u.BaseSymbol)

	_, ok = Lookup("furlong")
	assert.False(t, ok)
}

func TestAll_CoversEveryDimension(t *testing.T) {
	seen := map[Dimension]bool{}
	for _, u := range All() {
		seen[u.Dimension] = true
	}
	assert.True(t, seen[Weight])
	assert.True(t, seen[Volume])
	assert.True(t, seen[Count])
}
