package units

import (
	"errors"
	"fmt"
)

// Dimension is the conversion family a unit belongs to. Converting across
// dimensions is always an error.
type Dimension string

const (
	Weight Dimension = "WEIGHT"
	Volume Dimension = "VOLUME"
	Count  Dimension = "COUNT"
)

var (
	ErrUnknownUnit           = errors.New("unknown unit")
	ErrIncompatibleDimension = errors.New("incompatible unit dimensions")
)

// Unit describes a measurement unit and its relation to the base unit of its
// dimension. FactorToBase is the multiplier that converts one of this unit
// into the base unit (e.g. g -> kg is 0.001).
type Unit struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Dimension    Dimension `json:"dimension"`
	FactorToBase float64   `json:"factor_to_base"`
	BaseSymbol   string    `json:"base_symbol"`
}

// registry holds the static conversion table. Base units carry factor 1.
var registry = map[string]Unit{
	// Weight, base kg
	"kg": {Symbol: "kg", Name: "Kilogram", Dimension: Weight, FactorToBase: 1, BaseSymbol: "kg"},
	"g":  {Symbol: "g", Name: "Gram", Dimension: Weight, FactorToBase: 0.001, BaseSymbol: "kg"},
	"mg": {Symbol: "mg", Name: "Milligram", Dimension: Weight, FactorToBase: 0.000001, BaseSymbol: "kg"},
	"lb": {Symbol: "lb", Name: "Pound", Dimension: Weight, FactorToBase: 0.453592, BaseSymbol: "kg"},
	"oz": {Symbol: "oz", Name: "Ounce", Dimension: Weight, FactorToBase: 0.0283495, BaseSymbol: "kg"},

	// Volume, base l
	"l":    {Symbol: "l", Name: "Litre", Dimension: Volume, FactorToBase: 1, BaseSymbol: "l"},
	"ml":   {Symbol: "ml", Name: "Millilitre", Dimension: Volume, FactorToBase: 0.001, BaseSymbol: "l"},
	"tsp":  {Symbol: "tsp", Name: "Teaspoon", Dimension: Volume, FactorToBase: 0.00492892, BaseSymbol: "l"},
	"tbsp": {Symbol: "tbsp", Name: "Tablespoon", Dimension: Volume, FactorToBase: 0.0147868, BaseSymbol: "l"},
	"cup":  {Symbol: "cup", Name: "Cup", Dimension: Volume, FactorToBase: 0.24, BaseSymbol: "l"},

	// Count, base piece
	"piece":  {Symbol: "piece", Name: "Piece", Dimension: Count, FactorToBase: 1, BaseSymbol: "piece"},
	"dozen":  {Symbol: "dozen", Name: "Dozen", Dimension: Count, FactorToBase: 12, BaseSymbol: "piece"},
	"pack":   {Symbol: "pack", Name: "Pack", Dimension: Count, FactorToBase: 1, BaseSymbol: "piece"},
	"bottle": {Symbol: "bottle", Name: "Bottle", Dimension: Count, FactorToBase: 1, BaseSymbol: "piece"},
	"can":    {Symbol: "can", Name: "Can", Dimension: Count, FactorToBase: 1, BaseSymbol: "piece"},
	"slice":  {Symbol: "slice", Name: "Slice", Dimension: Count, FactorToBase: 1, BaseSymbol: "piece"},
}

// Lookup returns the unit registered under symbol.
func Lookup(symbol string) (Unit, bool) {
	u, ok := registry[symbol]
	return u, ok
}

// All returns every registered unit. The result is a copy; mutating it does
// not affect the registry.
func All() []Unit {
	out := make([]Unit, 0, len(registry))
	for _, u := range registry {
		out = append(out, u)
	}
	return out
}

// Convert converts quantity from one unit to another by going through the
// dimension's base unit. It is pure: no I/O, no rounding, deterministic.
// Callers decide display precision.
func Convert(quantity float64, fromSymbol, toSymbol string) (float64, error) {
	if fromSymbol == toSymbol {
		return quantity, nil
	}
	from, ok := registry[fromSymbol]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, fromSymbol)
	}
	to, ok := registry[toSymbol]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, toSymbol)
	}
	if from.BaseSymbol != to.BaseSymbol {
		return 0, fmt.Errorf("%w: cannot convert %s (%s) to %s (%s)",
			ErrIncompatibleDimension, fromSymbol, from.Dimension, toSymbol, to.Dimension)
	}
	return quantity * from.FactorToBase / to.FactorToBase, nil
}
