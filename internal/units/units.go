// Package units converts ingredient quantities between metric and imperial
// measures and formats them the way cooks write them.
package units

import (
	"fmt"
	"strings"
)

// System is a measurement system.
type System string

// Measurement systems.
const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// ParseSystem validates a system name. The empty string is not a system.
func ParseSystem(s string) (System, error) {
	switch System(strings.ToLower(strings.TrimSpace(s))) {
	case Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", fmt.Errorf("unknown measurement system %q (must be metric or imperial)", s)
	}
}

// Opposite returns the other measurement system.
func (s System) Opposite() System {
	if s == Metric {
		return Imperial
	}
	return Metric
}

// Measure is the physical quantity a unit measures. Units never convert
// across measures.
type Measure string

// Measures.
const (
	Weight Measure = "weight"
	Volume Measure = "volume"
)

// Unit describes a known cooking unit. ToBase multiplies an amount into
// grams for weight and milliliters for volume.
type Unit struct {
	Name    string
	Measure Measure
	System  System
	ToBase  float64
}

var known = map[string]Unit{
	"g":      {Name: "g", Measure: Weight, System: Metric, ToBase: 1},
	"kg":     {Name: "kg", Measure: Weight, System: Metric, ToBase: 1000},
	"oz":     {Name: "oz", Measure: Weight, System: Imperial, ToBase: 28.3495},
	"lb":     {Name: "lb", Measure: Weight, System: Imperial, ToBase: 453.592},
	"ml":     {Name: "ml", Measure: Volume, System: Metric, ToBase: 1},
	"l":      {Name: "l", Measure: Volume, System: Metric, ToBase: 1000},
	"L":      {Name: "L", Measure: Volume, System: Metric, ToBase: 1000},
	"cup":    {Name: "cup", Measure: Volume, System: Imperial, ToBase: 236.588},
	"cups":   {Name: "cups", Measure: Volume, System: Imperial, ToBase: 236.588},
	"tbsp":   {Name: "tbsp", Measure: Volume, System: Imperial, ToBase: 14.7868},
	"tsp":    {Name: "tsp", Measure: Volume, System: Imperial, ToBase: 4.92892},
	"fl oz":  {Name: "fl oz", Measure: Volume, System: Imperial, ToBase: 29.5735},
	"pint":   {Name: "pint", Measure: Volume, System: Imperial, ToBase: 473.176},
	"quart":  {Name: "quart", Measure: Volume, System: Imperial, ToBase: 946.353},
	"gallon": {Name: "gallon", Measure: Volume, System: Imperial, ToBase: 3785.41},
}

// preferred lists candidate target units per system and measure, in rank order.
var preferred = map[System]map[Measure][]string{
	Metric: {
		Weight: {"g", "kg"},
		Volume: {"ml", "L"},
	},
	Imperial: {
		Weight: {"oz", "lb"},
		Volume: {"tsp", "tbsp", "cup", "fl oz"},
	},
}

// Lookup returns the unit for a name. Names are case sensitive ("l" and "L"
// are both liters).
func Lookup(name string) (Unit, bool) {
	u, ok := known[name]
	return u, ok
}

// Convertible reports whether name is a known unit.
func Convertible(name string) bool {
	_, ok := known[name]
	return ok
}

// Convert expresses amount of fromUnit in the best-fitting unit of the target
// system. Unknown units and units already in the target system come back
// unchanged.
func Convert(amount float64, fromUnit string, to System) (float64, string) {
	from, ok := known[fromUnit]
	if !ok || from.System == to {
		return amount, fromUnit
	}

	candidates := preferred[to][from.Measure]
	if len(candidates) == 0 {
		return amount, fromUnit
	}

	base := amount * from.ToBase

	bestUnit := candidates[0]
	bestAmount := base / known[bestUnit].ToBase
	for _, name := range candidates {
		converted := base / known[name].ToBase
		if !inRange(converted) {
			continue
		}
		if !inRange(bestAmount) || (converted >= 1 && converted < bestAmount) {
			bestUnit = name
			bestAmount = converted
		}
	}

	return Round(bestAmount, bestUnit), bestUnit
}

func inRange(v float64) bool {
	return v >= 0.25 && v < 1000
}

// ToBase converts amount of unit to grams or milliliters.
func ToBase(amount float64, unit string) (float64, bool) {
	u, ok := known[unit]
	if !ok {
		return 0, false
	}
	return amount * u.ToBase, true
}

// Scale multiplies an amount by a serving factor. Non-positive factors leave
// the amount unchanged.
func Scale(amount, factor float64) float64 {
	if factor <= 0 {
		return amount
	}
	return amount * factor
}
