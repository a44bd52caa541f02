package units

import (
	"math"
	"strconv"
)

// bucket rounds amounts below limit to the nearest step.
type bucket struct {
	limit float64
	step  float64
}

// roundingSteps lists, per unit, buckets in ascending limit order. The last
// bucket has an infinite limit.
var roundingSteps = map[string][]bucket{
	"tsp":    {{5, 0.25}, {math.Inf(1), 0.5}},
	"tbsp":   {{5, 0.25}, {math.Inf(1), 0.5}},
	"cup":    {{2, 0.125}, {math.Inf(1), 0.25}},
	"cups":   {{2, 0.125}, {math.Inf(1), 0.25}},
	"fl oz":  {{10, 0.5}, {math.Inf(1), 1}},
	"oz":     {{10, 0.5}, {math.Inf(1), 1}},
	"lb":     {{2, 0.25}, {math.Inf(1), 0.5}},
	"g":      {{50, 5}, {500, 10}, {math.Inf(1), 25}},
	"kg":     {{5, 0.1}, {math.Inf(1), 0.25}},
	"ml":     {{50, 5}, {250, 10}, {math.Inf(1), 25}},
	"l":      {{5, 0.1}, {math.Inf(1), 0.25}},
	"L":      {{5, 0.1}, {math.Inf(1), 0.25}},
	"pint":   {{2, 0.25}, {math.Inf(1), 0.5}},
	"quart":  {{2, 0.25}, {math.Inf(1), 0.5}},
	"gallon": {{2, 0.25}, {math.Inf(1), 0.5}},
}

// Round applies the granularity cooks use for unit at the given magnitude.
// Unknown units round to two decimals.
func Round(amount float64, unit string) float64 {
	for _, b := range roundingSteps[unit] {
		if amount < b.limit {
			return roundToStep(amount, b.step)
		}
	}
	return roundToStep(amount, 0.01)
}

func roundToStep(x, step float64) float64 {
	if step >= 1 {
		return math.Round(x/step) * step
	}
	inv := math.Round(1 / step)
	return math.Round(x*inv) / inv
}

// fractionTolerance is how close a decimal must be to a common fraction to
// be printed as that fraction.
const fractionTolerance = 0.05

// minDecimal is the smallest positive amount formatDecimal prints.
const minDecimal = 0.01

var fractions = []struct {
	value  float64
	symbol string
}{
	{0.125, "⅛"},
	{0.25, "¼"},
	{0.33, "⅓"},
	{0.5, "½"},
	{0.67, "⅔"},
	{0.75, "¾"},
}

// FormatAmount renders an amount for display: whole numbers as integers,
// common fractions as their vulgar-fraction glyphs ("1 ½"), and everything
// else as a one-decimal number.
func FormatAmount(amount float64) string {
	if amount == math.Trunc(amount) {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}

	if amount < 1 {
		if symbol, ok := matchFraction(amount); ok {
			return symbol
		}
		return formatDecimal(amount)
	}

	whole := math.Floor(amount)
	rest := amount - whole
	if rest < fractionTolerance {
		return strconv.FormatFloat(whole, 'f', -1, 64)
	}
	if symbol, ok := matchFraction(rest); ok {
		return strconv.FormatFloat(whole, 'f', -1, 64) + " " + symbol
	}
	return formatDecimal(amount)
}

func matchFraction(v float64) (string, bool) {
	for _, f := range fractions {
		if math.Abs(v-f.value) < fractionTolerance {
			return f.symbol, true
		}
	}
	return "", false
}

// formatDecimal rounds to one place. Small positive amounts that would
// round to zero keep two places, and anything below 0.01 shows as 0.01.
func formatDecimal(v float64) string {
	rounded := math.Round(v*10) / 10
	if rounded == 0 && v > 0 {
		rounded = max(math.Round(v*100)/100, minDecimal)
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
