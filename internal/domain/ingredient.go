package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/recipehub/recipehub-server/internal/units"
)

// IngredientKind distinguishes the two ingredient shapes.
type IngredientKind int

const (
	// IngredientStructured is an {amount, metric, name} entry.
	IngredientStructured IngredientKind = iota
	// IngredientFreeText is a plain string entry such as "salt to taste".
	IngredientFreeText
)

// Ingredient is either a structured measurement or free text. On the wire a
// free-text ingredient is a JSON string and a structured one is an object.
type Ingredient struct {
	Amount *float64
	Kind   IngredientKind
	Text   string
	Metric string
	Name   string
}

// FreeText creates a free-text ingredient.
func FreeText(text string) Ingredient {
	return Ingredient{Kind: IngredientFreeText, Text: text}
}

// Structured creates a structured ingredient. A nil amount means "no
// quantity" (e.g. "salt").
func Structured(amount *float64, metric, name string) Ingredient {
	return Ingredient{Kind: IngredientStructured, Amount: amount, Metric: metric, Name: name}
}

// Qty returns a pointer to v, for building structured ingredients.
func Qty(v float64) *float64 {
	return &v
}

// IsFreeText reports whether the ingredient is a plain string.
func (i Ingredient) IsFreeText() bool {
	return i.Kind == IngredientFreeText
}

// HasAmount reports whether a structured ingredient carries a non-zero amount.
func (i Ingredient) HasAmount() bool {
	return i.Kind == IngredientStructured && i.Amount != nil && *i.Amount != 0
}

// IsBlank reports whether the ingredient has nothing to show.
func (i Ingredient) IsBlank() bool {
	if i.IsFreeText() {
		return strings.TrimSpace(i.Text) == ""
	}
	return strings.TrimSpace(i.Name) == ""
}

// Keyword returns the text used for tagging and search: the name of a
// structured ingredient or the whole free-text line.
func (i Ingredient) Keyword() string {
	if i.IsFreeText() {
		return i.Text
	}
	return i.Name
}

// Display renders the ingredient as one line, e.g. "1 ½ cup flour".
func (i Ingredient) Display() string {
	if i.IsFreeText() {
		return i.Text
	}
	if !i.HasAmount() {
		return i.Name
	}
	return joinLine(units.FormatAmount(*i.Amount), i.Metric, i.Name)
}

// Render scales and optionally converts the ingredient before display. An
// empty system keeps the original unit.
func (i Ingredient) Render(system units.System, factor float64) string {
	if !i.HasAmount() {
		return i.Display()
	}

	amount := units.Scale(*i.Amount, factor)
	metric := i.Metric
	if system != "" && metric != "" {
		amount, metric = units.Convert(amount, metric, system)
	}
	return joinLine(units.FormatAmount(amount), metric, i.Name)
}

func joinLine(amount, metric, name string) string {
	var b strings.Builder
	b.WriteString(amount)
	if metric != "" {
		b.WriteByte(' ')
		b.WriteString(metric)
	}
	b.WriteByte(' ')
	b.WriteString(name)
	return b.String()
}

// Equal compares two structured ingredients field by field. Any other pair
// is compared by display string. A zero amount equals a missing one.
func (i Ingredient) Equal(o Ingredient) bool {
	if i.Kind == IngredientStructured && o.Kind == IngredientStructured {
		return amountsEqual(i.Amount, o.Amount) && i.Metric == o.Metric && i.Name == o.Name
	}
	return i.Display() == o.Display()
}

func amountsEqual(a, b *float64) bool {
	return amountOrZero(a) == amountOrZero(b)
}

func amountOrZero(a *float64) float64 {
	if a == nil {
		return 0
	}
	return *a
}

type structuredJSON struct {
	Amount *float64 `json:"amount"`
	Metric string   `json:"metric"`
	Name   string   `json:"name"`
}

// MarshalJSON encodes free text as a string and structured entries as an
// object whose amount is null when absent.
func (i Ingredient) MarshalJSON() ([]byte, error) {
	if i.IsFreeText() {
		return json.Marshal(i.Text)
	}
	return json.Marshal(structuredJSON{Amount: i.Amount, Metric: i.Metric, Name: i.Name})
}

// UnmarshalJSON accepts a string or an object. The amount may be a number,
// a numeric string, a fraction ("1/2", "1 1/2"), empty or null.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("ingredient must be a string or an object")
	}

	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*i = FreeText(text)
		return nil
	}

	var raw struct {
		Amount json.RawMessage `json:"amount"`
		Metric string          `json:"metric"`
		Name   string          `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("ingredient must be a string or an object: %w", err)
	}

	amount, err := parseAmount(raw.Amount)
	if err != nil {
		return err
	}

	*i = Structured(amount, strings.TrimSpace(raw.Metric), strings.TrimSpace(raw.Name))
	return nil
}

func parseAmount(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return ParseQuantity(s)
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("ingredient amount must be a number: %w", err)
	}
	return &v, nil
}

// ParseQuantity parses a human quantity such as "2", "0.5", "1/2" or
// "1 1/2". Blank input means no quantity.
func ParseQuantity(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var total float64
	for _, part := range strings.Fields(s) {
		v, err := parseQuantityPart(part)
		if err != nil {
			return nil, fmt.Errorf("invalid ingredient amount %q", s)
		}
		total += v
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return nil, fmt.Errorf("invalid ingredient amount %q", s)
	}
	return &total, nil
}

func parseQuantityPart(part string) (float64, error) {
	if num, den, ok := strings.Cut(part, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("bad denominator")
		}
		return n / d, nil
	}
	return strconv.ParseFloat(part, 64)
}
