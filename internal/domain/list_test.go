package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_UnmarshalFlat(t *testing.T) {
	var steps List[string]
	require.NoError(t, json.Unmarshal([]byte(`["Boil water","Add pasta"]`), &steps))

	assert.False(t, steps.IsSectioned())
	assert.Equal(t, []string{"Boil water", "Add pasta"}, steps.Items())
	assert.Equal(t, 2, steps.Len())
}

func TestList_UnmarshalSectioned(t *testing.T) {
	input := `[
		{"section":"Dough","items":[{"amount":2,"metric":"cup","name":"flour"},"pinch of salt"]},
		{"section":"Filling","items":[{"amount":null,"metric":"","name":"apples"}]}
	]`

	var ingredients List[Ingredient]
	require.NoError(t, json.Unmarshal([]byte(input), &ingredients))

	require.True(t, ingredients.IsSectioned())
	sections := ingredients.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, "Dough", sections[0].Label)
	assert.Equal(t, "Filling", sections[1].Label)
	assert.Equal(t, 3, ingredients.Len())

	entries := ingredients.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Dough", entries[1].Section)
	assert.True(t, entries[1].Item.IsFreeText())
	assert.Equal(t, "Filling", entries[2].Section)
	assert.Equal(t, "apples", entries[2].Item.Name)
}

func TestList_UnmarshalRejectsMixedShapes(t *testing.T) {
	var steps List[string]
	err := json.Unmarshal([]byte(`[{"section":"Prep","items":["Chop"]},"Cook"]`), &steps)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"section":"Prep"}`), &steps)
	assert.Error(t, err)
}

func TestList_UnmarshalNull(t *testing.T) {
	steps := Flat("x")
	require.NoError(t, json.Unmarshal([]byte(`null`), &steps))
	assert.True(t, steps.IsEmpty())
}

func TestList_MarshalKeepsShape(t *testing.T) {
	flat := Flat("a", "b")
	data, err := json.Marshal(flat)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))

	sectioned := Sectioned(Section[string]{Label: "Prep", Items: []string{"Chop"}})
	data, err = json.Marshal(sectioned)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"section":"Prep","items":["Chop"]}]`, string(data))

	data, err = json.Marshal(List[string]{})
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestList_RoundTripThroughRecipe(t *testing.T) {
	recipe := Recipe{
		ID:           "rcp-1",
		Name:         "Pie",
		Ingredients:  Sectioned(Section[Ingredient]{Label: "Crust", Items: []Ingredient{Structured(Qty(1.5), "cup", "flour")}}),
		Instructions: Flat("Bake"),
	}

	data, err := json.Marshal(recipe)
	require.NoError(t, err)

	var decoded Recipe
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Ingredients.IsSectioned())
	assert.Equal(t, "1 ½ cup flour", decoded.Ingredients.All()[0].Display())
	assert.Equal(t, []string{"Bake"}, decoded.Instructions.Items())
}

func TestMapList(t *testing.T) {
	sectioned := Sectioned(
		Section[string]{Label: "A", Items: []string{"x", "y"}},
		Section[string]{Label: "B", Items: []string{"z"}},
	)

	upper := MapList(sectioned, strings.ToUpper)

	require.True(t, upper.IsSectioned())
	assert.Equal(t, []string{"X", "Y", "Z"}, upper.All())
	assert.Equal(t, "B", upper.Sections()[1].Label)

	lengths := MapList(Flat("ab", "c"), func(s string) int { return len(s) })
	assert.Equal(t, []int{2, 1}, lengths.Items())
}

func TestFilterList_KeepsEmptySections(t *testing.T) {
	l := Sectioned(
		Section[string]{Label: "Prep", Items: []string{"Chop", " "}},
		Section[string]{Label: "Cook", Items: []string{""}},
	)

	got := FilterList(l, func(s string) bool { return strings.TrimSpace(s) != "" })
	require.True(t, got.IsSectioned())
	require.Len(t, got.Sections(), 2)
	assert.Equal(t, []string{"Chop"}, got.Sections()[0].Items)
	assert.Empty(t, got.Sections()[1].Items)

	flat := FilterList(Flat("a", "", "b"), func(s string) bool { return s != "" })
	assert.Equal(t, []string{"a", "b"}, flat.Items())
}
