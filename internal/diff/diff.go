// Package diff compares two recipe versions line by line.
//
// Lists are aligned by position, not by content: inserting an ingredient at
// the top reports every later line as modified rather than shifted.
package diff

import (
	"strconv"

	"github.com/recipehub/recipehub-server/internal/domain"
)

// ChangeType classifies one aligned line.
type ChangeType string

// Line classifications.
const (
	Addition     ChangeType = "addition"
	Deletion     ChangeType = "deletion"
	Modification ChangeType = "modification"
	Unchanged    ChangeType = "unchanged"
)

// Line is one aligned position. Number is 1-based. Before is empty for
// additions and After is empty for deletions.
type Line struct {
	Type          ChangeType `json:"type"`
	Field         string     `json:"field,omitempty"`
	Before        string     `json:"before"`
	After         string     `json:"after"`
	BeforeSection string     `json:"beforeSection,omitempty"`
	AfterSection  string     `json:"afterSection,omitempty"`
	Number        int        `json:"number"`
}

// Block is one compared region of the recipe.
type Block struct {
	Label   string `json:"label"`
	Lines   []Line `json:"lines"`
	Changed bool   `json:"changed"`
}

// Stats are running totals across all blocks. Metadata mismatches and list
// modifications both count as changes.
type Stats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
	Changes   int `json:"changes"`
}

// Result is the comparison of two snapshots.
type Result struct {
	Metadata     Block `json:"metadata"`
	Ingredients  Block `json:"ingredients"`
	Instructions Block `json:"instructions"`
	Stats        Stats `json:"stats"`
	FromVersion  int   `json:"fromVersion,omitempty"`
	ToVersion    int   `json:"toVersion,omitempty"`
}

// HasChanges reports whether any block differs.
func (r Result) HasChanges() bool {
	return r.Stats.Additions+r.Stats.Deletions+r.Stats.Changes > 0
}

// Versions compares the snapshots of two versions.
func Versions(from, to *domain.Version) Result {
	result := Snapshots(from.Data, to.Data)
	result.FromVersion = from.Version
	result.ToVersion = to.Version
	return result
}

// Snapshots compares two recipe snapshots.
func Snapshots(a, b domain.Snapshot) Result {
	var stats Stats

	return Result{
		Metadata:     compareMetadata(a, b, &stats),
		Ingredients:  compareList("Ingredients", a.Ingredients.Entries(), b.Ingredients.Entries(), ingredientsEqual, displayIngredient, &stats),
		Instructions: compareList("Instructions", a.Instructions.Entries(), b.Instructions.Entries(), stringsEqual, displayString, &stats),
		Stats:        stats,
	}
}

type field struct {
	name  string
	value func(domain.Snapshot) string
}

var metadataFields = []field{
	{"name", func(s domain.Snapshot) string { return s.Name }},
	{"description", func(s domain.Snapshot) string { return s.Description }},
	{"cookTime", func(s domain.Snapshot) string { return s.CookTime }},
	{"servings", func(s domain.Snapshot) string { return strconv.Itoa(s.Servings) }},
	{"originalSource", func(s domain.Snapshot) string { return s.OriginalSource }},
	{"viewCount", func(s domain.Snapshot) string { return strconv.Itoa(s.ViewCount) }},
}

func compareMetadata(a, b domain.Snapshot, stats *Stats) Block {
	block := Block{Label: "Details", Lines: make([]Line, 0, len(metadataFields))}

	for i, f := range metadataFields {
		before, after := f.value(a), f.value(b)
		line := Line{Number: i + 1, Field: f.name, Before: before, After: after, Type: Unchanged}
		if before != after {
			line.Type = Modification
			block.Changed = true
			stats.Changes++
		}
		block.Lines = append(block.Lines, line)
	}

	return block
}

func compareList[T any](
	label string,
	a, b []domain.Entry[T],
	equal func(x, y T) bool,
	display func(T) string,
	stats *Stats,
) Block {
	n := max(len(a), len(b))
	block := Block{Label: label, Lines: make([]Line, 0, n)}

	for i := range n {
		line := Line{Number: i + 1}

		switch {
		case i >= len(a):
			line.Type = Addition
			line.After = display(b[i].Item)
			line.AfterSection = b[i].Section
			stats.Additions++
		case i >= len(b):
			line.Type = Deletion
			line.Before = display(a[i].Item)
			line.BeforeSection = a[i].Section
			stats.Deletions++
		default:
			line.Before = display(a[i].Item)
			line.After = display(b[i].Item)
			line.BeforeSection = a[i].Section
			line.AfterSection = b[i].Section
			if a[i].Section == b[i].Section && equal(a[i].Item, b[i].Item) {
				line.Type = Unchanged
			} else {
				line.Type = Modification
				stats.Changes++
			}
		}

		if line.Type != Unchanged {
			block.Changed = true
		}
		block.Lines = append(block.Lines, line)
	}

	return block
}

func ingredientsEqual(x, y domain.Ingredient) bool { return x.Equal(y) }

func displayIngredient(i domain.Ingredient) string { return i.Display() }

func stringsEqual(x, y string) bool { return x == y }

func displayString(s string) string { return s }
