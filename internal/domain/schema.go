package domain

import "github.com/danielgtaylor/huma/v2"

// Schema describes a list as an array of either items or sections. Item
// shape is checked when the list is decoded.
func (List[T]) Schema(_ huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type:        huma.TypeArray,
		Description: "Flat list of entries, or list of {section, items} groups",
		Items:       &huma.Schema{},
	}
}

// Schema describes an ingredient as a free-text string or an
// {amount, metric, name} object.
func (Ingredient) Schema(_ huma.Registry) *huma.Schema {
	return &huma.Schema{
		Description: "Free-text string or {amount, metric, name} object",
	}
}
