package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Section is a named group of list items, e.g. "For the sauce".
type Section[T any] struct {
	Label string `json:"section"`
	Items []T    `json:"items"`
}

// List holds ingredients or instructions either as a flat sequence or as
// named sections. The JSON shape is decided by the first element: an object
// with a "section" key makes the whole list sectioned.
type List[T any] struct {
	flat      []T
	sections  []Section[T]
	sectioned bool
}

// Entry is one list item together with the label of its section.
type Entry[T any] struct {
	Section string
	Item    T
}

// Flat builds an unsectioned list.
func Flat[T any](items ...T) List[T] {
	return List[T]{flat: items}
}

// Sectioned builds a list of named sections.
func Sectioned[T any](sections ...Section[T]) List[T] {
	return List[T]{sections: sections, sectioned: true}
}

// IsSectioned reports whether the list is grouped into sections.
func (l List[T]) IsSectioned() bool {
	return l.sectioned
}

// Items returns the items of a flat list. Sectioned lists return nil.
func (l List[T]) Items() []T {
	return l.flat
}

// Sections returns the sections of a sectioned list. Flat lists return nil.
func (l List[T]) Sections() []Section[T] {
	return l.sections
}

// Entries flattens the list in order, keeping each item's section label.
func (l List[T]) Entries() []Entry[T] {
	if !l.sectioned {
		out := make([]Entry[T], len(l.flat))
		for i, item := range l.flat {
			out[i] = Entry[T]{Item: item}
		}
		return out
	}

	out := make([]Entry[T], 0, l.Len())
	for _, s := range l.sections {
		for _, item := range s.Items {
			out = append(out, Entry[T]{Section: s.Label, Item: item})
		}
	}
	return out
}

// All returns every item in order, ignoring sections.
func (l List[T]) All() []T {
	if !l.sectioned {
		return l.flat
	}
	out := make([]T, 0, l.Len())
	for _, s := range l.sections {
		out = append(out, s.Items...)
	}
	return out
}

// Len counts items across all sections.
func (l List[T]) Len() int {
	if !l.sectioned {
		return len(l.flat)
	}
	n := 0
	for _, s := range l.sections {
		n += len(s.Items)
	}
	return n
}

// IsEmpty reports whether the list has no items and no sections.
func (l List[T]) IsEmpty() bool {
	if l.sectioned {
		return len(l.sections) == 0
	}
	return len(l.flat) == 0
}

// MapList transforms every item and keeps the list's shape.
func MapList[T, U any](l List[T], fn func(T) U) List[U] {
	if !l.sectioned {
		out := make([]U, len(l.flat))
		for i, item := range l.flat {
			out[i] = fn(item)
		}
		return Flat(out...)
	}

	sections := make([]Section[U], len(l.sections))
	for i, s := range l.sections {
		items := make([]U, len(s.Items))
		for j, item := range s.Items {
			items[j] = fn(item)
		}
		sections[i] = Section[U]{Label: s.Label, Items: items}
	}
	return Sectioned(sections...)
}

// FilterList keeps the items for which keep returns true. Sections are
// kept even when they end up empty.
func FilterList[T any](l List[T], keep func(T) bool) List[T] {
	filter := func(items []T) []T {
		out := make([]T, 0, len(items))
		for _, item := range items {
			if keep(item) {
				out = append(out, item)
			}
		}
		return out
	}

	if !l.sectioned {
		return Flat(filter(l.flat)...)
	}
	sections := make([]Section[T], len(l.sections))
	for i, s := range l.sections {
		sections[i] = Section[T]{Label: s.Label, Items: filter(s.Items)}
	}
	return Sectioned(sections...)
}

// MarshalJSON writes a JSON array. An empty list is [] rather than null.
func (l List[T]) MarshalJSON() ([]byte, error) {
	if l.sectioned {
		if l.sections == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(l.sections)
	}
	if l.flat == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.flat)
}

// UnmarshalJSON decodes either shape. Null decodes to an empty flat list.
func (l *List[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = List[T]{}
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("expected an array: %w", err)
	}

	if len(elems) > 0 && hasSectionKey(elems[0]) {
		sections := make([]Section[T], len(elems))
		for i, raw := range elems {
			if !hasSectionKey(raw) {
				return fmt.Errorf("element %d: every element of a sectioned list must have a section", i)
			}
			if err := json.Unmarshal(raw, &sections[i]); err != nil {
				return fmt.Errorf("section %d: %w", i, err)
			}
		}
		*l = Sectioned(sections...)
		return nil
	}

	items := make([]T, len(elems))
	for i, raw := range elems {
		if err := json.Unmarshal(raw, &items[i]); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	*l = Flat(items...)
	return nil
}

func hasSectionKey(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	_, ok := probe["section"]
	return ok
}
