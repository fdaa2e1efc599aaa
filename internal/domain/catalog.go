package domain

import "sort"

// MonthCategory is the reserved selection category holding chosen months.
const MonthCategory = "month"

// Catalog maps a month label to its sub-database id.
type Catalog map[string]string

// Months returns month labels in ascending lexicographic order.
func (c Catalog) Months() []string {
	months := make([]string, 0, len(c))
	for m := range c {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// TagSchema maps a category label to its option labels and option ids.
type TagSchema map[string]map[string]string

// Categories returns category labels sorted ascending.
func (t TagSchema) Categories() []string {
	cats := make([]string, 0, len(t))
	for c := range t {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Options returns option labels of a category sorted ascending.
func (t TagSchema) Options(category string) []string {
	opts := make([]string, 0, len(t[category]))
	for o := range t[category] {
		opts = append(opts, o)
	}
	sort.Strings(opts)
	return opts
}

// OptionID translates a (category, option) pair into the internal option id.
func (t TagSchema) OptionID(category, option string) (string, bool) {
	opts, ok := t[category]
	if !ok {
		return "", false
	}
	id, ok := opts[option]
	return id, ok
}

// PropertyMap maps a human-readable property label to the internal property id.
type PropertyMap map[string]string

// Schema is the tag taxonomy and property map of one sub-database.
type Schema struct {
	Tags       TagSchema
	Properties PropertyMap
}

// EmptySchema returns a schema with both mappings empty (never nil).
func EmptySchema() Schema {
	return Schema{Tags: TagSchema{}, Properties: PropertyMap{}}
}

// Row is a record of a sub-database. Property values are decoded JSON:
// string, json.Number, bool, nil, []any or map[string]any.
type Row struct {
	Title      string
	Properties map[string]any
}
