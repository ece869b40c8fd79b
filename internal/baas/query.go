package baas

import (
	"fmt"
	"sort"
)

// AttrCreatedAt names the server-assigned creation timestamp in queries.
const AttrCreatedAt = "$createdAt"

// Filter is an equality predicate on one attribute.
type Filter struct {
	Attribute string
	Value     any
}

// Equal builds an equality filter.
func Equal(attribute string, value any) Filter {
	return Filter{Attribute: attribute, Value: value}
}

// Query selects documents of a collection. A zero Limit means no limit.
type Query struct {
	Filters     []Filter
	NewestFirst bool
	Limit       int
}

// Matches reports whether every filter holds for the document.
func (q Query) Matches(d Document) bool {
	for _, f := range q.Filters {
		v, ok := d.Data[f.Attribute]
		if !ok {
			return false
		}
		if fmt.Sprint(v) != fmt.Sprint(f.Value) {
			return false
		}
	}
	return true
}

// Apply filters, orders, and limits docs in place order. Documents are expected
// in insertion order; Total counts matches before the limit.
func (q Query) Apply(docs []Document) DocumentList {
	matched := make([]Document, 0, len(docs))
	for _, d := range docs {
		if q.Matches(d) {
			matched = append(matched, d)
		}
	}

	if q.NewestFirst {
		// reverse insertion order breaks ties between equal timestamps
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	}

	total := len(matched)
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return DocumentList{Total: total, Documents: matched}
}
