// Package sanitize strips markup from client-supplied strings before they
// reach the database. The policy is bluemonday's strict profile, which
// reduces any HTML to its text content.
package sanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.StrictPolicy()

// Clean strips all markup from a single string.
func Clean(s string) string {
	return policy.Sanitize(s)
}

// Tree walks a decoded JSON value and cleans every string leaf, preserving
// container shape and element order. Non-string leaves (numbers, booleans,
// null) pass through untouched. Maps and slices are modified in place.
func Tree(v any) any {
	switch val := v.(type) {
	case string:
		return policy.Sanitize(val)
	case map[string]any:
		for k, elem := range val {
			val[k] = Tree(elem)
		}
		return val
	case []any:
		for i, elem := range val {
			val[i] = Tree(elem)
		}
		return val
	default:
		return v
	}
}
