package models

import "strings"

// SplitList parses comma separated text into trimmed, non-blank items.
func SplitList(text string) []string {
	items := []string{}
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// JoinList renders items for a comma separated text field.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}
