package services

import "strings"

// splitAndTrim splits s by sep, trims whitespace, and drops empty parts.
func splitAndTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// joinList is the inverse of splitAndTrim for comma-separated columns.
func joinList(items []string) string {
	var cleaned []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return strings.Join(cleaned, ",")
}

// uniqueIDs removes duplicates while preserving order.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	var result []uint
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	return result
}
