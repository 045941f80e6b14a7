package feed

import (
	"slices"
	"strings"
)

const (
	AllCategories = "all"
	AllEvents     = "All Events"
)

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

// FilterNews keeps items whose title, source or body contains query, ignoring case.
// A blank query keeps everything.
func FilterNews(items []NewsItem, query string) []NewsItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]NewsItem, 0, len(items))
	for _, item := range items {
		if containsFold(item.Title, q) || containsFold(item.SourceTitle(), q) || containsFold(item.Body, q) {
			out = append(out, item)
		}
	}
	return out
}

// FilterResearch applies the search box and the category chip.
func FilterResearch(items []ResearchItem, query, category string) []ResearchItem {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]ResearchItem, 0, len(items))
	for _, item := range items {
		if q != "" && !containsFold(item.Title, q) && !containsFold(item.Author, q) && !containsFold(item.Message, q) {
			continue
		}
		if category != "" && category != AllCategories && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	return out
}

// FilterCalendar matches company names against search and the event type exactly.
func FilterCalendar(items []CalendarItem, search, event string) []CalendarItem {
	q := strings.ToLower(search)
	out := make([]CalendarItem, 0, len(items))
	for _, item := range items {
		if !containsFold(item.Company, q) {
			continue
		}
		if event != "" && event != AllEvents && item.Event != event {
			continue
		}
		out = append(out, item)
	}
	return out
}

// EventTypes returns AllEvents followed by the distinct event names, sorted.
func EventTypes(items []CalendarItem) []string {
	seen := make(map[string]struct{}, len(items))
	types := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Event]; ok {
			continue
		}
		seen[item.Event] = struct{}{}
		types = append(types, item.Event)
	}
	slices.Sort(types)
	return append([]string{AllEvents}, types...)
}

// Paginate returns the 1-based page of items. Pages past the end are empty.
func Paginate[T any](items []T, page, perPage int) []T {
	if page < 1 || perPage < 1 {
		return nil
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}

func TotalPages(total, perPage int) int {
	if total <= 0 || perPage < 1 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
