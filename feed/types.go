package feed

import (
	"fmt"
	"strconv"
)

// ResearchItem is a researcher post shown on the home screen.
type ResearchItem struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Timestamp string   `json:"timestamp"`
	Message   string   `json:"message"`
	Category  string   `json:"category,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

type NewsSource struct {
	Title string `json:"title"`
}

type NewsItem struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Source   *NewsSource `json:"source,omitempty"`
	DateTime string      `json:"dateTime"`
	Image    string      `json:"image,omitempty"`
	Body     string      `json:"body,omitempty"`
}

// SourceTitle returns the publisher name or "".
func (n NewsItem) SourceTitle() string {
	if n.Source == nil {
		return ""
	}
	return n.Source.Title
}

// Record is a loosely-typed row. IPO and corporate action endpoints return
// different columns per filter key, so rows are kept as decoded JSON objects.
type Record map[string]any

// String returns the first non-empty value among keys, formatted as text.
func (r Record) String(keys ...string) string {
	for _, key := range keys {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		var s string
		switch value := v.(type) {
		case string:
			s = value
		case float64:
			s = strconv.FormatFloat(value, 'f', -1, 64)
		default:
			s = fmt.Sprint(value)
		}
		if s != "" {
			return s
		}
	}
	return ""
}

// CompanyName resolves the company column, which is named differently per feed.
func (r Record) CompanyName() string {
	return r.String("companyName", "company_name", "name", "Company")
}

// IPOList is the result of an IPO query. DraftIssues is only filled for the upcoming key.
type IPOList struct {
	Key         string   `json:"key"`
	Items       []Record `json:"items"`
	DraftIssues []Record `json:"draft_issues,omitempty"`
}

type CalendarItem struct {
	Company string `json:"Company"`
	Event   string `json:"Event"`
	Date1   string `json:"Date1"`
	Date2   string `json:"Date2"`
}

// HomeFeed is what the home tab loads on open.
type HomeFeed struct {
	Research []ResearchItem `json:"research"`
	News     []NewsItem     `json:"news"`
}

// FilterKey is a selectable query key with its display label.
type FilterKey struct {
	Key   string
	Label string
}

const UpcomingIPOKey = "upcoming"

var IPOFilters = []FilterKey{
	{Key: "most-successful", Label: "Top Performers"},
	{Key: "least-successful", Label: "Underperformers"},
	{Key: "recently-listed", Label: "Recently Listed"},
	{Key: "2025", Label: "IPOs 2025"},
	{Key: "2024", Label: "IPOs 2024"},
	{Key: "2023", Label: "IPOs 2023"},
	{Key: "2022", Label: "IPOs 2022"},
	{Key: "2021", Label: "IPOs 2021"},
	{Key: "2020", Label: "IPOs 2020"},
	{Key: UpcomingIPOKey, Label: "Upcoming"},
}

var CorporateActionFilters = []FilterKey{
	{Key: "announcements", Label: "Announcements"},
	{Key: "board_meetings", Label: "Board Meetings"},
	{Key: "bonus", Label: "Bonus"},
	{Key: "dividends", Label: "Dividends"},
	{Key: "splits", Label: "Splits"},
	{Key: "annual_general_meeting", Label: "AGM/EGM"},
	{Key: "rights", Label: "Rights"},
}
