package cli

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/go-auth-client/feed"
	"github.com/spf13/cobra"
)

func (a *app) feedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Browse research, news, IPOs and corporate events",
	}
	cmd.AddCommand(
		a.researchCommand(),
		a.newsCommand(),
		a.ipoCommand(),
		a.actionsCommand(),
		a.calendarCommand(),
	)
	return cmd
}

func (a *app) researchCommand() *cobra.Command {
	var (
		query, category string
		skip, limit     int
	)
	cmd := &cobra.Command{
		Use:   "research",
		Short: "List researcher posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			items, err := a.feedClient().Research(ctx, skip, limit)
			if err != nil {
				return exitWith(ExitError, err)
			}
			items = feed.FilterResearch(items, query, category)
			if a.jsonOutput {
				return a.printJSON(items)
			}
			for _, item := range items {
				a.printf("%s  (%s, %s)\n  %s\n", item.Title, item.Author, item.Timestamp, item.Message)
			}
			a.printf("%d posts\n", len(items))
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "Match title, author or message")
	cmd.Flags().StringVar(&category, "category", feed.AllCategories, "Category, or all")
	cmd.Flags().IntVar(&skip, "skip", 0, "Posts to skip")
	cmd.Flags().IntVar(&limit, "limit", feed.DefaultResearchLimit, "Posts to fetch")
	return cmd
}

func (a *app) newsCommand() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "news",
		Short: "List market news",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			items, err := a.feedClient().News(ctx)
			if err != nil {
				return exitWith(ExitError, err)
			}
			items = feed.FilterNews(items, query)
			if a.jsonOutput {
				return a.printJSON(items)
			}
			for _, item := range items {
				if source := item.SourceTitle(); source != "" {
					a.printf("%s  [%s]\n", item.Title, source)
				} else {
					a.printf("%s\n", item.Title)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "Match title, source or body")
	return cmd
}

func (a *app) ipoCommand() *cobra.Command {
	var (
		key  string
		page int
	)
	cmd := &cobra.Command{
		Use:   "ipo",
		Short: "List IPOs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !knownKey(feed.IPOFilters, key) {
				return exitWith(ExitError, fmt.Errorf("unknown IPO filter %q, use one of: %s", key, filterKeys(feed.IPOFilters)))
			}

			ctx, cancel := signalContext()
			defer cancel()

			list, err := a.feedClient().IPOs(ctx, key)
			if err != nil {
				return exitWith(ExitError, err)
			}
			pageItems := feed.Paginate(list.Items, page, feed.IPOsPerPage)
			if a.jsonOutput {
				return a.printJSON(map[string]any{
					"key":          list.Key,
					"page":         page,
					"total_pages":  feed.TotalPages(len(list.Items), feed.IPOsPerPage),
					"items":        pageItems,
					"draft_issues": list.DraftIssues,
				})
			}
			for _, item := range pageItems {
				a.printf("%s\n", item.CompanyName())
			}
			a.printf("page %d of %d\n", page, feed.TotalPages(len(list.Items), feed.IPOsPerPage))
			if len(list.DraftIssues) > 0 {
				a.printf("\nDraft filings:\n")
				for _, item := range list.DraftIssues {
					a.printf("%s  %s\n", item.CompanyName(), item.String("drhpFilingDate"))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "most-successful", "Filter: "+filterKeys(feed.IPOFilters))
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func (a *app) actionsCommand() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List corporate actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !knownKey(feed.CorporateActionFilters, key) {
				return exitWith(ExitError, fmt.Errorf("unknown corporate action %q, use one of: %s", key, filterKeys(feed.CorporateActionFilters)))
			}

			ctx, cancel := signalContext()
			defer cancel()

			items, err := a.feedClient().CorporateActions(ctx, key)
			if err != nil {
				return exitWith(ExitError, err)
			}
			if a.jsonOutput {
				return a.printJSON(items)
			}
			for _, item := range items {
				a.printf("%s  %s\n", item.CompanyName(), item.String("date1", "date", "Date1"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", feed.CorporateActionFilters[0].Key, "Filter: "+filterKeys(feed.CorporateActionFilters))
	return cmd
}

func (a *app) calendarCommand() *cobra.Command {
	var search, event string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "List upcoming corporate events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			items, err := a.feedClient().CorporateCalendar(ctx)
			if err != nil {
				return exitWith(ExitError, err)
			}
			filtered := feed.FilterCalendar(items, search, event)
			if a.jsonOutput {
				return a.printJSON(map[string]any{
					"events": feed.EventTypes(items),
					"items":  filtered,
				})
			}
			for _, item := range filtered {
				a.printf("%-40s %-20s %s\n", item.Company, item.Event, item.Date1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Match company name")
	cmd.Flags().StringVar(&event, "event", feed.AllEvents, "Event type")
	return cmd
}

func knownKey(filters []feed.FilterKey, key string) bool {
	for _, f := range filters {
		if f.Key == key {
			return true
		}
	}
	return false
}

func filterKeys(filters []feed.FilterKey) string {
	keys := make([]string, 0, len(filters))
	for _, f := range filters {
		keys = append(keys, f.Key)
	}
	return strings.Join(keys, ", ")
}
