package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/litweb/internal/bib"
	"github.com/matsen/litweb/internal/config"
	"github.com/matsen/litweb/internal/searchdb"
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", DefaultSearchLimit, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchYear, "year", "", "Publication year or range (e.g. 2015 or 2010-2020)")
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "Item type filter (article, book, conference, thesis, other)")
	searchCmd.Flags().StringVar(&searchAuthor, "author", "", "Author name prefix filter")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "Output directory containing search.db (default \"output\")")
}

var (
	searchLimit  int
	searchYear   string
	searchType   string
	searchAuthor string
	searchOutput string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over the built library",
	Long: `Search the library's search database (<output>/search.db), which is
rebuilt by every 'lw build' that generates a site.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// SearchItemResult is one search hit.
type SearchItemResult struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
	Year    *int     `json:"year,omitempty"`
	Venue   string   `json:"venue,omitempty"`
	Type    string   `json:"type"`
	DOI     string   `json:"doi,omitempty"`
	URL     string   `json:"url,omitempty"`
}

// SearchResponse is the response for the search command.
type SearchResponse struct {
	Query   string             `json:"query"`
	Total   int                `json:"total"`
	Results []SearchItemResult `json:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	outputDir := searchOutput
	if outputDir == "" {
		root := projectRoot()
		outputDir = resolveProjectPath(root, loadProjectConfig(root).OutputDir)
	}
	if outputDir == "" {
		outputDir = config.DefaultOutputDir
	}

	dbPath := config.SearchDBPath(outputDir)
	if _, err := os.Stat(dbPath); err != nil {
		exitWithError(ExitNotFound, "search database not found: %s (run 'lw build' first)", dbPath)
	}

	db, err := searchdb.Open(dbPath)
	if err != nil {
		exitWithError(ExitError, "opening search database: %v", err)
	}
	defer db.Close()

	filters := searchdb.SearchFilters{
		Keyword: query,
		Type:    searchType,
	}
	if searchAuthor != "" {
		filters.Authors = []string{searchAuthor}
	}
	if searchYear != "" {
		from, to, err := parseYearRange(searchYear)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		filters.YearFrom, filters.YearTo = from, to
	}

	items, err := db.SearchWithFilters(filters, searchLimit)
	if err != nil {
		exitWithError(ExitDataError, "search failed: %v", err)
	}

	resp := SearchResponse{Query: query, Total: len(items), Results: make([]SearchItemResult, 0, len(items))}
	for i := range items {
		resp.Results = append(resp.Results, toSearchResult(&items[i]))
	}

	if humanOutput {
		printSearchResultsHuman(resp)
	} else {
		outputJSON(resp)
	}
	return nil
}

func toSearchResult(item *bib.Item) SearchItemResult {
	r := SearchItemResult{
		ID:    item.ID,
		Title: item.Title,
		Year:  item.Year,
		Venue: item.Venue,
		Type:  string(item.Type),
		DOI:   item.DOI,
		URL:   item.URL,
	}
	for _, a := range item.Authors {
		if name := a.Name(); name != "" {
			r.Authors = append(r.Authors, name)
		}
	}
	return r
}

// parseYearRange accepts "2015" or "2010-2020".
func parseYearRange(s string) (from, to int, err error) {
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		from, err = strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year range %q", s)
		}
		to, err = strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year range %q", s)
		}
		return from, to, nil
	}

	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", s)
	}
	return year, year, nil
}

func printSearchResultsHuman(resp SearchResponse) {
	if resp.Total == 0 {
		fmt.Printf("No results for %q\n", resp.Query)
		return
	}
	for i, r := range resp.Results {
		year := ""
		if r.Year != nil {
			year = fmt.Sprintf(" (%d)", *r.Year)
		}
		fmt.Printf("%d. %s%s\n", i+1, truncateString(r.Title, 70), year)
		if len(r.Authors) > 0 {
			fmt.Printf("   %s\n", strings.Join(r.Authors, ", "))
		}
		if r.Venue != "" {
			fmt.Printf("   %s\n", r.Venue)
		}
		fmt.Println()
	}
}
