package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"ttscraper/pkg/report"
	"ttscraper/pkg/ui"
)

var htmlOut string

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <results-file>",
	Short: "Summarize a results file",
	Long: `Summarize a results file produced by the scrape command.

The report aggregates post counts, likes, plays, comments and shares,
breaks posts down per hashtag, and lists the top posts by like count.
Records with missing or oddly typed fields are tolerated; whatever can be
extracted contributes to the totals.

With --html, the same aggregation is rendered as a self-contained HTML
page with bar and pie charts.`,
	Example: `  # Terminal summary
  ttscraper report tiktok_20250114_153045.json

  # Terminal summary plus HTML charts
  ttscraper report results.json --html report.html`,
	Args: cobra.ExactArgs(1),
	Run:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&htmlOut, "html", "", "also write an HTML chart report to this path")
}

func runReport(cmd *cobra.Command, args []string) {
	path := args[0]

	records, err := report.LoadRecords(path)
	if err != nil {
		ui.PrintError("Failed to read results file", err.Error())
		os.Exit(1)
	}

	summary := report.Summarize(records)
	if summary.TotalPosts == 0 {
		ui.PrintWarning("No posts found in file", path)
	}

	ui.PrintHighlight("Results Summary")
	fmt.Printf("  File:     %s\n", path)
	fmt.Printf("  Posts:    %d\n", summary.TotalPosts)
	fmt.Printf("  Authors:  %d\n", summary.UniqueAuthors)
	fmt.Printf("  Likes:    %d\n", summary.TotalLikes)
	fmt.Printf("  Plays:    %d\n", summary.TotalPlays)
	fmt.Printf("  Comments: %d\n", summary.TotalComments)
	fmt.Printf("  Shares:   %d\n", summary.TotalShares)

	if tags := summary.SortedHashtags(); len(tags) > 0 {
		fmt.Println()
		ui.PrintHighlight("Posts per hashtag")
		for _, tc := range tags {
			fmt.Printf("  #%-24s %d\n", tc.Tag, tc.Count)
		}
	}

	if len(summary.TopPosts) > 0 {
		fmt.Println()
		ui.PrintHighlight("Top posts by likes")
		for i, post := range summary.TopPosts {
			author := post.Author
			if author == "" {
				author = "(unknown)"
			}
			if post.Fans > 0 {
				author = fmt.Sprintf("%s (%d followers)", author, post.Fans)
			}
			fmt.Printf("  %2d. %-22s %9d likes %12d plays\n", i+1, author, post.Likes, post.Plays)
			if post.URL != "" {
				fmt.Printf("      %s\n", ui.Dim(post.URL))
			}
		}
	}

	if htmlOut != "" {
		if err := report.WriteChartFile(htmlOut, summary, filepath.Base(path)); err != nil {
			ui.PrintError("Failed to write chart file", err.Error())
			os.Exit(1)
		}
		fmt.Println()
		ui.PrintSuccess("Charts written: " + htmlOut)
	}
}
