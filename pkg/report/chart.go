package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// RenderCharts writes the summary as self-contained HTML charts: posts per
// hashtag, engagement of the top posts, and author share.
func RenderCharts(w io.Writer, s *Summary, title string) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "Posts per hashtag"}),
		charts.WithThemeOpts(opts.Theme{Theme: types.ThemeWesteros}),
	)

	var barX []string
	var barY []opts.BarData
	for _, hc := range s.SortedHashtags() {
		barX = append(barX, "#"+hc.Tag)
		barY = append(barY, opts.BarData{Value: hc.Count})
	}
	bar.SetXAxis(barX).AddSeries("Posts", barY)

	likes := charts.NewBar()
	likes.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Top posts", Subtitle: "Likes on the most-liked posts"}),
		charts.WithThemeOpts(opts.Theme{Theme: types.ThemeWesteros}),
	)

	var likeX []string
	var likeY []opts.BarData
	for _, post := range s.TopPosts {
		label := post.Author
		if label == "" {
			label = post.ID
		}
		likeX = append(likeX, label)
		likeY = append(likeY, opts.BarData{Value: post.Likes})
	}
	likes.SetXAxis(likeX).AddSeries("Likes", likeY)

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Author share", Subtitle: "Posts per author among top posts"}),
		charts.WithThemeOpts(opts.Theme{Theme: types.ThemeWesteros}),
	)

	authorCounts := make(map[string]int)
	for _, post := range s.TopPosts {
		if post.Author != "" {
			authorCounts[post.Author]++
		}
	}
	var pieItems []opts.PieData
	for author, n := range authorCounts {
		pieItems = append(pieItems, opts.PieData{Name: author, Value: n})
	}
	pie.AddSeries("Posts", pieItems)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render hashtag chart: %w", err)
	}
	if err := likes.Render(w); err != nil {
		return fmt.Errorf("failed to render likes chart: %w", err)
	}
	if err := pie.Render(w); err != nil {
		return fmt.Errorf("failed to render author chart: %w", err)
	}
	return nil
}

// WriteChartFile renders the charts into an HTML file.
func WriteChartFile(path string, s *Summary, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}

	if err := RenderCharts(f, s, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
