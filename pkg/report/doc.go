// Package report aggregates scraped TikTok posts into summaries and renders
// them as terminal-friendly values or HTML charts.
package report
