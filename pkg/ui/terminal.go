package ui

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// Banner printed before a scrape unless quiet mode is on
const Banner = `ttscraper :: TikTok hashtag extraction via the Apify platform`

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// Output streams, swappable in tests. Result lines go to out, errors to errOut.
var (
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

var quiet atomic.Bool

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// SetQuietMode suppresses banner, info and warning output. Errors and final
// result lines still print.
func SetQuietMode(on bool) {
	quiet.Store(on)
}

// IsQuietMode reports whether quiet mode is on
func IsQuietMode() bool {
	return quiet.Load()
}

// PrintBanner prints the application banner
func PrintBanner() {
	if IsQuietMode() {
		return
	}
	fmt.Fprintln(out, Cyan(Banner))
}

// PrintError prints an error message in red to the error stream
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(errOut, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(errOut, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Fprintln(out, Green(msg))
}

// PrintInfo prints a labeled info line
func PrintInfo(label string, value string) {
	if IsQuietMode() {
		return
	}
	fmt.Fprintf(out, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if IsQuietMode() {
		return
	}
	if len(args) > 0 {
		fmt.Fprintln(out, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(out, Yellow(msg))
	}
}

// PrintHighlight prints an emphasized section header
func PrintHighlight(msg string) {
	if IsQuietMode() {
		return
	}
	fmt.Fprintln(out, Magenta(msg))
}

// PrintResult prints a final result line; it ignores quiet mode so scripts
// can rely on it.
func PrintResult(format string, args ...interface{}) {
	fmt.Fprintf(out, format+"\n", args...)
}
