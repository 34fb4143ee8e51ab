package cmd

import (
	"fmt"
	"io"
	"strings"

	"appdeck/internal/app"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

const maxNameWidth = 40

// age renders a last-launched time for listings.
func age(lastLaunched float64) string {
	if lastLaunched <= 0 {
		return "never"
	}
	return humanize.Time(app.NewRecord("", "", lastLaunched).LastLaunchedTime())
}

// printRecords writes a numbered, aligned listing.
func printRecords(w io.Writer, records []app.Record, showPaths bool) {
	nameW := 0
	for _, r := range records {
		nameW = max(nameW, runewidth.StringWidth(r.DisplayName))
	}
	nameW = min(nameW, maxNameWidth)
	numW := len(fmt.Sprint(len(records)))

	for i, r := range records {
		name := runewidth.FillRight(runewidth.Truncate(r.DisplayName, nameW, "…"), nameW)
		line := fmt.Sprintf("%*d  %s  %s", numW, i+1, name, age(r.LastLaunched))
		if showPaths {
			line += "\n" + strings.Repeat(" ", numW+2) + r.Path
		}
		fmt.Fprintln(w, line)
	}
}
