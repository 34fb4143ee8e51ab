package tui

import (
	"strings"

	"appdeck/internal/app"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// lastLaunched renders a record's age for the list.
func lastLaunched(rec app.Record) string {
	t := rec.LastLaunchedTime()
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// nameLine lays out name and age on one line of the given display width,
// truncating the name first.
func nameLine(name, age string, width int) string {
	ageW := runewidth.StringWidth(age)
	nameW := width - ageW - 2
	if nameW < 1 {
		return runewidth.Truncate(name, width, ellipsis)
	}
	name = runewidth.Truncate(name, nameW, ellipsis)
	pad := width - runewidth.StringWidth(name) - ageW
	if pad < 1 {
		pad = 1
	}
	return name + strings.Repeat(" ", pad) + age
}

// pathLine shortens path from the left so its tail stays visible.
func pathLine(path string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(path) <= width {
		return path
	}
	return ellipsis + runewidth.TruncateLeft(path, runewidth.StringWidth(path)-width+runewidth.StringWidth(ellipsis), "")
}
