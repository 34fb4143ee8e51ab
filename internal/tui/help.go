package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# appdeck

Type to filter. Names that start with the query come first, then names
that contain it. Within each group the most recently launched app wins.

| Key              | Action                     |
|------------------|----------------------------|
| ↑ / ↓, ctrl+p/n  | move the selection         |
| enter            | launch the selected app    |
| ctrl+r           | rescan application folders |
| ctrl+u           | clear the query            |
| ? / f1           | toggle this help           |
| esc, ctrl+c      | quit                       |
`

// renderHelp renders the help text for the given width, falling back to the
// raw markdown if glamour cannot.
func renderHelp(width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}
