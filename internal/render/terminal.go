package render

import (
	"github.com/charmbracelet/glamour"
)

// Terminal renders markdown for display in a terminal, wrapping at width.
func Terminal(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
