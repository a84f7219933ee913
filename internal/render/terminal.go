package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWrap is the terminal word-wrap width.
const DefaultWrap = 80

// Terminal styles Markdown for display in a terminal. style is a glamour
// style name such as "dark", "light" or "notty", or "auto" to detect it.
func Terminal(md, style string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWrap
	}
	styleOpt := glamour.WithStylePath(style)
	if style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("render.Terminal: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render.Terminal: %w", err)
	}
	return out, nil
}
