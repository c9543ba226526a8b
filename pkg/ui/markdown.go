package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
)

// renderMarkdown converts the agent's explanation markdown into styled
// terminal output. On renderer failure the raw text is returned so the
// transcript never loses content.
func renderMarkdown(text string, width int) string {
	if text == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Warn().Err(err).Msg("markdown renderer init failed")
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		log.Warn().Err(err).Msg("markdown render failed")
		return text
	}
	return strings.TrimRight(out, "\n")
}
