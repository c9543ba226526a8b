package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atelier-studio/atelier/pkg/library"
)

func (a App) renderLibrary() string {
	if design, ok := a.session.View.Inspected(); ok {
		return a.renderInspect(design)
	}

	width := a.width - 2
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(specLabelStyle.Render("Search: "))
	b.WriteString(a.search.View())
	b.WriteString("\n\n")

	designs := a.session.Library.Filter(a.search.Value())
	switch {
	case a.session.Library.Len() == 0:
		b.WriteString(emptyStateStyle.Width(width).Render("No designs yet\nGenerate a design in the studio and save it with ctrl+s."))
	case len(designs) == 0:
		b.WriteString(emptyStateStyle.Width(width).Render("No designs match your search."))
	default:
		for i, d := range designs {
			b.WriteString(a.renderRow(i, d, width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓: select • enter: inspect • /: search • tab: studio • ctrl+c: quit"))
	return b.String()
}

func (a App) renderRow(i int, d library.SavedDesign, width int) string {
	ts := time.UnixMilli(d.Timestamp).Format("Jan 2 15:04")
	line := fmt.Sprintf("%s  %s  %s", d.ID, ts, truncate(d.Prompt, width-len(d.ID)-18))
	if i == a.selected && !a.searchFocused {
		return selectedRowStyle.Width(width).Render(line)
	}
	return line
}

func (a App) renderInspect(d library.SavedDesign) string {
	width := a.width - 4
	if width <= 0 {
		width = 80
	}

	var parts []string
	parts = append(parts, titleStyle.Render(d.ID))
	parts = append(parts, subtitleStyle.Render(time.UnixMilli(d.Timestamp).Format(time.RFC1123)))
	parts = append(parts, "")
	parts = append(parts, specLabelStyle.Render("Prompt: ")+d.Prompt)

	if a.session.View.ImageFailed(d.ImageURL) {
		parts = append(parts, placeholderStyle.Render("[ image unavailable ]"))
	} else {
		parts = append(parts, imageLinkStyle.Render(d.ImageURL))
	}
	if d.Explanation != "" {
		parts = append(parts, renderMarkdown(d.Explanation, width-4))
	}
	if d.Specs != nil {
		parts = append(parts, "", renderSpecs(*d.Specs))
	}

	card := assistantCardStyle.Width(width).Render(strings.Join(parts, "\n"))
	help := helpStyle.Render("d: download • r: recreate • x: delete • esc: back")
	return card + "\n" + help
}
