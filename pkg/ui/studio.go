package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/atelier-studio/atelier/pkg/agent"
	"github.com/atelier-studio/atelier/pkg/conversation"
	"github.com/atelier-studio/atelier/pkg/session"
)

func (a App) renderStudio() string {
	var b strings.Builder
	b.WriteString(a.transcript.View())
	b.WriteString("\n")
	b.WriteString(a.prompt.View())
	b.WriteString("\n")
	if a.status != "" {
		b.WriteString(statusStyle.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter: generate • ctrl+p: preset • ctrl+s: save design • ctrl+d: download • tab: library • ctrl+c: quit"))
	return b.String()
}

func (a App) renderTranscript() string {
	turns := a.session.Conversation.Turns()
	width := a.transcript.Width
	if width <= 0 {
		width = 80
	}

	if len(turns) == 0 && !a.session.Conversation.Generating() {
		return a.renderWelcome(width)
	}

	var blocks []string
	for _, turn := range turns {
		if turn.Role == conversation.RoleUser {
			blocks = append(blocks, renderUserTurn(turn, width))
			continue
		}
		blocks = append(blocks, a.renderAssistantTurn(turn, width))
	}
	if a.session.Conversation.Generating() {
		blocks = append(blocks, a.spin.View()+" "+placeholderStyle.Render("Creating your design..."))
	}
	return strings.Join(blocks, "\n\n")
}

func (a App) renderWelcome(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create Your Perfect Design"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Describe what you need and the agent will generate professional graphics with detailed specifications."))
	b.WriteString("\n\n")
	b.WriteString(specLabelStyle.Render("Quick start presets (ctrl+p):"))
	b.WriteString("\n")
	for _, p := range session.StylePresets {
		b.WriteString("  " + badgeStyle.Render(p.Label) + " " + subtitleStyle.Render(truncate(p.Prompt, width-len(p.Label)-6)))
		b.WriteString("\n")
	}
	return emptyStateStyle.Width(width).Render(b.String())
}

func renderUserTurn(turn conversation.Turn, width int) string {
	bubble := userBubbleStyle.MaxWidth(width * 3 / 4).Render(turn.Content)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
}

func (a App) renderAssistantTurn(turn conversation.Turn, width int) string {
	inner := width - 6
	if inner < 20 {
		inner = 20
	}

	var parts []string
	if isFailureContent(turn.Content) {
		parts = append(parts, errorStyle.Render(turn.Content))
	} else if turn.Content != "" {
		parts = append(parts, renderMarkdown(turn.Content, inner))
	}

	if turn.HasImage() {
		if a.session.View.ImageFailed(turn.ImageURL) {
			parts = append(parts, placeholderStyle.Render("[ image unavailable ]"))
		} else {
			parts = append(parts, imageLinkStyle.Render(turn.ImageURL))
		}
	}
	if turn.Specs != nil {
		parts = append(parts, renderSpecs(*turn.Specs))
	}
	if len(parts) == 0 {
		parts = append(parts, placeholderStyle.Render("(empty response)"))
	}

	card := assistantCardStyle.MaxWidth(width - 2).Render(strings.Join(parts, "\n"))
	ts := time.UnixMilli(turn.Timestamp).Format("15:04:05")
	return card + "\n" + subtitleStyle.Render(ts)
}

func renderSpecs(specs agent.DesignSpecification) string {
	var rows []string
	add := func(label, value string) {
		if value != "" {
			rows = append(rows, specLabelStyle.Render(label+": ")+specValueStyle.Render(value))
		}
	}
	add("Brand", specs.BrandName)
	add("Dimensions", specs.Dimensions)
	add("Platform", specs.Platform)
	add("Style", specs.Style)
	if len(specs.Colors) > 0 {
		var swatches []string
		for _, c := range specs.Colors {
			swatches = append(swatches, colorSwatch(c))
		}
		rows = append(rows, specLabelStyle.Render("Colors: ")+strings.Join(swatches, " "))
	}
	add("Elements", strings.Join(specs.GeometricElements, ", "))
	add("Logo", strings.Join(specs.LogoPlacement, ", "))
	return strings.Join(rows, "\n")
}

// colorSwatch renders a hex color as a colored block next to its code, so
// the palette reads at a glance in a truecolor terminal.
func colorSwatch(hex string) string {
	if strings.HasPrefix(hex, "#") && (len(hex) == 7 || len(hex) == 4) {
		block := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
		return fmt.Sprintf("%s %s", block, hex)
	}
	return hex
}

func isFailureContent(content string) bool {
	return content == conversation.FailureMessage || content == conversation.TransportFailureMessage
}

// truncate shortens s to at most max runes, never splitting a multi-byte
// rune.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
