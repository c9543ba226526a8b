package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atelier-studio/atelier/pkg/conversation"
	"github.com/atelier-studio/atelier/pkg/download"
	"github.com/atelier-studio/atelier/pkg/session"
	"github.com/atelier-studio/atelier/pkg/view"
)

// App is the root bubbletea model. It renders the studio and library views
// over the shared session and owns all keyboard interaction.
type App struct {
	session    *session.Session
	downloader *download.Downloader

	prompt     textarea.Model
	transcript viewport.Model
	spin       spinner.Model

	search        textinput.Model
	selected      int
	searchFocused bool

	width  int
	height int
	ready  bool
	status string
}

type generationDoneMsg struct {
	turn conversation.Turn
	ok   bool
}

type downloadDoneMsg struct {
	url  string
	path string
}

func NewApp(sess *session.Session, dl *download.Downloader) App {
	prompt := textarea.New()
	prompt.Placeholder = "Describe your design... (e.g., Create a modern Instagram post for a coffee shop with warm brown tones, minimalist style, 1080x1080px)"
	prompt.SetHeight(3)
	prompt.Focus()

	search := textinput.New()
	search.Placeholder = "Search designs..."

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)

	return App{
		session:    sess,
		downloader: dl,
		prompt:     prompt,
		search:     search,
		spin:       sp,
		transcript: viewport.New(80, 20),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, a.spin.Tick)
}

func (a App) startGeneration(prompt string) tea.Cmd {
	return func() tea.Msg {
		turn, ok := a.session.Generate(context.Background(), prompt)
		return generationDoneMsg{turn: turn, ok: ok}
	}
}

func (a App) startDownload(url string, filename string) tea.Cmd {
	return func() tea.Msg {
		path := a.downloader.Fetch(context.Background(), url, filename)
		return downloadDoneMsg{url: url, path: path}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.transcript.Width = msg.Width - 2
		a.transcript.Height = msg.Height - a.prompt.Height() - 6
		a.prompt.SetWidth(msg.Width - 4)
		a.search.Width = msg.Width - 8
		a.refreshTranscript()
		return a, nil

	case spinner.TickMsg:
		// the spinner keeps ticking so a generation that starts between
		// frames still animates; the transcript only redraws while one runs
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		if a.session.Conversation.Generating() {
			a.refreshTranscript()
		}
		return a, cmd

	case generationDoneMsg:
		if msg.ok {
			a.prompt.Reset()
		}
		a.prompt.Focus()
		a.status = ""
		a.refreshTranscript()
		a.transcript.GotoBottom()
		return a, nil

	case downloadDoneMsg:
		if msg.path == "" {
			// the fetch failed; degrade this URL to a placeholder everywhere
			a.session.View.MarkImageFailed(msg.url)
			a.refreshTranscript()
			return a, nil
		}
		a.status = "Saved " + msg.path
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.updateFocused(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "tab":
		if a.session.View.Active() == view.ScreenStudio {
			a.session.View.SelectView(view.ScreenLibrary)
		} else {
			a.session.View.SelectView(view.ScreenStudio)
		}
		a.status = ""
		return a, nil
	}

	if a.session.View.Active() == view.ScreenLibrary {
		return a.handleLibraryKey(msg)
	}
	return a.handleStudioKey(msg)
}

func (a App) handleStudioKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if a.session.Conversation.Generating() {
			return a, nil
		}
		text := strings.TrimSpace(a.prompt.Value())
		if text == "" {
			return a, nil
		}
		a.prompt.Blur()
		a.transcript.GotoBottom()
		return a, tea.Batch(a.startGeneration(text), a.spin.Tick)
	case "ctrl+j":
		// newline inside the prompt
		a.prompt.InsertString("\n")
		return a, nil
	case "ctrl+s":
		if turn, ok := latestImageTurn(a.session.Conversation.Turns()); ok {
			if design, err := a.session.SaveDesign(turn); err == nil {
				a.status = "Saved to library (" + design.ID + ")"
			}
		}
		return a, nil
	case "ctrl+d":
		if turn, ok := latestImageTurn(a.session.Conversation.Turns()); ok {
			return a, a.startDownload(turn.ImageURL, "design.png")
		}
		return a, nil
	case "ctrl+p":
		a.prompt.Reset()
		a.prompt.InsertString(session.StylePresets[a.nextPreset()].Prompt)
		return a, nil
	}
	return a.updateFocused(msg)
}

func (a App) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if _, inspecting := a.session.View.Inspected(); inspecting {
		return a.handleInspectKey(msg)
	}
	if a.searchFocused {
		switch msg.String() {
		case "esc", "enter":
			a.searchFocused = false
			a.search.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		a.selected = 0
		return a, cmd
	}

	designs := a.session.Library.Filter(a.search.Value())
	switch msg.String() {
	case "/":
		a.searchFocused = true
		a.search.Focus()
		return a, textinput.Blink
	case "up", "k":
		if a.selected > 0 {
			a.selected--
		}
		return a, nil
	case "down", "j":
		if a.selected < len(designs)-1 {
			a.selected++
		}
		return a, nil
	case "enter":
		if a.selected < len(designs) {
			a.session.View.Inspect(designs[a.selected])
		}
		return a, nil
	}
	return a, nil
}

func (a App) handleInspectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	design, ok := a.session.View.Inspected()
	if !ok {
		return a, nil
	}
	switch msg.String() {
	case "esc":
		a.session.View.ClearInspection()
		return a, nil
	case "d":
		return a, a.startDownload(design.ImageURL, design.ID+".png")
	case "x":
		a.session.DeleteDesign(design.ID)
		if a.selected > 0 {
			a.selected--
		}
		return a, nil
	case "r":
		// recreate: copy the prompt back into the studio input
		a.prompt.Reset()
		a.prompt.InsertString(design.Prompt)
		a.session.View.ClearInspection()
		a.session.View.SelectView(view.ScreenStudio)
		a.prompt.Focus()
		return a, nil
	}
	return a, nil
}

// updateFocused routes remaining messages to whichever input owns focus.
func (a App) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if a.session.View.Active() == view.ScreenStudio {
		a.prompt, cmd = a.prompt.Update(msg)
		cmds = append(cmds, cmd)
		a.transcript, cmd = a.transcript.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		a.search, cmd = a.search.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) refreshTranscript() {
	a.transcript.SetContent(a.renderTranscript())
}

func (a App) nextPreset() int {
	// rotate through the presets on repeated presses, keyed off the prompt
	for i, p := range session.StylePresets {
		if a.prompt.Value() == p.Prompt {
			return (i + 1) % len(session.StylePresets)
		}
	}
	return 0
}

func latestImageTurn(turns []conversation.Turn) (conversation.Turn, bool) {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == conversation.RoleAssistant && turns[i].HasImage() {
			return turns[i], true
		}
	}
	return conversation.Turn{}, false
}

func (a App) View() string {
	if !a.ready {
		return "loading..."
	}
	header := a.renderHeader()
	var body string
	if a.session.View.Active() == view.ScreenLibrary {
		body = a.renderLibrary()
	} else {
		body = a.renderStudio()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (a App) renderHeader() string {
	studioTab := tabStyle.Render("Create")
	libraryTab := tabStyle.Render(fmt.Sprintf("Library (%d)", a.session.Library.Len()))
	if a.session.View.Active() == view.ScreenLibrary {
		libraryTab = activeTabStyle.Render(fmt.Sprintf("Library (%d)", a.session.Library.Len()))
	} else {
		studioTab = activeTabStyle.Render("Create")
	}
	state := "Ready"
	if a.session.Conversation.Generating() {
		state = a.spin.View() + " Generating..."
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render(" Atelier "),
		studioTab,
		libraryTab,
		statusStyle.Render("  "+state),
	)
}
