package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nexustab/config"
	"nexustab/events"
	"nexustab/llm"
	"nexustab/popup"
	"nexustab/store"
	"nexustab/widget"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F25D94"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// refreshMsg is delivered when a widget's stored configuration changed
type refreshMsg struct {
	widget string
}

// turnResolvedMsg is delivered when a chat turn or confirmation resolves
type turnResolvedMsg struct{}

// dashboardData is the widget state rendered by the dashboard panels
type dashboardData struct {
	layout string
	tasks  widget.TasksConfig
	links  widget.QuickLinksConfig
	notes  widget.NotesConfig
	rss    widget.RSSConfig
}

type model struct {
	store      *store.Store
	controller *popup.Controller
	cfg        *config.Config
	data       dashboardData
	input      string
	width      int
	height     int
	popupOpen  bool
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.popupOpen {
			return m.updatePopup(msg)
		}
		return m.updateDashboard(msg)

	case refreshMsg:
		m.data = loadDashboardData(m.store)

	case turnResolvedMsg:
		snap := m.controller.Snapshot()
		if snap.State == popup.StateIdle {
			// Turn succeeded and the popup closed itself
			m.popupOpen = false
		}
		m.data = loadDashboardData(m.store)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// updateDashboard handles keys while the popup is closed
func (m model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case shortcutKey(m.cfg.ChatShortcut):
		if err := m.controller.Open(context.Background()); err != nil {
			return m, nil
		}
		m.cfg = m.controller.Config()
		m.popupOpen = true
		m.input = ""
	}
	return m, nil
}

// updatePopup handles keys while the chat popup is open
func (m model) updatePopup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.controller.Snapshot()

	if snap.State == popup.StateNeedsConfirmation {
		switch msg.String() {
		case "y", "Y", "enter":
			return m, m.confirmCmd()
		case "n", "N":
			m.controller.CancelPending()
		case "esc":
			m.controller.Close()
			m.popupOpen = false
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.controller.Close()
		m.popupOpen = false
	case "enter":
		if snap.CanSubmit && strings.TrimSpace(m.input) != "" {
			text := m.input
			m.input = ""
			return m, m.submitCmd(text)
		}
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.input += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			m.input += " "
		}
	}

	return m, nil
}

// submitCmd runs one chat turn off the UI goroutine
func (m model) submitCmd(text string) tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		controller.Submit(context.Background(), text)
		return turnResolvedMsg{}
	}
}

// confirmCmd executes the pending destructive action
func (m model) confirmCmd() tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		controller.Confirm(context.Background())
		return turnResolvedMsg{}
	}
}

func (m model) View() string {
	title := titleStyle.Render("Nexus Tab")
	hint := hintStyle.Render(fmt.Sprintf("layout: %s · %s opens the assistant · q quits", m.data.layout, m.cfg.ChatShortcut))

	var sections []string
	sections = append(sections, title, hint, m.renderLayout())

	if m.popupOpen {
		sections = append(sections, m.renderPopup())
	}

	return strings.Join(sections, "\n")
}

// renderLayout renders the widget panels visible in the active layout
func (m model) renderLayout() string {
	var panels []string

	switch m.data.layout {
	case widget.LayoutFocus:
		panels = append(panels, m.renderTasks(), m.renderNotes())
	case widget.LayoutWorkflow:
		panels = append(panels, m.renderTasks(), m.renderLinks(), m.renderFeeds())
	default:
		panels = append(panels, m.renderTasks(), m.renderLinks(), m.renderNotes(), m.renderFeeds())
	}

	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (m model) renderTasks() string {
	var b strings.Builder
	b.WriteString("Tasks\n")
	if len(m.data.tasks.Items) == 0 {
		b.WriteString(hintStyle.Render("no tasks"))
	}
	for _, task := range m.data.tasks.Items {
		marker := "[ ]"
		if task.Completed {
			marker = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", marker, task.Text))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m model) renderLinks() string {
	var b strings.Builder
	b.WriteString("Quick Links\n")
	if len(m.data.links.Links) == 0 {
		b.WriteString(hintStyle.Render("no links"))
	}
	for _, link := range m.data.links.Links {
		b.WriteString(fmt.Sprintf("%s → %s\n", link.Name, link.URL))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m model) renderNotes() string {
	content := m.data.notes.Content
	if content == "" {
		content = hintStyle.Render("no notes")
	}
	return panelStyle.Render("Notes\n" + content)
}

func (m model) renderFeeds() string {
	var b strings.Builder
	b.WriteString("Feeds\n")
	if len(m.data.rss.Feeds) == 0 {
		b.WriteString(hintStyle.Render("no feeds"))
	}
	for _, feed := range m.data.rss.Feeds {
		name := feed.Name
		if name == "" {
			name = feed.URL
		}
		b.WriteString(name + "\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderPopup renders the chat popup overlay
func (m model) renderPopup() string {
	snap := m.controller.Snapshot()
	var b strings.Builder

	b.WriteString("Assistant\n\n")

	switch {
	case snap.State == popup.StateNeedsConfirmation && snap.Pending != nil:
		b.WriteString(snap.Pending.Message + "\n\n")
		b.WriteString(fmt.Sprintf("Confirm: %s? ", snap.Pending.Action.Description()))
		b.WriteString(hintStyle.Render("(y/n)"))
	case snap.Loading:
		b.WriteString("Thinking...")
	default:
		b.WriteString(fmt.Sprintf("> %s█\n", m.input))
		if snap.Error != "" {
			b.WriteString("\n" + errorStyle.Render(snap.Error))
		}
		if snap.Result != "" {
			b.WriteString("\n" + resultStyle.Render(snap.Result))
		}
		if !snap.CanSubmit && !snap.Loading {
			b.WriteString("\n" + hintStyle.Render("Set an API key for the active provider to enable chat (nexustab config set <provider>.api_key ...)"))
		}
	}

	return popupStyle.Render(b.String())
}

// shortcutKey maps a configured chat shortcut to the bubbletea key
// string. Terminals report ctrl+space as ctrl+@ and deliver meta as alt.
func shortcutKey(shortcut string) string {
	switch shortcut {
	case config.ShortcutAltSpace, config.ShortcutMetaSpace:
		return "alt+ "
	default:
		return "ctrl+@"
	}
}

// loadDashboardData reads all widget configurations from the store
func loadDashboardData(s *store.Store) dashboardData {
	ctx := context.Background()
	data := dashboardData{layout: widget.DefaultLayout}

	var layout string
	if found, err := s.Get(ctx, store.KeyActiveLayout, &layout); err == nil && found && widget.ValidLayout(layout) {
		data.layout = layout
	}

	s.Get(ctx, store.KeyTasks, &data.tasks)
	s.Get(ctx, store.KeyQuickLinks, &data.links)
	s.Get(ctx, store.KeyNotes, &data.notes)
	s.Get(ctx, store.KeyRSS, &data.rss)

	return data
}

// StartTUI runs the dashboard with the chat popup overlay
func StartTUI(s *store.Store, bus *events.EventBus, cfg *config.Config) error {
	controller := popup.NewController(s, bus, llm.NewClient())

	m := model{
		store:      s,
		controller: controller,
		cfg:        cfg,
		data:       loadDashboardData(s),
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Widget mutations and external settings edits re-render the dashboard
	bus.Subscribe(events.WidgetUpdated, func(event events.Event) {
		if refresh, ok := event.Data.(events.WidgetRefresh); ok {
			p.Send(refreshMsg{widget: refresh.Widget})
		}
	})
	bus.Subscribe(events.LayoutChanged, func(event events.Event) {
		p.Send(refreshMsg{widget: "layout"})
	})
	bus.Subscribe(events.ConfigChanged, func(event events.Event) {
		p.Send(refreshMsg{widget: "config"})
	})

	_, err := p.Run()
	return err
}
