package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/snapzone/internal/zones"
)

// layoutItem implements list.Item for the layout sidebar.
type layoutItem struct {
	layout   zones.Layout
	isActive bool
}

func (i layoutItem) Title() string {
	prefix := "  "
	if i.isActive {
		prefix = "* "
	}
	return fmt.Sprintf("%s%s (%d)", prefix, i.layout.Name, len(i.layout.Zones))
}

func (i layoutItem) Description() string { return i.layout.ID }
func (i layoutItem) FilterValue() string { return i.layout.Name }

type clearStatusMsg struct{}

type mode int

const (
	modeBrowse mode = iota
	modeCreate
	modeConfirmDelete
)

// model is the root bubbletea model for the browser.
type model struct {
	src       Source
	connected bool

	list   list.Model
	input  textinput.Model
	mode   mode
	active string

	statusText string
	statusErr  bool

	width  int
	height int
}

func newModel(src Source, connected bool) model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Zone layouts"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	in := textinput.New()
	in.Placeholder = "columns:3 | rows:2 | grid:2x2 | priority"
	in.Prompt = "preset> "
	in.CharLimit = 32

	m := model{src: src, connected: connected, list: l, input: in}
	m.reload()
	return m
}

func (m *model) reload() {
	data, err := m.src.ListZoneLayouts()
	if err != nil {
		m.setStatus(fmt.Sprintf("error: %v", err), true)
		return
	}
	m.active = data.ActiveLayoutID
	items := make([]list.Item, 0, len(data.Layouts))
	for _, l := range data.Layouts {
		items = append(items, layoutItem{layout: l, isActive: l.ID == data.ActiveLayoutID})
	}
	m.list.SetItems(items)
}

func (m *model) setStatus(text string, isErr bool) {
	m.statusText = text
	m.statusErr = isErr
}

func (m model) selected() (zones.Layout, bool) {
	item, ok := m.list.SelectedItem().(layoutItem)
	if !ok {
		return zones.Layout{}, false
	}
	return item.layout, true
}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(m.sidebarWidth(), max(m.height-3, 1))
		return m, nil
	case clearStatusMsg:
		m.statusText = ""
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeCreate:
			return m.updateCreate(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "enter", "a":
		sel, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.src.SetActiveLayout(sel.ID); err != nil {
			m.setStatus(fmt.Sprintf("error: %v", err), true)
		} else {
			m.setStatus("active: "+sel.Name, false)
			m.reload()
		}
		return m, clearStatusAfter()
	case "x":
		if err := m.src.SetActiveLayout(""); err != nil {
			m.setStatus(fmt.Sprintf("error: %v", err), true)
		} else {
			m.setStatus("active layout cleared", false)
			m.reload()
		}
		return m, clearStatusAfter()
	case "n":
		m.mode = modeCreate
		m.input.Reset()
		return m, m.input.Focus()
	case "d":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
		return m, nil
	case "r":
		m.reload()
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case "enter":
		m.mode = modeBrowse
		m.input.Blur()
		preset := strings.TrimSpace(m.input.Value())
		l, err := zones.FromPreset("", preset)
		if err == nil {
			err = m.src.SaveZoneLayout(l)
		}
		if err != nil {
			m.setStatus(fmt.Sprintf("error: %v", err), true)
		} else {
			m.setStatus("created: "+l.Name, false)
			m.reload()
		}
		return m, clearStatusAfter()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	if msg.String() != "y" {
		return m, nil
	}
	sel, ok := m.selected()
	if !ok {
		return m, nil
	}
	if err := m.src.DeleteZoneLayout(sel.ID); err != nil {
		m.setStatus(fmt.Sprintf("error: %v", err), true)
	} else {
		m.setStatus("deleted: "+sel.Name, false)
		m.reload()
	}
	return m, clearStatusAfter()
}

func (m model) sidebarWidth() int {
	return min(max(m.width*35/100, 20), 40)
}

var (
	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	status := m.renderStatusBar()
	help := m.renderHelp()
	bodyHeight := max(m.height-lipgloss.Height(status)-lipgloss.Height(help), 1)

	sidebar := lipgloss.NewStyle().Width(m.sidebarWidth()).Height(bodyHeight).Render(m.list.View())
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("238")).
		Render(strings.TrimSuffix(strings.Repeat("│\n", bodyHeight), "\n"))
	previewWidth := max(m.width-m.sidebarWidth()-3, 10)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, m.renderPreview(previewWidth, bodyHeight))

	return lipgloss.JoinVertical(lipgloss.Left, status, body, help)
}

func (m model) renderStatusBar() string {
	var dot, text string
	if m.connected {
		dot = okStyle.Render("●")
		text = " daemon connected"
	} else {
		dot = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		text = " daemon not running (editing file)"
	}
	if m.active != "" {
		text += "  active:" + m.active
	}
	return statusBarStyle.Width(m.width).Render(dot + text)
}

func (m model) renderPreview(width, height int) string {
	sel, ok := m.selected()
	if !ok {
		return helpStyle.Render("no zone layouts yet; press n to create one")
	}
	title := titleStyle.Render(" " + sel.Name)
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Render(" " + summarizeLayout(&sel))
	lines := renderASCIIPreview(&sel, max(width-2, 5), max(height-4, 5))
	block := lipgloss.NewStyle().Foreground(lipgloss.Color("247")).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, title, summary, "", block)
}

func (m model) renderHelp() string {
	var left string
	switch {
	case m.mode == modeCreate:
		left = m.input.View()
	case m.mode == modeConfirmDelete:
		left = errStyle.Render("delete selected layout? y/N")
	case m.statusText != "" && m.statusErr:
		left = errStyle.Render(m.statusText)
	case m.statusText != "":
		left = okStyle.Render(m.statusText)
	}
	right := "enter:activate  x:clear  n:new  d:delete  r:refresh  q:quit"
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return helpStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
