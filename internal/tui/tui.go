package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/awremap/internal/open"
	"github.com/Zuo-Peng/awremap/internal/remap"
)

// message types

type editorClosedMsg struct {
	err error
}

// model

type model struct {
	path        string
	changes     []remap.Change
	visible     []int // indexes into changes matching the filter
	query       string
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewLine int // line currently in the preview, 0 for none
	notice      string
	width       int
	height      int
	ready       bool
	quitting    bool

	copy func(string) error
}

func initialModel(path string, changes []remap.Change) model {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	var changed []remap.Change
	for _, c := range changes {
		if c.Changed() || c.Outcome == remap.Missed {
			changed = append(changed, c)
		}
	}

	m := model{
		path:        path,
		changes:     changed,
		filterInput: ti,
		preview:     viewport.New(0, 0),
		copy:        clipboard.WriteAll,
	}
	m.applyFilter("")
	return m
}

// Run starts the TUI over the changes of one remapped file and blocks until
// it exits. Misses are listed alongside rewritten lines.
func Run(path string, changes []remap.Change) error {
	m := initialModel(path, changes)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.previewLine = 0
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if c, ok := m.selected(); ok {
				return m, tea.ExecProcess(open.Command(m.path, c.Line), func(err error) tea.Msg {
					return editorClosedMsg{err: err}
				})
			}
			return m, nil

		case key.Matches(msg, keys.Copy):
			if c, ok := m.selected(); ok {
				if err := m.copy(c.After); err != nil {
					m.notice = "copy failed: " + err.Error()
				} else {
					m.notice = fmt.Sprintf("copied line %d", c.Line)
				}
			}
			return m, nil

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				m.refreshPreview()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				m.refreshPreview()
			}
			return m, nil

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		// Pass remaining keys to text input
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		if q := m.filterInput.Value(); q != m.query {
			m.applyFilter(q)
		}
		return m, tiCmd

	case tea.MouseMsg:
		if !m.ready || len(m.visible) == 0 {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			maxOffset := len(m.visible) - m.panelHeight()/linesPerItem
			if maxOffset < 0 {
				maxOffset = 0
			}
			if m.listOffset < maxOffset {
				m.listOffset++
			}

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.visible) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				m.refreshPreview()
			}

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			return m, vpCmd
		}
		return m, nil

	case editorClosedMsg:
		if msg.err != nil {
			m.notice = "editor: " + msg.err.Error()
		}
		return m, nil
	}

	return m, nil
}

// applyFilter narrows the list to changes whose text contains query.
func (m *model) applyFilter(query string) {
	m.query = query
	m.visible = nil
	q := strings.ToLower(query)
	for i, c := range m.changes {
		if q == "" ||
			strings.Contains(strings.ToLower(c.Before), q) ||
			strings.Contains(strings.ToLower(c.After), q) {
			m.visible = append(m.visible, i)
		}
	}
	m.cursor = 0
	m.listOffset = 0
	m.previewLine = 0
	m.refreshPreview()
}

func (m model) selected() (remap.Change, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return remap.Change{}, false
	}
	return m.changes[m.visible[m.cursor]], true
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	inputRow := m.filterInput.View()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, m.statusBar())
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for list, minus border padding
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	w := m.width*60/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + relY/linesPerItem
	}
	if x > listBoxRight+1 {
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	parts := []string{
		fmt.Sprintf("%d/%d changes", len(m.visible), len(m.changes)),
		"up/dn navigate",
		"C-u/C-d preview",
		"C-y copy",
		"Enter edit",
		"Esc quit",
	}
	bar := styleStatusBar.Render(strings.Join(parts, " | "))
	if m.notice != "" {
		bar += styleNotice.Render(m.notice)
	}
	return bar
}
