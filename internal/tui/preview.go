package tui

import (
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/Zuo-Peng/awremap/internal/render"
)

// refreshPreview renders the selected change into the preview pane unless it
// is already showing.
func (m *model) refreshPreview() {
	c, ok := m.selected()
	if !ok {
		m.preview.SetContent("")
		m.previewLine = 0
		return
	}
	if c.Line == m.previewLine {
		return
	}
	m.preview.SetContent(render.Change(c, render.Options{Width: m.previewWidth(), Color: true}))
	m.preview.GotoTop()
	m.previewLine = c.Line
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
