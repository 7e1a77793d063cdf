// Package tui implements sorex's interactive terminal search UI: a text
// input box wired to a TierSearcher, with results re-ranked live as the
// query changes.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sorexsearch/sorex/pkg/sorex"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	hrefStyle    = lipgloss.NewStyle().Faint(true)
	selectedMark = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// Model is the bubbletea model for the search TUI.
type Model struct {
	searcher *sorex.TierSearcher
	docs     map[uint32]sorex.Document
	input    textinput.Model
	results  []sorex.SearchResult
	cursor   int
	limit    int
	quitting bool
}

// New constructs a Model over an already-built TierSearcher.
func New(searcher *sorex.TierSearcher, limit int) Model {
	ti := textinput.New()
	ti.Placeholder = "search..."
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	docs := make(map[uint32]sorex.Document)
	for _, d := range searcher.Docs() {
		docs[d.DocID] = d
	}
	if limit <= 0 {
		limit = 10
	}

	return Model{searcher: searcher, docs: docs, input: ti, limit: limit}
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	prevValue := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prevValue {
		m.results = m.searcher.Search(m.input.Value(), m.limit)
		m.cursor = 0
	}
	return m, cmd
}

// View satisfies tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		b.WriteString(hrefStyle.Render("no results"))
		b.WriteString("\n")
	}
	for i, r := range m.results {
		doc := m.docs[r.DocID]
		marker := "  "
		if i == m.cursor {
			marker = selectedMark.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s\n    %s\n", marker, titleStyle.Render(doc.Title), hrefStyle.Render(doc.Href))
	}
	b.WriteString("\n(esc to quit)\n")
	return b.String()
}

// SelectedHref returns the href of the currently highlighted result, or
// "" if there are none.
func (m Model) SelectedHref() string {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return ""
	}
	return m.docs[m.results[m.cursor].DocID].Href
}
