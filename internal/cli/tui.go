package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kenbanks-peng/mise-nix/pkg/profile"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// entryListModel is the bubbletea model for browsing profile entries.
type entryListModel struct {
	entries  []profile.Entry
	cursor   int
	selected *profile.Entry
	height   int
	offset   int
}

func newEntryListModel(entries []profile.Entry) entryListModel {
	return entryListModel{
		entries: entries,
		height:  15,
	}
}

func (m entryListModel) Init() tea.Cmd {
	return nil
}

func (m entryListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			entry := m.entries[m.cursor]
			m.selected = &entry
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m entryListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Profile Entries"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.entries) {
		end = len(m.entries)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		e := m.entries[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		name := e.Name
		if name == "" {
			name = "—"
		}

		origin := e.OriginalURL
		if origin == "" {
			origin = e.URL
		}
		if origin == "" {
			origin = "—"
		}

		paths := "—"
		if len(e.StorePaths) > 0 {
			paths = fmt.Sprintf("%d", len(e.StorePaths))
		}

		rows = append(rows, []string{cursor, name, origin, e.AttrPath, paths})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Entry", "Origin", "Attribute", "Paths").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.offset + row
			if actualIdx >= len(m.entries) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if actualIdx == m.cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if col == 2 || col == 3 {
				return base.Foreground(colorDim)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.entries))))

	return b.String()
}
