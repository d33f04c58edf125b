package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/listenupapp/pokedex/internal/box"
)

func (m Model) updateBox(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.box.Snapshot()

	switch msg.String() {
	case "up", "k":
		m.boxCursor = clamp(m.boxCursor-1, len(snap.Entries))
	case "down", "j":
		m.boxCursor = clamp(m.boxCursor+1, len(snap.Entries))
	case "r":
		m.status = ""
		return m, m.loadBox()
	case "e":
		if m.boxCursor >= len(snap.Entries) || snap.State == box.StateLoading {
			return m, nil
		}
		entry, p, ok := m.box.Editable(snap.Entries[m.boxCursor].ID)
		if !ok {
			m.status = mutedStyle.Render("This entry is still loading.")
			return m, nil
		}
		m.form = newFormModel(box.NewEditForm(p, entry))
	case "d":
		if m.boxCursor < len(snap.Entries) && snap.State != box.StateLoading {
			m.confirm = snap.Entries[m.boxCursor].ID
		}
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entryID := m.confirm
	m.confirm = ""
	if msg.String() != "y" && msg.String() != "Y" {
		return m, nil
	}

	view, ctx := m.box, m.ctx
	return m, func() tea.Msg {
		return boxDeletedMsg{entryID: entryID, err: view.Delete(ctx, entryID)}
	}
}

func (m Model) boxView() string {
	snap := m.box.Snapshot()

	switch {
	case snap.State == box.StateError:
		return lipgloss.JoinVertical(lipgloss.Left,
			errorStyle.Render(snap.Error),
			helpStyle.Render("press r to retry"),
		)
	case snap.State == box.StateLoading && len(snap.Entries) == 0:
		return m.spinner.View() + " Loading..."
	case snap.Empty():
		return mutedStyle.Render("Your Box is empty!")
	}

	cards := make([]string, 0, len(snap.Entries))
	for i := range snap.Entries {
		cards = append(cards, boxCard(snap, i, i == m.boxCursor))
	}

	parts := []string{grid(cards)}
	if m.confirm != "" {
		parts = append(parts, "", labelStyle.Render(fmt.Sprintf("Release %s? [y/N]", m.confirmName(snap))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) confirmName(snap box.Snapshot) string {
	if p, ok := snap.Pokemon[m.confirm]; ok {
		return p.DisplayName()
	}
	return "this Pokemon"
}

func boxCard(snap box.Snapshot, i int, selected bool) string {
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}

	entry, p, ok := snap.Card(i)
	if !ok {
		return style.Render(mutedStyle.Render("Loading...") + fmt.Sprintf("\nLevel %d", entry.Level))
	}

	lines := []string{
		labelStyle.Render(p.DisplayName()),
		badges(p.Types),
		"Location: " + entry.Location,
		fmt.Sprintf("Level: %d", entry.Level),
		"Caught: " + entry.CaughtAt(),
	}
	if notes := strings.TrimSpace(entry.Notes); notes != "" {
		lines = append(lines, mutedStyle.Render(notes))
	}
	return style.Render(strings.Join(lines, "\n"))
}
