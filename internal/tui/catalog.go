package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/listenupapp/pokedex/internal/box"
	"github.com/listenupapp/pokedex/internal/catalog"
	"github.com/listenupapp/pokedex/internal/domain"
)

func (m Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.pager.Snapshot()

	switch msg.String() {
	case "left", "p":
		if m.pager.CanPrev() {
			m.cursor = 0
			return m, m.loadPage(page.Number - 1)
		}
	case "right", "n":
		if m.pager.CanNext() {
			m.cursor = 0
			return m, m.loadPage(page.Number + 1)
		}
	case "up", "k":
		m.cursor = clamp(m.cursor-1, len(page.Items))
	case "down", "j":
		m.cursor = clamp(m.cursor+1, len(page.Items))
	case "r":
		return m, m.loadPage(page.Number)
	case "enter":
		if page.State != catalog.StateLoading && m.cursor < len(page.Items) {
			m.status = ""
			return m.openDetails(page.Items[m.cursor])
		}
	}
	return m, nil
}

func (m Model) catalogView() string {
	page := m.pager.Snapshot()

	var parts []string
	switch {
	case page.State == catalog.StateError:
		parts = append(parts, errorStyle.Render(page.Error), helpStyle.Render("press r to retry"))
	case page.State == catalog.StateLoading && len(page.Items) == 0:
		parts = append(parts, m.spinner.View()+" Loading...")
	}

	if len(page.Items) > 0 {
		cards := make([]string, 0, len(page.Items))
		for i, p := range page.Items {
			cards = append(cards, pokemonCard(p, i == m.cursor))
		}
		parts = append(parts, grid(cards))
	}

	parts = append(parts, m.pageIndicator(page))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) pageIndicator(page catalog.Page) string {
	prev, next := "  ", "  "
	if m.pager.CanPrev() {
		prev = "← "
	}
	if m.pager.CanNext() {
		next = " →"
	}
	label := fmt.Sprintf("Page %d", page.Number+1)
	if page.State == catalog.StateLoading {
		label += " " + m.spinner.View()
	}
	return mutedStyle.Render(prev) + label + mutedStyle.Render(next)
}

func pokemonCard(p domain.Pokemon, selected bool) string {
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Render(fmt.Sprintf("#%d %s\n%s", p.ID, p.DisplayName(), badges(p.Types)))
}

func (m Model) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "q":
		m.session.CloseDetails()
		m.detailsLoading = false
		m.status = ""
	case "c":
		if m.detailsLoading {
			break
		}
		if p, ok := m.session.Selected(); ok {
			m.form = newFormModel(box.NewCreateForm(p, m.now()))
		}
	}
	return m, nil
}

func (m Model) detailsView() string {
	p, ok := m.session.Selected()
	if !ok {
		return ""
	}
	if m.detailsLoading {
		return overlayStyle.Render(m.spinner.View() + " Loading...")
	}

	lines := []string{
		titleStyle.Render(p.DisplayName()) + mutedStyle.Render(fmt.Sprintf("  #%d", p.ID)),
		badges(p.Types),
		"",
	}
	if p.Description != "" {
		lines = append(lines, lipgloss.NewStyle().Width(60).Render(p.Description), "")
	}
	if p.Sprites.FrontDefault != "" {
		lines = append(lines, labelStyle.Render("Sprite ")+p.Sprites.FrontDefault)
	}
	if p.Sprites.FrontShiny != "" {
		lines = append(lines, labelStyle.Render("Shiny  ")+p.Sprites.FrontShiny)
	}

	if len(p.Stats) > 0 {
		lines = append(lines, "", labelStyle.Render("Stats"))
		for _, k := range domain.StatKeys(p.Stats) {
			lines = append(lines, fmt.Sprintf("  %-16s %d", domain.StatLabel(k), p.Stats[k]))
		}
	}

	if len(p.Moves) > 0 {
		lines = append(lines, "", labelStyle.Render("Moves"))
		for _, mv := range p.Moves {
			line := "  " + domain.DisplayName(mv.Name)
			if mv.Power != nil {
				line += fmt.Sprintf(" (%d)", *mv.Power)
			}
			if mv.Type.Name != "" {
				line += " " + badge(mv.Type)
			}
			lines = append(lines, line)
		}
	}

	return overlayStyle.Render(strings.Join(lines, "\n"))
}
