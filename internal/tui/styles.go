package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/listenupapp/pokedex/internal/color"
	"github.com/listenupapp/pokedex/internal/domain"
)

var (
	colorText   = lipgloss.Color("#E6E6E6")
	colorMuted  = lipgloss.Color("#8A8A8A")
	colorAccent = lipgloss.Color("#EE1515")
	colorBorder = lipgloss.Color("#3C3C3C")
	colorError  = lipgloss.Color("#FF6B6B")
	colorOK     = lipgloss.Color("#7BD88F")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorText).
			Underline(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(cardWidth)
	selectedCardStyle = cardStyle.BorderForeground(colorAccent)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle = lipgloss.NewStyle().Foreground(colorError)
	okStyle    = lipgloss.NewStyle().Foreground(colorOK)
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	helpStyle  = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)

const (
	cardWidth   = 24
	cardColumns = 4
)

// badge renders a type tag on the color the API assigns to it.
func badge(tag domain.TypeTag) string {
	bg, fg := color.Badge(tag.Name, tag.Color)
	return lipgloss.NewStyle().
		Padding(0, 1).
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).
		Render(strings.ToUpper(tag.Name))
}

func badges(tags []domain.TypeTag) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, badge(t))
	}
	return strings.Join(out, " ")
}

// grid lays cards out in rows of cardColumns.
func grid(cards []string) string {
	var rows []string
	for i := 0; i < len(cards); i += cardColumns {
		end := min(i+cardColumns, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
