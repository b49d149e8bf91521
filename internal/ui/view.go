package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"glyphpet/internal/minigame"
	"glyphpet/internal/pet"
)

var gameStyles = struct {
	title    lipgloss.Style
	status   lipgloss.Style
	menu     lipgloss.Style
	menuBox  lipgloss.Style
	stats    lipgloss.Style
	prompt   lipgloss.Style
	button   lipgloss.Style
	selected lipgloss.Style
	hint     lipgloss.Style
}{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#E0B04F")).
		Padding(0, 1),

	status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E0B04F")).
		Width(40),

	stats: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E0B04F")).
		Width(40),

	menu: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E0B04F")),

	menuBox: lipgloss.NewStyle().
		Padding(0, 2),

	prompt: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#4FB0E0")).
		Padding(0, 1),

	button: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7A6A4F")).
		Padding(0, 1),

	selected: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#E0B04F")).
		Bold(true).
		Padding(0, 1),

	hint: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#9FD89F")),
}

// View implements tea.Model
func (m Model) View() string {
	if m.Quitting {
		return "Thanks for playing!\n"
	}

	// Show animation if one is active
	if m.Animation.Type != AnimNone {
		return m.renderAnimation()
	}

	switch m.Screen {
	case ScreenGames:
		return m.renderGames()
	case ScreenGame:
		return m.renderGame()
	case ScreenGlyphs:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderTitle(),
			"",
			RenderGlyphs(m.Pet),
			"",
			gameStyles.status.Render("Press esc to go back"),
		)
	}

	sections := []string{
		m.renderTitle(),
		"",
		m.renderNeeds(),
		"",
		gameStyles.status.Render(fmt.Sprintf("Status: %s", pet.GetStatusWithLabel(m.Pet))),
	}
	if msg := m.activeMessage(); msg != "" {
		sections = append(sections, "", gameStyles.status.Render(msg))
	}
	sections = append(sections,
		"",
		m.renderMenu(m.mainChoices()),
		"",
		gameStyles.status.Render("Use arrows to move • enter to select • s sleep • g glyphs • q to quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitle() string {
	emoji := m.Pet.Level.Emoji()
	return gameStyles.title.Render(emoji + " " + m.Pet.Name + " " + emoji)
}

func (m Model) activeMessage() string {
	if m.Message != "" && pet.TimeNow().Before(m.MessageExpires) {
		return m.Message
	}
	return ""
}

func (m Model) renderNeeds() string {
	lines := []string{fmt.Sprintf("%-8s %s", "Level:", m.Pet.Level)}
	for _, n := range m.Pet.Needs() {
		lines = append(lines, fmt.Sprintf("%-8s [%s] %3.0f%%", n.Kind.Title()+":", makeBar(n.Current, 10), n.Current))
	}
	if m.Pet.Level != pet.LevelEgg {
		lines = append(lines, fmt.Sprintf("%-8s %d/%d", "Care:", m.Pet.EvolutionCalls, m.Pet.Settings().EvolutionQuota))
	}
	return gameStyles.stats.Render(strings.Join(lines, "\n"))
}

func (m Model) renderMenu(choices []string) string {
	var menuItems []string
	for i, choice := range choices {
		cursor := " "
		if m.Choice == i {
			cursor = ">"
		}
		menuItems = append(menuItems, fmt.Sprintf("%s %s", cursor, choice))
	}
	return gameStyles.menuBox.Render(strings.Join(menuItems, "\n"))
}

func (m Model) renderGames() string {
	games := m.catalog.Available(m.Pet)
	var choices []string
	for _, g := range games {
		if g.Hatches() {
			choices = append(choices, g.Title)
			continue
		}
		choices = append(choices, fmt.Sprintf("%-16s +%s -%s", g.Title, g.Primary.Title(), g.Secondary.Title()))
	}

	sections := []string{m.renderTitle(), "", gameStyles.menu.Render(fmt.Sprintf("Pick a game (%s)", m.difficulty))}
	if len(choices) == 0 {
		sections = append(sections, gameStyles.status.Render("No games right now"))
	} else {
		sections = append(sections, m.renderMenu(choices))
	}
	if msg := m.activeMessage(); msg != "" {
		sections = append(sections, "", gameStyles.status.Render(msg))
	}
	sections = append(sections, "", gameStyles.status.Render("enter to play • esc to go back"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderGame() string {
	s := m.Session
	round := s.Round()

	header := gameStyles.title.Render(fmt.Sprintf("%s  round %d/%d  misses %d/%d",
		s.Game.Title, round.Number, s.Model.Rounds, s.Fails(), s.Model.FailsToLose))
	prompt := gameStyles.prompt.Render(fmt.Sprintf("Which glyph is the %s, read %q?", round.Target.Name, round.Target.Sound))

	buttons := make([]string, len(round.Options))
	for i, g := range round.Options {
		style := gameStyles.button
		if i == m.Choice {
			style = gameStyles.selected
		}
		label := g.Symbol
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, g.Symbol)
		}
		buttons[i] = style.Render(label)
	}

	sections := []string{header, "", prompt}
	if round.Hint {
		sections = append(sections, gameStyles.hint.Render(fmt.Sprintf("New glyph! %s is the %s", round.Target.Symbol, round.Target.Name)))
	}
	sections = append(sections, "", lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	if msg := m.activeMessage(); msg != "" {
		sections = append(sections, "", gameStyles.status.Render(msg))
	}
	sections = append(sections, "", gameStyles.status.Render(gameHelp(s)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func gameHelp(s *minigame.Session) string {
	if s.Model.Buttons > 9 {
		return "1-9 or arrows + enter to answer • esc to stop"
	}
	return fmt.Sprintf("1-%d or arrows + enter to answer • esc to stop", s.Model.Buttons)
}

func (m Model) renderAnimation() string {
	frame := GetAnimationFrame(m.Animation)

	animStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFD700")).
		Bold(true).
		Padding(1, 2)

	sections := []string{
		m.renderTitle(),
		"",
		animStyle.Render(frame),
	}
	if msg := m.activeMessage(); msg != "" {
		sections = append(sections, "", gameStyles.status.Render(msg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
