package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"glyphpet/internal/pet"
)

// StatsModel is a simple Bubble Tea model for displaying stats
type StatsModel struct {
	Pet *pet.Pet
}

// Init implements tea.Model
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model
func (m StatsModel) View() string {
	return RenderStats(m.Pet) + "\nPress ESC, click, or any key to close..."
}

func makeBar(value float64, width int) string {
	filled := int(value) * width / int(pet.MaxNeed)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// RenderStats draws the pet's stat card
func RenderStats(p *pet.Pet) string {
	age := "unhatched"
	if !p.BirthTime.IsZero() {
		age = fmt.Sprintf("%d hours", int(pet.TimeNow().Sub(p.BirthTime).Hours()))
	}

	var s strings.Builder
	s.WriteString("╔════════════════════════════════════╗\n")
	s.WriteString(fmt.Sprintf("║  %-34s║\n", p.Level.Emoji()+" "+p.Name))
	s.WriteString("╠════════════════════════════════════╣\n")
	s.WriteString(fmt.Sprintf("║  Level:   %-24s ║\n", p.Level))
	s.WriteString(fmt.Sprintf("║  Age:     %-24s ║\n", age))
	s.WriteString(fmt.Sprintf("║  Status:  %-24s ║\n", pet.GetStatus(p)))
	s.WriteString(fmt.Sprintf("║  Care:    %-24s ║\n", fmt.Sprintf("%d/%d", p.EvolutionCalls, p.Settings().EvolutionQuota)))
	s.WriteString(fmt.Sprintf("║  Sick:    %-24s ║\n", fmt.Sprintf("%d times", p.SickCount)))
	s.WriteString("║                                    ║\n")
	for _, n := range p.Needs() {
		s.WriteString(fmt.Sprintf("║  %-8s [%s] %3.0f%%            ║\n", n.Kind.Title()+":", makeBar(n.Current, 5), n.Current))
	}
	s.WriteString("╚════════════════════════════════════╝\n")
	return s.String()
}

// RenderGlyphs draws the memory table: one row per glyph
func RenderGlyphs(p *pet.Pet) string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%-3s %-14s %-6s %-10s %s\n", "", "Name", "Sound", "Memory", "Right/Wrong"))
	for _, r := range p.Glyphs() {
		s.WriteString(fmt.Sprintf("%-3s %-14s %-6s %-10s %d/%d\n",
			r.Glyph.Symbol, r.Glyph.Name, r.Glyph.Sound, r.Level, r.CorrectGuesses, r.WrongGuesses))
	}
	return s.String()
}

// DisplayStats shows the stats display
func DisplayStats(p *pet.Pet) error {
	program := tea.NewProgram(StatsModel{Pet: p}, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("stats display: %w", err)
	}
	return nil
}
