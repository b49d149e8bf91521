// Package chase plays a short terminal animation of the pet chasing a glyph.
package chase

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"glyphpet/internal/pet"
)

const (
	tickInterval   = 70 * time.Millisecond
	minVisibleRows = 6
)

// getChaseEmoji returns the appropriate emoji for the pet during chase based on its needs
func getChaseEmoji(p *pet.Pet, distX, distY int) string {
	if absInt(distX) <= 2 && absInt(distY) <= 1 {
		return "😻" // About to catch
	}

	if p.Need(pet.Energy).Current < 30 {
		return "😴"
	} else if p.Need(pet.Energy).Current > 80 {
		return "😼"
	}

	if p.Need(pet.Hunger).Current < 30 {
		return "🙀"
	}

	if p.Need(pet.Joy).Current < 30 {
		return "😿"
	}
	return "😸"
}

// Target is the glyph being chased
type Target struct {
	Glyph pet.Glyph
	Speed int // Frames to move 1 position
}

// targetSpeeds maps memory level to frames per step. Glyphs the pet knows
// well are slower and easier to catch.
var targetSpeeds = map[pet.MemoryLevel]int{
	pet.MemoryNew:       2,
	pet.MemorySeen:      2,
	pet.MemoryUnknown:   2,
	pet.MemoryKnown:     3,
	pet.MemoryMemorized: 4,
}

// PickTarget chooses a random glyph from the pet's memory table
func PickTarget(p *pet.Pet, rng *rand.Rand) Target {
	records := p.Glyphs()
	r := records[rng.Intn(len(records))]
	return Target{Glyph: r.Glyph, Speed: targetSpeeds[r.Level]}
}

// Model is the Bubble Tea model for chase animation
type Model struct {
	Pet        *pet.Pet
	Target     Target
	TermWidth  int
	TermHeight int
	PetPosX    int
	PetPosY    int
	TargetPosX int
	TargetPosY int
	Frame      int
	Caught     bool
}

type animTickMsg time.Time

// NewModel places the pet at the left edge a few cells behind its target
func NewModel(p *pet.Pet, target Target) Model {
	return Model{
		Pet:        p,
		Target:     target,
		TargetPosX: 5,
	}
}

// Run plays the chase until the glyph is caught, escapes, or a key is pressed
func Run(p *pet.Pet, target Target) (bool, error) {
	final, err := tea.NewProgram(NewModel(p, target), tea.WithAltScreen()).Run()
	if err != nil {
		return false, fmt.Errorf("chase animation: %w", err)
	}
	return final.(Model).Caught, nil
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.TermWidth = msg.Width
		m.TermHeight = msg.Height
		m.clampPositions()
		return m, nil

	case animTickMsg:
		m.Frame++

		if m.TermWidth == 0 || m.TermHeight == 0 {
			return m, tick()
		}

		if m.Frame%m.Target.Speed == 0 {
			m.TargetPosX++

			if m.TargetPosX >= m.maxX() {
				return m, tea.Quit
			}

			// Drift along a sine wave
			height := float64(m.visibleRows())
			amplitude := height / 3.0
			centerY := height / 2.0
			frequency := 0.2

			m.TargetPosY = int(centerY + amplitude*math.Sin(float64(m.TargetPosX)*frequency))
			m.clampPositions()
		}

		if m.Frame%2 == 0 {
			distX := m.TargetPosX - m.PetPosX
			distY := m.TargetPosY - m.PetPosY

			if distX > 3 {
				m.PetPosX++
			}

			if distY > 1 {
				m.PetPosY++
			} else if distY < -1 {
				m.PetPosY--
			}

			m.clampPositions()
		}

		if absInt(m.TargetPosX-m.PetPosX) <= 1 && m.TargetPosY == m.PetPosY {
			m.Caught = true
			return m, tea.Quit
		}

		return m, tick()
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	if m.TermWidth == 0 || m.TermHeight == 0 {
		return "Initializing..."
	}

	rows := m.visibleRows()
	petEmoji := getChaseEmoji(m.Pet, m.TargetPosX-m.PetPosX, m.TargetPosY-m.PetPosY)

	grid := make([][]rune, rows-1)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", m.TermWidth))
	}
	m.place(grid, m.TargetPosX, m.TargetPosY, m.Target.Glyph.Symbol)
	m.place(grid, m.PetPosX, m.PetPosY, petEmoji)

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}
	fmt.Fprintf(&result, "\n%s chases the %s (%s). Press any key to exit", m.Pet.Name, m.Target.Glyph.Name, m.Target.Glyph.Sound)

	return result.String()
}

func (m Model) place(grid [][]rune, x, y int, s string) {
	if y < 0 || y >= len(grid) || x < 0 || x >= m.TermWidth-2 {
		return
	}
	for i, r := range []rune(s) {
		if x+i < m.TermWidth {
			grid[y][x+i] = r
		}
	}
}

func (m *Model) clampPositions() {
	rows := m.visibleRows()
	if rows < 1 {
		return
	}

	m.PetPosX = min(max(m.PetPosX, 0), m.maxX())
	m.TargetPosX = min(max(m.TargetPosX, 0), m.maxX())
	m.PetPosY = min(max(m.PetPosY, 0), rows-1)
	m.TargetPosY = min(max(m.TargetPosY, 0), rows-1)
}

func (m Model) visibleRows() int {
	if m.TermHeight <= 0 {
		return 0
	}
	return max(m.TermHeight-2, minVisibleRows)
}

func (m Model) maxX() int {
	if m.TermWidth <= 2 {
		return 0
	}
	return m.TermWidth - 2
}
