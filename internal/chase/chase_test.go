package chase

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"glyphpet/internal/pet"
)

func newPet() *pet.Pet {
	p := pet.NewPet("Chaser", pet.DefaultSettings())
	p.IncreaseLevel()
	return p
}

func ankh(speed int) Target {
	return Target{Glyph: pet.Glyphs[12], Speed: speed}
}

func TestPickTarget(t *testing.T) {
	p := newPet()
	for _, r := range p.Glyphs() {
		r.Level = pet.MemoryMemorized
	}
	target := PickTarget(p, rand.New(rand.NewSource(3)))

	if _, ok := p.Glyph(target.Glyph.Symbol); !ok {
		t.Errorf("Expected target from the memory table, got %+v", target.Glyph)
	}
	if target.Speed != 4 {
		t.Errorf("Expected memorized glyphs to be slow, got speed %d", target.Speed)
	}
}

func TestTargetSpeedsCoverEveryRank(t *testing.T) {
	for level := pet.MemoryLevel(0); int(level) < pet.MemoryLevelCount; level++ {
		if targetSpeeds[level] <= 0 {
			t.Errorf("Speed for %s = %d, want > 0", level, targetSpeeds[level])
		}
	}
}

func TestModel_Update_KeyMsg(t *testing.T) {
	m := NewModel(newPet(), ankh(2))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if cmd == nil {
		t.Error("Any key should quit")
	}
}

func TestModel_Update_WindowSizeMsg(t *testing.T) {
	m := NewModel(newPet(), ankh(2))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	got := updated.(Model)
	if got.TermWidth != 80 || got.TermHeight != 24 {
		t.Errorf("Size = %dx%d, want 80x24", got.TermWidth, got.TermHeight)
	}
}

func TestModel_Update_WaitsForSize(t *testing.T) {
	m := NewModel(newPet(), ankh(1))
	updated, cmd := m.Update(animTickMsg(time.Now()))
	got := updated.(Model)
	if cmd == nil || got.TargetPosX != 5 {
		t.Error("Expected to keep ticking without moving before the first resize")
	}
}

func TestModel_Update_TargetMovesAtItsSpeed(t *testing.T) {
	m := NewModel(newPet(), ankh(2))
	m.TermWidth, m.TermHeight = 80, 24

	updated, _ := m.Update(animTickMsg(time.Now()))
	if got := updated.(Model); got.TargetPosX != 5 {
		t.Errorf("Target moved on frame 1 with speed 2: x=%d", got.TargetPosX)
	}
	updated, _ = updated.Update(animTickMsg(time.Now()))
	if got := updated.(Model); got.TargetPosX != 6 {
		t.Errorf("Target x = %d after two frames, want 6", got.TargetPosX)
	}
}

func TestModel_Update_PetFollows(t *testing.T) {
	m := NewModel(newPet(), ankh(100))
	m.TermWidth, m.TermHeight = 80, 24
	m.PetPosY, m.TargetPosX, m.TargetPosY = 2, 20, 12

	updated, _ := m.Update(animTickMsg(time.Now()))
	updated, _ = updated.Update(animTickMsg(time.Now()))
	got := updated.(Model)

	if got.PetPosX != 1 {
		t.Errorf("Pet x = %d, want 1", got.PetPosX)
	}
	if got.PetPosY != 3 {
		t.Errorf("Pet y = %d, want 3", got.PetPosY)
	}
}

func TestModel_Update_TargetEscapes(t *testing.T) {
	m := NewModel(newPet(), ankh(1))
	m.TermWidth, m.TermHeight = 80, 24
	m.TargetPosX = 77

	updated, cmd := m.Update(animTickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("Expected quit when the glyph reaches the edge")
	}
	if updated.(Model).Caught {
		t.Error("Escaped glyph should not count as caught")
	}
}

func TestModel_Update_Catch(t *testing.T) {
	m := NewModel(newPet(), ankh(100))
	m.TermWidth, m.TermHeight = 40, 10
	m.PetPosX, m.PetPosY = 5, 3
	m.TargetPosX, m.TargetPosY = 6, 3

	updated, cmd := m.Update(animTickMsg(time.Now()))
	if cmd == nil || !updated.(Model).Caught {
		t.Fatal("Expected the catch to end the run")
	}
}

func TestClampOnResize(t *testing.T) {
	m := NewModel(newPet(), ankh(2))
	m.PetPosX, m.PetPosY = 100, 50
	m.TargetPosX, m.TargetPosY = -4, -1

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 4})
	got := updated.(Model)

	if got.PetPosX != 18 || got.PetPosY != minVisibleRows-1 {
		t.Errorf("Pet = (%d,%d), want (18,%d)", got.PetPosX, got.PetPosY, minVisibleRows-1)
	}
	if got.TargetPosX != 0 || got.TargetPosY != 0 {
		t.Errorf("Target = (%d,%d), want (0,0)", got.TargetPosX, got.TargetPosY)
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(newPet(), ankh(2))
	if m.View() != "Initializing..." {
		t.Error("Expected placeholder before the first resize")
	}

	m.TermWidth, m.TermHeight = 40, 12
	m.TargetPosY = 4
	view := m.View()

	if !strings.Contains(view, "𓋹") {
		t.Error("View should contain the glyph")
	}
	if !strings.Contains(view, "Chaser chases the ankh") {
		t.Error("View should name the glyph being chased")
	}
	if lines := strings.Count(view, "\n"); lines != m.visibleRows() {
		t.Errorf("View has %d newlines, want %d", lines, m.visibleRows())
	}
}

func TestGetChaseEmoji(t *testing.T) {
	tests := []struct {
		name   string
		energy float64
		hunger float64
		joy    float64
		distX  int
		want   string
	}{
		{"about to catch", 50, 50, 50, 1, "😻"},
		{"tired", 20, 50, 50, 10, "😴"},
		{"energetic", 90, 50, 50, 10, "😼"},
		{"hungry", 50, 20, 50, 10, "🙀"},
		{"sad", 50, 50, 20, 10, "😿"},
		{"default", 50, 50, 50, 10, "😸"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPet()
			p.Need(pet.Energy).Current = tt.energy
			p.Need(pet.Hunger).Current = tt.hunger
			p.Need(pet.Joy).Current = tt.joy
			if got := getChaseEmoji(p, tt.distX, 0); got != tt.want {
				t.Errorf("getChaseEmoji() = %q, want %q", got, tt.want)
			}
		})
	}
}
