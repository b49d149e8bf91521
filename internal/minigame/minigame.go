// Package minigame sizes and runs the glyph-recognition games a pet plays.
package minigame

import (
	"errors"
	"fmt"

	"glyphpet/internal/pet"
)

var (
	ErrGameUnavailable = errors.New("game unavailable")
	ErrUnknownGame     = errors.New("unknown game")
	ErrSessionOver     = errors.New("session is over")
	ErrUnknownGlyph    = errors.New("glyph is not one of the options")
)

// Kind names a game in the catalog
type Kind string

const (
	KindHatch  Kind = "hatch"
	KindMatch  Kind = "match"
	KindFeast  Kind = "feast"
	KindRemedy Kind = "remedy"
)

// Game describes one game: which needs it feeds and how it is sized
type Game struct {
	Kind           Kind
	Title          string
	Primary        pet.NeedKind // Gains RewardPerWin per round won
	Secondary      pet.NeedKind // Loses PenaltyPerFail per miss
	BaseRounds     int
	FailsToLose    int // Zero means one fail per round
	Teaching       bool
	RewardPerWin   float64
	PenaltyPerFail float64
}

// Hatches reports whether winning this game hatches an egg
func (s Game) Hatches() bool { return s.Kind == KindHatch }

// Available reports whether the pet can start this game right now
func (s Game) Available(p *pet.Pet) error {
	switch {
	case p.Sleeping:
		return fmt.Errorf("%w: %s is asleep", ErrGameUnavailable, p.Name)
	case p.Level == pet.LevelEgg && !s.Hatches():
		return fmt.Errorf("%w: %s has not hatched", ErrGameUnavailable, p.Name)
	case p.Level != pet.LevelEgg && s.Hatches():
		return fmt.Errorf("%w: %s already hatched", ErrGameUnavailable, p.Name)
	}
	return nil
}

// Catalog is the ordered list of games offered
type Catalog []Game

// DefaultCatalog returns the stock games
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Kind:       KindHatch,
			Title:      "Crack the shell",
			Primary:    pet.Energy,
			Secondary:  pet.Energy,
			BaseRounds: 3,
		},
		{
			Kind:           KindMatch,
			Title:          "Glyph match",
			Primary:        pet.Joy,
			Secondary:      pet.Energy,
			BaseRounds:     4,
			Teaching:       true,
			RewardPerWin:   10,
			PenaltyPerFail: 5,
		},
		{
			Kind:           KindFeast,
			Title:          "Feast of sounds",
			Primary:        pet.Hunger,
			Secondary:      pet.Joy,
			BaseRounds:     4,
			RewardPerWin:   12,
			PenaltyPerFail: 4,
		},
		{
			Kind:           KindRemedy,
			Title:          "Healer's remedy",
			Primary:        pet.Health,
			Secondary:      pet.Energy,
			BaseRounds:     3,
			FailsToLose:    2,
			RewardPerWin:   15,
			PenaltyPerFail: 8,
		},
	}
}

// Lookup finds a game by kind
func (c Catalog) Lookup(kind Kind) (Game, error) {
	for _, s := range c {
		if s.Kind == kind {
			return s, nil
		}
	}
	return Game{}, fmt.Errorf("%w: %q", ErrUnknownGame, kind)
}

// Available lists the games the pet can start right now
func (c Catalog) Available(p *pet.Pet) []Game {
	var out []Game
	for _, s := range c {
		if s.Available(p) == nil {
			out = append(out, s)
		}
	}
	return out
}

// Model is the sizing of one session
type Model struct {
	BaseLevel   int
	Buttons     int
	Rounds      int
	FailsToLose int
}

// NewModel sizes a game for a base level.
// Buttons never exceed the glyph set so every option can be distinct.
func NewModel(baseLevel int, s Game) Model {
	m := Model{
		BaseLevel: baseLevel,
		Buttons:   min((baseLevel+1)*2, len(pet.Glyphs)),
		Rounds:    s.BaseRounds + baseLevel,
	}
	m.FailsToLose = m.Rounds
	if s.FailsToLose > 0 {
		m.FailsToLose = s.FailsToLose
	}
	return m
}
