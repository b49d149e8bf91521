package minigame

import (
	"fmt"
	"log"
	"math/rand"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"

	"glyphpet/internal/pet"
)

// State is where a session stands
type State int

const (
	StatePlaying State = iota
	StateWon
	StateLost
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Round is one target glyph and the buttons offered for it
type Round struct {
	Number  int
	Target  pet.Glyph
	Options []pet.Glyph
	Hint    bool // Target is being taught: show its name and sound
}

// Has reports whether symbol is one of the options
func (r Round) Has(symbol string) bool {
	return slices.ContainsFunc(r.Options, func(g pet.Glyph) bool { return g.Symbol == symbol })
}

// Summary is the record of a closed session
type Summary struct {
	ID       string    `json:"id"`
	Pet      string    `json:"pet"`
	Game     Kind      `json:"game"`
	Won      bool      `json:"won"`
	Wins     int       `json:"wins"`
	Fails    int       `json:"fails"`
	ClosedAt time.Time `json:"closed_at"`
}

// Session is one play of a game. Targets are drawn without replacement
// until the glyph set is exhausted, then the set is refilled.
type Session struct {
	ID    string
	Game  Game
	Model Model

	p         *pet.Pet
	rng       *rand.Rand
	round     Round
	remaining []*pet.MemoryRecord
	taught    bool
	wins      int
	fails     int
	state     State
	closed    bool
}

// NewSession starts a game for the pet at the given difficulty.
// A nil rng is seeded from the clock.
func NewSession(p *pet.Pet, g Game, d pet.Difficulty, rng *rand.Rand) (*Session, error) {
	if err := g.Available(p); err != nil {
		return nil, err
	}
	base, err := p.CalculateBaseLevel(d)
	if err != nil {
		return nil, fmt.Errorf("size %s: %w", g.Kind, err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		ID:    ulid.MustNew(ulid.Timestamp(pet.TimeNow()), rng).String(),
		Game:  g,
		Model: NewModel(base, g),
		p:     p,
		rng:   rng,
	}
	s.nextRound()
	log.Printf("Started %s for %s (base %d, %d rounds, %d buttons)", g.Kind, p.Name, base, s.Model.Rounds, s.Model.Buttons)
	return s, nil
}

func (s *Session) Round() Round { return s.round }
func (s *Session) State() State { return s.state }
func (s *Session) Wins() int { return s.wins }
func (s *Session) Fails() int { return s.fails }
func (s *Session) Closed() bool { return s.closed }
func (s *Session) Pet() *pet.Pet { return s.p }

// Guess answers the current round. A correct answer moves to the next
// round; a miss keeps the round and counts against the fail tolerance.
func (s *Session) Guess(symbol string) (State, error) {
	if s.closed || s.state != StatePlaying {
		return s.state, ErrSessionOver
	}
	if !s.round.Has(symbol) {
		return s.state, fmt.Errorf("%w: %q", ErrUnknownGlyph, symbol)
	}

	target := s.round.Target.Symbol
	correct := symbol == target
	if err := s.p.GuessGlyph(target, correct); err != nil {
		return s.state, err
	}

	if correct {
		s.wins++
		if s.wins >= s.Model.Rounds {
			s.state = StateWon
		} else {
			s.nextRound()
		}
	} else {
		s.fails++
		if s.fails >= s.Model.FailsToLose {
			s.state = StateLost
		}
	}
	return s.state, nil
}

// Close settles the session against the pet. Closing before the end
// counts as not won but still applies what was earned and lost.
func (s *Session) Close() (Summary, error) {
	if s.closed {
		return Summary{}, ErrSessionOver
	}
	s.closed = true
	won := s.state == StateWon

	s.p.SettleGame(pet.GameResult{
		Session:   s.ID,
		Primary:   s.Game.Primary,
		Secondary: s.Game.Secondary,
		Reward:    float64(s.wins) * s.Game.RewardPerWin,
		Penalty:   float64(s.fails) * s.Game.PenaltyPerFail,
		Won:       won,
		Hatches:   s.Game.Hatches(),
	})
	log.Printf("Closed %s session %s for %s: %s (%d wins, %d fails)", s.Game.Kind, s.ID, s.p.Name, s.state, s.wins, s.fails)

	return Summary{
		ID:       s.ID,
		Pet:      s.p.Name,
		Game:     s.Game.Kind,
		Won:      won,
		Wins:     s.wins,
		Fails:    s.fails,
		ClosedAt: pet.TimeNow(),
	}, nil
}

func (s *Session) nextRound() {
	if len(s.remaining) == 0 {
		s.remaining = slices.Clone(s.p.Glyphs())
	}
	fresh, other := partition(s.remaining)

	var target *pet.MemoryRecord
	hint := false
	switch {
	case s.Game.Teaching && !s.taught && len(fresh) > 0:
		target = fresh[s.rng.Intn(len(fresh))]
		s.taught = true
		hint = true
	case len(other) > 0:
		target = other[s.rng.Intn(len(other))]
	default:
		target = fresh[s.rng.Intn(len(fresh))]
	}
	s.remaining = slices.DeleteFunc(s.remaining, func(r *pet.MemoryRecord) bool { return r == target })

	s.round = Round{
		Number:  s.wins + 1,
		Target:  target.Glyph,
		Options: s.options(target.Glyph),
		Hint:    hint,
	}
}

// options returns the target plus distinct distractors, shuffled
func (s *Session) options(target pet.Glyph) []pet.Glyph {
	all := s.p.Glyphs()
	opts := make([]pet.Glyph, 0, s.Model.Buttons)
	opts = append(opts, target)
	for _, i := range s.rng.Perm(len(all)) {
		if len(opts) == s.Model.Buttons {
			break
		}
		if g := all[i].Glyph; g.Symbol != target.Symbol {
			opts = append(opts, g)
		}
	}
	s.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}

// partition splits records into those never learned and everything else
func partition(records []*pet.MemoryRecord) (fresh, other []*pet.MemoryRecord) {
	for _, r := range records {
		if r.Level == pet.MemoryNew {
			fresh = append(fresh, r)
		} else {
			other = append(other, r)
		}
	}
	return fresh, other
}
