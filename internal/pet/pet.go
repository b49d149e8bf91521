package pet

import (
	"log"
	"math/rand"
	"time"
)

// Testable time and random functions
var (
	TimeNow     = func() time.Time { return time.Now().UTC() }
	RandFloat64 = rand.Float64
)

// Pet is the aggregate root: needs, glyph memory and the evolution ladder.
// All mutation is synchronous; events raised by a need are handled by the
// pet before the call that raised them returns.
type Pet struct {
	Name           string
	Unlocked       bool
	Level          EvolutionLevel
	Sleeping       bool
	Evolving       bool // Incubating until the next WakeUp with enough energy
	BirthTime      time.Time
	LastSeen       time.Time
	EvolutionCalls int
	SickCount      int

	needs    [NeedCount]*Need
	glyphs   []*MemoryRecord
	settings Settings
	bus      Bus
	elapsed  time.Duration
}

// NewPet creates an unhatched pet
func NewPet(name string, s Settings) *Pet {
	if name == "" {
		name = DefaultPetName
	}
	p := &Pet{
		Name:     name,
		Unlocked: true,
		Level:    LevelEgg,
		LastSeen: TimeNow(),
		glyphs:   newMemoryRecords(),
		settings: s,
	}
	for _, kind := range AllNeeds() {
		p.needs[kind] = newNeed(kind, s.Needs[kind], p.handleNeedEvent)
	}
	p.applyFactors()
	log.Printf("Created new pet: %s", p.Name)
	return p
}

// Settings returns the tuning the pet was built with
func (p *Pet) Settings() Settings { return p.settings }

// Need returns the track for kind
func (p *Pet) Need(kind NeedKind) *Need { return p.needs[kind] }

// Needs returns all four tracks in fixed order
func (p *Pet) Needs() []*Need { return p.needs[:] }

// Glyphs returns the memory records in catalog order
func (p *Pet) Glyphs() []*MemoryRecord { return p.glyphs }

// Glyph looks a record up by symbol or name
func (p *Pet) Glyph(key string) (*MemoryRecord, bool) {
	for _, r := range p.glyphs {
		if r.Glyph.Symbol == key || r.Glyph.Name == key {
			return r, true
		}
	}
	return nil, false
}


// Subscribe registers a listener for pet events
func (p *Pet) Subscribe(l Listener) SubscriptionID { return p.bus.Subscribe(l) }

// Unsubscribe removes a listener
func (p *Pet) Unsubscribe(id SubscriptionID) { p.bus.Unsubscribe(id) }

// Tick advances the passive simulation by a real-time delta scaled by game speed.
// One decay step is applied per full DecayStep of scaled time.
func (p *Pet) Tick(delta time.Duration) {
	if delta <= 0 {
		return
	}
	p.elapsed += time.Duration(float64(delta) * p.settings.GameSpeed)
	for p.elapsed >= DecayStep {
		p.elapsed -= DecayStep
		p.DecreaseNeeds(1)
	}
}

// DecreaseNeeds applies minutes of passive change in one linear step.
// Energy grows instead while asleep; everything is frozen inside the egg.
func (p *Pet) DecreaseNeeds(minutes float64) {
	if p.Level == LevelEgg || minutes <= 0 {
		return
	}
	for _, n := range p.needs {
		if p.Sleeping && n.Kind == Energy {
			n.Increase(minutes)
		} else {
			n.Decrease(minutes)
		}
	}
}

// IncreaseLevel moves the pet one stage up the ladder
func (p *Pet) IncreaseLevel() {
	if p.Level >= LevelGod {
		return
	}
	p.Evolving = false
	p.EvolutionCalls = 0

	if p.Level == LevelEgg {
		p.BirthTime = TimeNow()
	} else {
		p.bus.publish(Event{Kind: EventEvolved, Level: p.Level + 1})
	}
	p.Level++

	if p.Level == LevelBaby {
		for _, n := range p.needs {
			n.Reset()
		}
	}
	p.applyFactors()
	log.Printf("Pet %s evolved to %s", p.Name, p.Level)
}

// CheckEvolution starts incubation once enough care responses were counted
func (p *Pet) CheckEvolution() {
	if p.Level >= LevelGod {
		return
	}
	if p.Evolving || p.EvolutionCalls < p.settings.EvolutionQuota {
		return
	}
	p.Evolving = true
	p.Sleeping = true
	p.needs[Energy].drainTo(HoldingEnergy)
	p.applyFactors()
	log.Printf("Pet %s is incubating (%d care responses)", p.Name, p.EvolutionCalls)
}

// Sleep puts the pet to sleep; an incubating pet resumes incubation
func (p *Pet) Sleep() {
	if p.Sleeping || p.Level == LevelEgg {
		return
	}
	p.Sleeping = true
	p.applyFactors()
	log.Printf("Pet %s fell asleep", p.Name)
}

// WakeUp wakes the pet. An incubating pet with recovered energy evolves;
// otherwise normal factors come back.
func (p *Pet) WakeUp() {
	if !p.Sleeping {
		return
	}
	p.Sleeping = false
	if p.Evolving && p.needs[Energy].Current > p.needs[Energy].SatisfiedLimit {
		p.IncreaseLevel()
	} else {
		p.applyFactors()
	}
	p.bus.publish(Event{Kind: EventWokeUp})
	log.Printf("Pet %s woke up (energy %.1f)", p.Name, p.needs[Energy].Current)
}

// Reset turns the pet back into an egg and forgets every glyph
func (p *Pet) Reset() {
	p.Level = LevelEgg
	p.Sleeping = false
	p.Evolving = false
	p.EvolutionCalls = 0
	p.SickCount = 0
	p.BirthTime = time.Time{}
	p.elapsed = 0
	for _, n := range p.needs {
		n.Reset()
	}
	for _, r := range p.glyphs {
		r.ResetLevel()
	}
	p.applyFactors()
	log.Printf("Pet %s was reset", p.Name)
}

// GuessGlyph records a guess against a glyph's memory record
func (p *Pet) GuessGlyph(key string, correct bool) error {
	r, ok := p.Glyph(key)
	if !ok {
		return ErrUnknownGlyph
	}
	if correct {
		if r.CorrectlyGuessed() {
			log.Printf("Glyph %s advanced to %s", r.Glyph.Name, r.Level)
		}
		p.bus.publish(Event{Kind: EventGlyphGuessedCorrectly, Glyph: r.Glyph.Symbol})
		return nil
	}
	if r.WronglyGuessed() {
		log.Printf("Glyph %s dropped to %s", r.Glyph.Name, r.Level)
	}
	p.bus.publish(Event{Kind: EventGlyphGuessedWrongly, Glyph: r.Glyph.Symbol})
	return nil
}

// GameResult is what a finished minigame reports back
type GameResult struct {
	Session   string
	Primary   NeedKind
	Secondary NeedKind
	Reward    float64 // Applied to Primary
	Penalty   float64 // Applied to Secondary
	Won       bool
	Hatches   bool // Winning hatches an egg
}

// SettleGame applies a minigame's reward deltas and announces the outcome
func (p *Pet) SettleGame(r GameResult) {
	if r.Reward > 0 {
		p.needs[r.Primary].Increase(r.Reward)
	}
	if r.Penalty > 0 {
		p.needs[r.Secondary].Decrease(r.Penalty)
	}
	if r.Won {
		p.bus.publish(Event{Kind: EventGameWon, Need: r.Primary})
		if r.Hatches && p.Level == LevelEgg {
			p.IncreaseLevel()
		}
	}
	p.bus.publish(Event{Kind: EventGameClosed, Session: r.Session})
}

func (p *Pet) handleNeedEvent(e Event) {
	p.bus.publish(e)
	if e.Kind == EventNeedCriticalChanged {
		p.onNeedCritical(e.Need, e.Critical)
	}
}

// onNeedCritical counts each recovered critical episode as one care response
func (p *Pet) onNeedCritical(kind NeedKind, critical bool) {
	if critical {
		if kind == Health {
			p.SickCount++
		}
		return
	}
	// A god has nowhere left to evolve
	if p.Evolving || p.Level >= LevelGod {
		return
	}
	p.EvolutionCalls++
	p.CheckEvolution()
}

// applyFactors derives every need's factors from the current state
func (p *Pet) applyFactors() {
	calls := min(p.EvolutionCalls, p.settings.EvolutionQuota)
	for _, n := range p.needs {
		base := p.settings.Needs[n.Kind]
		switch {
		case p.Level == LevelEgg:
			n.SetupValues(0, 0, 0, calls)
		case p.Evolving && p.Sleeping:
			if n.Kind == Energy {
				n.SetupValues(base.UpFactor*HoldingMultiplier, base.DownFactor*HoldingMultiplier, 0, calls)
			} else {
				n.SetupValues(0, 0, 0, calls)
			}
		case p.Sleeping:
			if n.Kind == Energy {
				n.SetupValues(p.settings.SleepEnergy, 0, 0, calls)
			} else {
				n.SetupValues(0, 1, 0, calls)
			}
		default:
			n.SetupValues(base.UpFactor, base.DownFactor, p.levelIncrement(), calls)
		}
	}
}

func (p *Pet) levelIncrement() float64 {
	if p.Level <= LevelBaby {
		return 0
	}
	return p.settings.LevelIncrement * float64(p.Level-LevelBaby)
}
