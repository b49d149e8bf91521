package ui

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"glyphpet/internal/minigame"
	"glyphpet/internal/pet"
)

const (
	tickInterval = time.Second
	saveInterval = time.Minute
	messageTTL   = 3 * time.Second
)

// SessionLogger records closed minigame sessions
type SessionLogger interface {
	LogSession(ctx context.Context, s minigame.Summary) error
}

// Screen is the view currently shown
type Screen int

const (
	ScreenMain Screen = iota
	ScreenGames
	ScreenGame
	ScreenGlyphs
)

// Options wires a Model to its pet and collaborators
type Options struct {
	Pet        *pet.Pet
	Store      pet.Store
	Sessions   SessionLogger // Optional
	Catalog    minigame.Catalog
	Difficulty pet.Difficulty
	Rand       *rand.Rand // Optional; seeded from the clock when nil
}

// inbox collects pet events between updates. It is shared by pointer so
// copies of the Model made by Bubble Tea see the same queue.
type inbox struct {
	events []pet.Event
}

// Model represents the game state
type Model struct {
	Pet            *pet.Pet
	Screen         Screen
	Choice         int
	Session        *minigame.Session
	Quitting       bool
	Message        string
	MessageExpires time.Time
	Animation      Animation

	store      pet.Store
	sessions   SessionLogger
	catalog    minigame.Catalog
	difficulty pet.Difficulty
	rng        *rand.Rand
	inbox      *inbox
	lastTick   time.Time
	lastSave   time.Time
}

type tickMsg time.Time
type animTickMsg struct {
	started time.Time
}

// NewModel creates a new game model and subscribes it to the pet's events
func NewModel(o Options) Model {
	in := &inbox{}
	o.Pet.Subscribe(func(e pet.Event) {
		if e.Kind != pet.EventNeedUpdated {
			in.events = append(in.events, e)
		}
	})
	if o.Catalog == nil {
		o.Catalog = minigame.DefaultCatalog()
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	now := pet.TimeNow()
	return Model{
		Pet:        o.Pet,
		store:      o.Store,
		sessions:   o.Sessions,
		catalog:    o.Catalog,
		difficulty: o.Difficulty,
		rng:        o.Rand,
		inbox:      in,
		lastTick:   now,
		lastSave:   now,
	}
}

// Run starts the interactive game
func Run(o Options) error {
	_, err := tea.NewProgram(NewModel(o), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func animTick(start time.Time) tea.Cmd {
	return tea.Tick(AnimationFrameDuration, func(t time.Time) tea.Msg {
		return animTickMsg{started: start}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m.quit()
		}
		// While an animation is playing, ignore inputs except quit keys
		if m.Animation.Type != AnimNone {
			if key == "q" {
				return m.quit()
			}
			return m, nil
		}

		switch m.Screen {
		case ScreenGame:
			return m.updateGame(key)
		case ScreenGames:
			return m.updateGames(key)
		case ScreenGlyphs:
			switch key {
			case "esc", "q", "enter", " ", "g":
				m.Screen = ScreenMain
			}
			return m, nil
		default:
			return m.updateMain(key)
		}

	case tickMsg:
		t := time.Time(msg)
		m.Pet.Tick(t.Sub(m.lastTick))
		m.lastTick = t
		if t.Sub(m.lastSave) >= saveInterval {
			m.save()
			m.lastSave = t
		}
		return m, tea.Batch(tick(), m.drainEvents())

	case animTickMsg:
		// Drop ticks that belong to an older animation (e.g., if a new one started)
		if m.Animation.Type == AnimNone || !m.Animation.StartTime.Equal(msg.started) {
			return m, nil
		}

		m.Animation.Frame++
		if IsAnimationComplete(m.Animation) {
			m.Animation = Animation{}
			return m, nil
		}

		return m, animTick(m.Animation.StartTime)
	}

	return m, nil
}

func (m Model) mainChoices() []string {
	sleep := "Sleep"
	if m.Pet.Sleeping {
		sleep = "Wake up"
	}
	return []string{"Play a game", sleep, "Glyphs", "Quit"}
}

func (m Model) updateMain(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m.quit()
	case "up", "k":
		if m.Choice > 0 {
			m.Choice--
		}
	case "down", "j":
		if m.Choice < len(m.mainChoices())-1 {
			m.Choice++
		}
	case "s":
		return m, m.toggleSleep()
	case "g":
		m.Screen = ScreenGlyphs
	case "enter", " ":
		switch m.Choice {
		case 0:
			if m.Pet.Sleeping {
				m.setMessage("😴 Shh... wake me up first")
				return m, nil
			}
			m.Screen = ScreenGames
			m.Choice = 0
		case 1:
			return m, m.toggleSleep()
		case 2:
			m.Screen = ScreenGlyphs
		case 3:
			return m.quit()
		}
	}
	return m, nil
}

func (m Model) updateGames(key string) (tea.Model, tea.Cmd) {
	games := m.catalog.Available(m.Pet)
	switch key {
	case "esc", "q":
		m.Screen = ScreenMain
		m.Choice = 0
	case "up", "k":
		if m.Choice > 0 {
			m.Choice--
		}
	case "down", "j":
		if m.Choice < len(games)-1 {
			m.Choice++
		}
	case "enter", " ":
		if m.Choice >= len(games) {
			return m, nil
		}
		sess, err := minigame.NewSession(m.Pet, games[m.Choice], m.difficulty, m.rng)
		if err != nil {
			m.setMessage(fmt.Sprintf("🚫 %v", err))
			return m, nil
		}
		m.Session = sess
		m.Screen = ScreenGame
		m.Choice = 0
	}
	return m, nil
}

func (m Model) updateGame(key string) (tea.Model, tea.Cmd) {
	options := m.Session.Round().Options
	switch key {
	case "esc", "q":
		return m, m.finishGame()
	case "left", "h":
		if m.Choice > 0 {
			m.Choice--
		}
	case "right", "l":
		if m.Choice < len(options)-1 {
			m.Choice++
		}
	case "enter", " ":
		return m, m.guess(m.Choice)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return m, m.guess(int(key[0] - '1'))
	}
	return m, nil
}

func (m *Model) guess(i int) tea.Cmd {
	round := m.Session.Round()
	if i < 0 || i >= len(round.Options) {
		return nil
	}
	picked := round.Options[i]
	state, err := m.Session.Guess(picked.Symbol)
	if err != nil {
		m.setMessage(fmt.Sprintf("🚫 %v", err))
		return nil
	}
	if state != minigame.StatePlaying {
		return m.finishGame()
	}
	if picked.Symbol == round.Target.Symbol {
		m.setMessage(fmt.Sprintf("✔ %s is %s", picked.Symbol, picked.Name))
		m.Choice = 0
	} else {
		m.setMessage(fmt.Sprintf("✘ %s is %s", picked.Symbol, picked.Name))
	}
	return nil
}

// finishGame closes the running session, logs it and plays its outcome
func (m *Model) finishGame() tea.Cmd {
	wasEgg := m.Pet.Level == pet.LevelEgg
	sum, err := m.Session.Close()
	m.Session = nil
	m.Screen = ScreenMain
	m.Choice = 0
	if err != nil {
		log.Printf("Error closing session: %v", err)
		return nil
	}
	if m.sessions != nil {
		if err := m.sessions.LogSession(context.Background(), sum); err != nil {
			log.Printf("Error logging session: %v", err)
		}
	}
	m.save()

	cmd := m.drainEvents()
	switch {
	case wasEgg && m.Pet.Level != pet.LevelEgg:
		m.setMessage(fmt.Sprintf("🐣 %s hatched!", m.Pet.Name))
		cmd = m.startAnimation(AnimHatch)
	case sum.Won:
		m.setMessage(fmt.Sprintf("🎉 Won with %d right and %d wrong", sum.Wins, sum.Fails))
		cmd = m.startAnimation(AnimWin)
	default:
		m.setMessage(fmt.Sprintf("😿 %d right, %d wrong. Try again!", sum.Wins, sum.Fails))
		cmd = m.startAnimation(AnimLose)
	}
	return cmd
}

func (m *Model) toggleSleep() tea.Cmd {
	if m.Pet.Level == pet.LevelEgg {
		m.setMessage("🥚 Eggs don't sleep")
		return nil
	}
	var cmd tea.Cmd
	if m.Pet.Sleeping {
		m.Pet.WakeUp()
	} else {
		m.Pet.Sleep()
		cmd = m.startAnimation(AnimSleep)
	}
	m.save()
	if evolved := m.drainEvents(); evolved != nil {
		cmd = evolved
	}
	return cmd
}

// drainEvents turns queued pet events into messages and animations
func (m *Model) drainEvents() tea.Cmd {
	events := m.inbox.events
	m.inbox.events = nil

	var cmd tea.Cmd
	for _, e := range events {
		switch e.Kind {
		case pet.EventEvolved:
			m.setMessage(fmt.Sprintf("✨ %s evolved into a %s!", m.Pet.Name, e.Level))
			cmd = m.startAnimation(AnimEvolve)
		case pet.EventWokeUp:
			if m.Animation.Type == AnimNone {
				m.setMessage("☀️ Good morning!")
			}
		case pet.EventNeedCriticalChanged:
			if e.Critical {
				m.setMessage(fmt.Sprintf("⚠️ %s is critical!", e.Need.Title()))
			} else {
				m.setMessage(fmt.Sprintf("💚 %s is recovering", e.Need.Title()))
			}
		}
	}
	return cmd
}

func (m *Model) save() {
	if m.store == nil {
		return
	}
	if err := pet.SavePet(context.Background(), m.store, m.Pet, pet.TimeNow()); err != nil {
		log.Printf("Error saving state: %v", err)
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.Session != nil {
		m.finishGame()
	}
	m.Animation = Animation{}
	m.save()
	m.Quitting = true
	return m, tea.Quit
}

func (m *Model) setMessage(msg string) {
	m.Message = msg
	m.MessageExpires = pet.TimeNow().Add(messageTTL)
}

func (m *Model) startAnimation(animType AnimationType) tea.Cmd {
	m.Animation = Animation{
		Type:      animType,
		Frame:     0,
		StartTime: pet.TimeNow(),
	}
	return animTick(m.Animation.StartTime)
}
