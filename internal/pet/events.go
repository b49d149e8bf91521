package pet

// EventKind identifies what happened to the pet
type EventKind int

const (
	EventNone EventKind = iota
	EventNeedUpdated
	EventNeedCriticalChanged
	EventEvolved
	EventWokeUp
	EventGlyphGuessedCorrectly
	EventGlyphGuessedWrongly
	EventGameWon
	EventGameClosed
)

var eventNames = map[EventKind]string{
	EventNone:                  "none",
	EventNeedUpdated:           "need_updated",
	EventNeedCriticalChanged:   "need_critical_changed",
	EventEvolved:               "evolved",
	EventWokeUp:                "woke_up",
	EventGlyphGuessedCorrectly: "glyph_guessed_correctly",
	EventGlyphGuessedWrongly:   "glyph_guessed_wrongly",
	EventGameWon:               "game_won",
	EventGameClosed:            "game_closed",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is delivered synchronously to subscribers. Only the fields relevant
// to Kind are set.
type Event struct {
	Kind     EventKind
	Need     NeedKind
	Sign     int            // EventNeedUpdated
	Critical bool           // EventNeedCriticalChanged
	Level    EvolutionLevel // EventEvolved: the level being entered
	Glyph    string         // Glyph events: the symbol
	Session  string         // EventGameClosed
}

// Listener receives pet events
type Listener func(Event)

// SubscriptionID identifies a registered listener
type SubscriptionID int

type subscription struct {
	id       SubscriptionID
	listener Listener
}

// Bus fans events out to listeners in registration order
type Bus struct {
	next SubscriptionID
	subs []subscription
}

// Subscribe registers a listener
func (b *Bus) Subscribe(l Listener) SubscriptionID {
	b.next++
	b.subs = append(b.subs, subscription{id: b.next, listener: l})
	return b.next
}

// Unsubscribe removes a listener; unknown ids are ignored
func (b *Bus) Unsubscribe(id SubscriptionID) {
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *Bus) publish(e Event) {
	// Listeners may unsubscribe while being notified
	subs := b.subs
	for _, s := range subs {
		s.listener(e)
	}
}
