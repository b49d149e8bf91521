package pet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Store persists opaque pet snapshots keyed by pet name
type Store interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

// Quarantiner is a Store that can keep an unreadable save aside before
// a fresh pet takes its name
type Quarantiner interface {
	Quarantine(ctx context.Context, name string, data []byte) error
}

// NeedState is the persisted part of a need
type NeedState struct {
	Current      float64 `json:"current"`
	RandomOffset float64 `json:"random_offset"`
	Critical     bool    `json:"critical"`
	Alarmed      bool    `json:"alarmed"`
}

// GlyphState is the persisted part of a memory record
type GlyphState struct {
	MemoryLevel    MemoryLevel `json:"memory_level"`
	CorrectGuesses int         `json:"correct_guesses"`
	WrongGuesses   int         `json:"wrong_guesses"`
}

// Snapshot is the whole pet as written at suspend
type Snapshot struct {
	Name           string                `json:"name"`
	Unlocked       bool                  `json:"unlocked"`
	EvolutionLevel EvolutionLevel        `json:"evolution_level"`
	Sleeping       bool                  `json:"sleeping"`
	Evolving       bool                  `json:"evolving"`
	BirthTime      time.Time             `json:"birth_time"`
	LastSeen       time.Time             `json:"last_seen"`
	EvolutionCalls int                   `json:"evolution_calls"`
	SickCount      int                   `json:"sick_count"`
	Needs          map[string]NeedState  `json:"needs"`
	Glyphs         map[string]GlyphState `json:"glyphs"`
}

// Snapshot captures the persisted fields
func (p *Pet) Snapshot() Snapshot {
	s := Snapshot{
		Name:           p.Name,
		Unlocked:       p.Unlocked,
		EvolutionLevel: p.Level,
		Sleeping:       p.Sleeping,
		Evolving:       p.Evolving,
		BirthTime:      p.BirthTime,
		LastSeen:       p.LastSeen,
		EvolutionCalls: p.EvolutionCalls,
		SickCount:      p.SickCount,
		Needs:          make(map[string]NeedState, NeedCount),
		Glyphs:         make(map[string]GlyphState, len(p.glyphs)),
	}
	for _, n := range p.needs {
		s.Needs[n.Kind.String()] = NeedState{
			Current:      n.Current,
			RandomOffset: n.RandomOffset,
			Critical:     n.critical,
			Alarmed:      n.alarmed,
		}
	}
	for _, r := range p.glyphs {
		s.Glyphs[r.Glyph.Name] = GlyphState{
			MemoryLevel:    r.Level,
			CorrectGuesses: r.CorrectGuesses,
			WrongGuesses:   r.WrongGuesses,
		}
	}
	return s
}

// Suspend stamps LastSeen and encodes the snapshot
func (p *Pet) Suspend(now time.Time) ([]byte, error) {
	p.LastSeen = now
	data, err := json.MarshalIndent(p.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Restore rebuilds a pet from snapshot bytes. Each field is decoded on its
// own; a malformed field is logged and the fresh-pet default kept, so one bad
// value never loses the rest of the save.
func Restore(data []byte, s Settings) (*Pet, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	p := NewPet(DefaultPetName, s)
	restoreField(fields, "name", &p.Name)
	restoreField(fields, "unlocked", &p.Unlocked)
	restoreField(fields, "evolution_level", &p.Level)
	restoreField(fields, "sleeping", &p.Sleeping)
	restoreField(fields, "evolving", &p.Evolving)
	restoreField(fields, "birth_time", &p.BirthTime)
	restoreField(fields, "last_seen", &p.LastSeen)
	restoreField(fields, "evolution_calls", &p.EvolutionCalls)
	restoreField(fields, "sick_count", &p.SickCount)
	if p.EvolutionCalls < 0 {
		p.EvolutionCalls = 0
	}
	if p.Level < LevelEgg || p.Level > LevelGod {
		log.Printf("Discarding out of range evolution level %d", int(p.Level))
		p.Level = LevelEgg
	}
	if p.Level == LevelEgg {
		p.Sleeping = false
		p.Evolving = false
	}

	// Factors first: they re-roll offsets, which the save then overrides
	p.applyFactors()

	var needs map[string]json.RawMessage
	if restoreField(fields, "needs", &needs) {
		for name, raw := range needs {
			kind, err := ParseNeedKind(name)
			if err != nil {
				log.Printf("Discarding unknown need %q", name)
				continue
			}
			restoreNeed(p.needs[kind], raw)
		}
	}

	var glyphs map[string]json.RawMessage
	if restoreField(fields, "glyphs", &glyphs) {
		for name, raw := range glyphs {
			r, ok := p.Glyph(name)
			if !ok {
				log.Printf("Discarding unknown glyph %q", name)
				continue
			}
			restoreGlyph(r, raw)
		}
	}
	return p, nil
}

func restoreNeed(n *Need, raw json.RawMessage) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		log.Printf("Discarding malformed %s need: %v", n.Kind, err)
		return
	}
	current, offset := n.Current, n.RandomOffset
	if restoreField(fields, "current", &current) && !inRange(current) {
		log.Printf("Discarding out of range %s value %.2f", n.Kind, current)
		current = n.Current
	}
	restoreField(fields, "random_offset", &offset)
	n.restore(current, offset)

	// Saves without the latch keep the one derived from the value
	var critical, alarmed bool
	if restoreField(fields, "critical", &critical) && restoreField(fields, "alarmed", &alarmed) {
		n.restoreLatch(critical, alarmed)
	}
}

func restoreGlyph(r *MemoryRecord, raw json.RawMessage) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		log.Printf("Discarding malformed glyph %s: %v", r.Glyph.Name, err)
		return
	}
	var level MemoryLevel
	if restoreField(fields, "memory_level", &level) && level >= MemoryNew && level <= MemoryMemorized {
		r.Level = level
	}
	var correct, wrong int
	if restoreField(fields, "correct_guesses", &correct) && correct >= 0 && correct <= MemoryLevelCount {
		r.CorrectGuesses = correct
	}
	if restoreField(fields, "wrong_guesses", &wrong) && wrong >= 0 && wrong <= MemoryLevelCount {
		r.WrongGuesses = wrong
	}
}

// restoreField decodes fields[key] into dst, leaving dst alone on failure
func restoreField[T any](fields map[string]json.RawMessage, key string, dst *T) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Printf("Discarding malformed %s: %v", key, err)
		return false
	}
	*dst = v
	return true
}

// LoadPet loads a pet by name, or creates a new one if none is saved, then
// reconciles the time since it was last seen
func LoadPet(ctx context.Context, store Store, name string, s Settings, now time.Time) (*Pet, error) {
	data, err := store.Load(ctx, name)
	if errors.Is(err, ErrNotFound) {
		p := NewPet(name, s)
		p.LastSeen = now
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	p, err := Restore(data, s)
	if err != nil {
		log.Printf("Error loading state: %v. Creating new pet.", err)
		if q, ok := store.(Quarantiner); ok {
			if err := q.Quarantine(ctx, name, data); err != nil {
				return nil, fmt.Errorf("keep unreadable save of %s: %w", name, err)
			}
		} else {
			log.Printf("Unreadable save of %s will be overwritten", name)
		}
		p = NewPet(name, s)
		p.LastSeen = now
		return p, nil
	}
	p.Name = name
	p.CatchUp(now)
	return p, nil
}

// SavePet suspends the pet and writes it to the store
func SavePet(ctx context.Context, store Store, p *Pet, now time.Time) error {
	data, err := p.Suspend(now)
	if err != nil {
		return err
	}
	if err := store.Save(ctx, p.Name, data); err != nil {
		return fmt.Errorf("save %s: %w", p.Name, err)
	}
	return nil
}

// FileStore keeps one JSON file per pet in a directory
type FileStore struct {
	Dir string
}

// DefaultFileDir returns ~/.config/glyphpet
func DefaultFileDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".config", "glyphpet"), nil
}

// NewFileStore creates the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.Dir, name+".json"), nil
}

// Save writes the snapshot atomically via a temp file rename
func (s *FileStore) Save(_ context.Context, name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	return data, nil
}

// Quarantine writes data next to the save as <name>.json.bad, replacing
// any earlier one
func (s *FileStore) Quarantine(_ context.Context, name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	bad := path + ".bad"
	if err := os.WriteFile(bad, data, 0644); err != nil {
		return fmt.Errorf("write unreadable state: %w", err)
	}
	log.Printf("Kept unreadable save of %s at %s", name, bad)
	return nil
}

func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Delete(_ context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("remove state: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
