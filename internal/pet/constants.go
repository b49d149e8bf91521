package pet

import (
	"fmt"
	"strings"
	"time"
)

// Game constants
const (
	DefaultPetName    = "Ankhy"
	MaxNeed           = 100.0
	MinNeed           = 0.0
	DecayStep         = 60 * time.Second // Scaled time per passive decay step
	MaxRandomOffset   = 0.13             // Jitter per evolution call, applied to both factors
	HoldingEnergy     = 10.0             // Energy is drained to this when incubating
	HoldingMultiplier = 2.0              // Energy factors while incubating

	// Default need limits and factors
	DefaultInitialNeed     = 80.0
	DefaultCriticalLimit   = 20.0
	DefaultSatisfiedLimit  = 80.0
	DefaultUpFactor        = 1.0
	DefaultDownFactor      = 0.1
	DefaultLevelIncrement  = 0.05 // Added to the down factor for each level above Baby
	DefaultSleepEnergyRate = 0.5  // Energy gained per minute asleep

	// Bounds enforced on configured limits
	MinCriticalLimit  = 10.0
	MaxCriticalLimit  = 30.0
	MinSatisfiedLimit = 70.0
	MaxSatisfiedLimit = 90.0

	// Notification silence window (local hours)
	DefaultSilenceStart = 22
	DefaultSilenceEnd   = 8

	// Status emojis
	StatusEmojiEgg      = "🥚"
	StatusEmojiHappy    = "😸"
	StatusEmojiSleeping = "😴"
	StatusEmojiEvolving = "✨"
	StatusEmojiHungry   = "🙀"
	StatusEmojiSick     = "🤢"
	StatusEmojiSad      = "😿"
	StatusEmojiTired    = "😾"
)

// NeedKind identifies one of the pet's four needs
type NeedKind int

const (
	Hunger NeedKind = iota
	Health
	Joy
	Energy
)

// NeedCount is the number of needs every pet carries
const NeedCount = 4

var needNames = [NeedCount]string{"hunger", "health", "joy", "energy"}

func (k NeedKind) String() string {
	if k < 0 || int(k) >= NeedCount {
		return fmt.Sprintf("need(%d)", int(k))
	}
	return needNames[k]
}

// Title returns the capitalised display name
func (k NeedKind) Title() string {
	s := k.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// MarshalText encodes the need by name
func (k NeedKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= NeedCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNeed, int(k))
	}
	return []byte(needNames[k]), nil
}

// ParseNeedKind maps a need name back to its kind
func ParseNeedKind(s string) (NeedKind, error) {
	for i, name := range needNames {
		if strings.EqualFold(s, name) {
			return NeedKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNeed, s)
}

// AllNeeds lists the needs in their fixed order
func AllNeeds() []NeedKind {
	return []NeedKind{Hunger, Health, Joy, Energy}
}

// EvolutionLevel is the discrete growth stage of the pet
type EvolutionLevel int

const (
	LevelEgg EvolutionLevel = iota
	LevelBaby
	LevelKid
	LevelTeen
	LevelAdult
	LevelGod
)

// EvolutionLevelCount is the number of growth stages
const EvolutionLevelCount = 6

var levelNames = [EvolutionLevelCount]string{"Egg", "Baby", "Kid", "Teen", "Adult", "God"}

var levelEmojis = [EvolutionLevelCount]string{"🥚", "🐣", "🐥", "🐤", "🦅", "☀️"}

func (l EvolutionLevel) String() string {
	if l < 0 || int(l) >= EvolutionLevelCount {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// Emoji returns the form icon for the level
func (l EvolutionLevel) Emoji() string {
	if l < 0 || int(l) >= EvolutionLevelCount {
		return "❓"
	}
	return levelEmojis[l]
}

// MarshalText encodes the level by name
func (l EvolutionLevel) MarshalText() ([]byte, error) {
	if l < 0 || int(l) >= EvolutionLevelCount {
		return nil, fmt.Errorf("invalid evolution level %d", int(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText decodes a level name, rejecting anything unknown
func (l *EvolutionLevel) UnmarshalText(b []byte) error {
	for i, name := range levelNames {
		if strings.EqualFold(string(b), name) {
			*l = EvolutionLevel(i)
			return nil
		}
	}
	return fmt.Errorf("unknown evolution level %q", string(b))
}

// MemoryLevel is the Leitner rank of a glyph
type MemoryLevel int

const (
	MemoryNew MemoryLevel = iota
	MemorySeen
	MemoryUnknown
	MemoryKnown
	MemoryMemorized
)

// MemoryLevelCount is the number of memory ranks
const MemoryLevelCount = 5

var memoryNames = [MemoryLevelCount]string{"New", "Seen", "Unknown", "Known", "Memorized"}

func (m MemoryLevel) String() string {
	if m < 0 || int(m) >= MemoryLevelCount {
		return fmt.Sprintf("memory(%d)", int(m))
	}
	return memoryNames[m]
}

// MarshalText encodes the memory level by name
func (m MemoryLevel) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= MemoryLevelCount {
		return nil, fmt.Errorf("invalid memory level %d", int(m))
	}
	return []byte(memoryNames[m]), nil
}

// UnmarshalText decodes a memory level name
func (m *MemoryLevel) UnmarshalText(b []byte) error {
	for i, name := range memoryNames {
		if strings.EqualFold(string(b), name) {
			*m = MemoryLevel(i)
			return nil
		}
	}
	return fmt.Errorf("unknown memory level %q", string(b))
}
