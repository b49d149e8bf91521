package pet

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("pet not found")
	ErrInvalidName  = errors.New("invalid pet name")
	ErrUnknownNeed  = errors.New("unknown need")
	ErrUnknownGlyph = errors.New("unknown glyph")
)

// NeedSettings configures one need track
type NeedSettings struct {
	Initial        float64
	CriticalLimit  float64
	SatisfiedLimit float64
	UpFactor       float64
	DownFactor     float64
}

// Settings holds the tunables the simulation reads
type Settings struct {
	Needs          [NeedCount]NeedSettings
	LevelIncrement float64 // Down factor added per level above Baby
	SleepEnergy    float64 // Energy up factor while asleep
	GameSpeed      float64 // Multiplier applied to Tick deltas
	EvolutionQuota int     // Care responses needed before incubation
	SilenceStart   int     // Local hour notifications go quiet
	SilenceEnd     int     // Local hour notifications resume
}

// DefaultSettings returns the stock tuning
func DefaultSettings() Settings {
	s := Settings{
		LevelIncrement: DefaultLevelIncrement,
		SleepEnergy:    DefaultSleepEnergyRate,
		GameSpeed:      1,
		EvolutionQuota: EvolutionLevelCount,
		SilenceStart:   DefaultSilenceStart,
		SilenceEnd:     DefaultSilenceEnd,
	}
	for i := range s.Needs {
		s.Needs[i] = NeedSettings{
			Initial:        DefaultInitialNeed,
			CriticalLimit:  DefaultCriticalLimit,
			SatisfiedLimit: DefaultSatisfiedLimit,
			UpFactor:       DefaultUpFactor,
			DownFactor:     DefaultDownFactor,
		}
	}
	return s
}

// Validate checks limits and factors against their allowed ranges
func (s Settings) Validate() error {
	for i, n := range s.Needs {
		kind := NeedKind(i)
		if n.CriticalLimit < MinCriticalLimit || n.CriticalLimit > MaxCriticalLimit {
			return fmt.Errorf("%s: critical limit %.1f outside [%.0f,%.0f]", kind, n.CriticalLimit, MinCriticalLimit, MaxCriticalLimit)
		}
		if n.SatisfiedLimit < MinSatisfiedLimit || n.SatisfiedLimit > MaxSatisfiedLimit {
			return fmt.Errorf("%s: satisfied limit %.1f outside [%.0f,%.0f]", kind, n.SatisfiedLimit, MinSatisfiedLimit, MaxSatisfiedLimit)
		}
		if n.Initial < MinNeed || n.Initial > MaxNeed {
			return fmt.Errorf("%s: initial value %.1f outside [0,100]", kind, n.Initial)
		}
		if n.UpFactor < 0 || n.DownFactor < 0 {
			return fmt.Errorf("%s: factors must be non-negative", kind)
		}
	}
	if s.LevelIncrement < 0 || s.SleepEnergy < 0 {
		return errors.New("level increment and sleep energy must be non-negative")
	}
	if s.GameSpeed <= 0 {
		return fmt.Errorf("game speed %.2f must be positive", s.GameSpeed)
	}
	if s.EvolutionQuota < 1 {
		return fmt.Errorf("evolution quota %d must be at least 1", s.EvolutionQuota)
	}
	if s.SilenceStart < 0 || s.SilenceStart > 23 || s.SilenceEnd < 0 || s.SilenceEnd > 23 {
		return errors.New("silence window hours must be within 0-23")
	}
	return nil
}
