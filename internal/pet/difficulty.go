package pet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDegenerateRanks   = errors.New("rank count leaves no difficulty divisor")
	ErrLevelOutOfRange   = errors.New("level outside rank range")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Difficulty is the player's chosen minigame setting
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

var difficultyNames = []string{"easy", "medium", "hard"}

func (d Difficulty) String() string {
	if d < 0 || int(d) >= len(difficultyNames) {
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// ParseDifficulty maps a setting name to a Difficulty
func ParseDifficulty(s string) (Difficulty, error) {
	for i, name := range difficultyNames {
		if strings.EqualFold(s, name) {
			return Difficulty(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// hardDivisor is both Hard's divisor and the floor of Medium's
const hardDivisor = 2

// BaseLevel maps a level within ranks to the integer added to minigame sizing.
//
//	Easy:   level / (ranks/2)
//	Medium: level / (ranks-1-level), the divisor floored at 2
//	Hard:   level / 2
//
// The raw Medium divisor reaches zero at the top rank; it is floored at
// Hard's divisor so Medium sits between Easy and Hard instead of dividing by
// zero. Rank counts below two have no Easy divisor and are rejected.
func BaseLevel(level, ranks int, d Difficulty) (int, error) {
	half := ranks / 2
	if half == 0 {
		return 0, fmt.Errorf("%w: %d ranks", ErrDegenerateRanks, ranks)
	}
	if level < 0 || level >= ranks {
		return 0, fmt.Errorf("%w: %d of %d", ErrLevelOutOfRange, level, ranks)
	}
	switch d {
	case DifficultyEasy:
		return level / half, nil
	case DifficultyMedium:
		return level / max(ranks-1-level, hardDivisor), nil
	case DifficultyHard:
		return level / hardDivisor, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownDifficulty, int(d))
	}
}

// CalculateBaseLevel applies BaseLevel to the pet's evolution level
func (p *Pet) CalculateBaseLevel(d Difficulty) (int, error) {
	return BaseLevel(int(p.Level), EvolutionLevelCount, d)
}
