// Package mascot decides which cat drawing accompanies the timer.
//
// Selection is a pure function of the mode and the countdown: the end of an
// interval and the late part of it show fixed drawings, everything else shows
// a drawing picked at random whenever the mode changes and then held.
package mascot

import (
	"math/rand/v2"

	"github.com/xvierd/purrmodoro/internal/domain"
)

// Category classifies the moment of the countdown.
type Category string

const (
	CategoryStudying     Category = "studying"
	CategoryAlmostDone   Category = "almost_done"
	CategoryEndOfStudy   Category = "end_of_study"
	CategoryResting      Category = "resting"
	CategoryHalfwayBreak Category = "halfway_break"
	CategoryEndOfBreak   Category = "end_of_break"
)

// Progress thresholds at which the fixed drawings take over.
const (
	AlmostDoneThreshold   = 0.75
	HalfwayBreakThreshold = 0.5
)

// Asset identifies one cat drawing.
type Asset string

const (
	AssetS1           Asset = "S1"
	AssetS2           Asset = "S2"
	AssetS3           Asset = "S3"
	AssetR1           Asset = "R1"
	AssetR2           Asset = "R2"
	AssetR3           Asset = "R3"
	AssetR4           Asset = "R4"
	AssetAlmostDone   Asset = "almost-done"
	AssetEndOfStudy   Asset = "end-of-study"
	AssetHalfwayBreak Asset = "halfway-break"
	AssetEndOfBreak   Asset = "end-of-break"
)

// StudyAssets are the drawings held during a focus interval.
var StudyAssets = []Asset{AssetS1, AssetS2, AssetS3}

// RestAssets are the drawings held during a break.
var RestAssets = []Asset{AssetR1, AssetR2, AssetR3, AssetR4}

// Rand is the subset of *rand.Rand used for picking.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Progress returns the elapsed share of the interval, 1 - timeLeft/total.
// A zero total counts as no progress.
func Progress(timeLeft, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 1 - float64(timeLeft)/float64(total)
}

// Classify returns the category for mode at the given point of the countdown.
func Classify(mode domain.Mode, timeLeft, total int) Category {
	progress := Progress(timeLeft, total)
	if mode == domain.ModeWork {
		switch {
		case timeLeft == 0:
			return CategoryEndOfStudy
		case progress >= AlmostDoneThreshold:
			return CategoryAlmostDone
		default:
			return CategoryStudying
		}
	}
	switch {
	case timeLeft == 0:
		return CategoryEndOfBreak
	case progress >= HalfwayBreakThreshold:
		return CategoryHalfwayBreak
	default:
		return CategoryResting
	}
}

// FixedAsset returns the drawing tied to c, if any. Studying and resting
// have no fixed drawing.
func (c Category) FixedAsset() (Asset, bool) {
	switch c {
	case CategoryAlmostDone:
		return AssetAlmostDone, true
	case CategoryEndOfStudy:
		return AssetEndOfStudy, true
	case CategoryHalfwayBreak:
		return AssetHalfwayBreak, true
	case CategoryEndOfBreak:
		return AssetEndOfBreak, true
	default:
		return "", false
	}
}

// CandidatesFor returns the random pool for mode.
func CandidatesFor(mode domain.Mode) []Asset {
	if mode == domain.ModeWork {
		return StudyAssets
	}
	return RestAssets
}

// Pick chooses a random candidate other than previous. previous is only
// excluded when at least one other candidate remains. Pick returns "" for an
// empty candidate list.
func Pick(previous Asset, candidates []Asset, rnd Rand) Asset {
	if len(candidates) == 0 {
		return ""
	}
	if rnd == nil {
		rnd = globalRand{}
	}

	pool := make([]Asset, 0, len(candidates))
	for _, c := range candidates {
		if c != previous {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = candidates
	}
	return pool[rnd.IntN(len(pool))]
}

// Selector holds the randomly picked drawing between mode changes.
type Selector struct {
	rnd  Rand
	mode domain.Mode
	held Asset
}

// NewSelector creates a selector. A nil rnd uses the global source.
func NewSelector(rnd Rand) *Selector {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Selector{rnd: rnd}
}

// OnModeChange picks a new held drawing for mode. Study drawings may repeat;
// break drawings always differ from the one held before when possible.
func (s *Selector) OnModeChange(mode domain.Mode) Asset {
	previous := Asset("")
	if mode.IsBreak() {
		previous = s.held
	}
	s.mode = mode
	s.held = Pick(previous, CandidatesFor(mode), s.rnd)
	return s.held
}

// Held returns the currently held random drawing.
func (s *Selector) Held() Asset {
	return s.held
}

// Current returns the drawing to show. A mode different from the last one
// seen counts as a mode change.
func (s *Selector) Current(mode domain.Mode, timeLeft, total int) Asset {
	if s.held == "" || mode != s.mode {
		s.OnModeChange(mode)
	}
	if fixed, ok := Classify(mode, timeLeft, total).FixedAsset(); ok {
		return fixed
	}
	return s.held
}
