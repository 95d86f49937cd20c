// Package stroop runs the colour-word task: it builds stimuli, schedules
// trials, presents them through a Window and scores the key presses.
package stroop

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"

	"stroop/config"
)

type TrialType int

const (
	Congruent TrialType = iota
	Incongruent
	Control
)

func (t TrialType) String() string {
	switch t {
	case Congruent:
		return "congruent"
	case Incongruent:
		return "incongruent"
	case Control:
		return "control"
	}
	return fmt.Sprintf("TrialType(%d)", int(t))
}

func ParseTrialType(s string) (TrialType, error) {
	for _, t := range []TrialType{Congruent, Incongruent, Control} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown trial type %q", s)
}

// CheckTriggers reports TRIGGERS keys that are neither a trial type nor
// the response trigger. A misspelt key would otherwise never fire.
func CheckTriggers(cfg *config.Config) error {
	var errs []error
	for _, key := range slices.Sorted(maps.Keys(cfg.Triggers)) {
		if key == responseTrigger {
			continue
		}
		if _, err := ParseTrialType(key); err != nil {
			errs = append(errs, fmt.Errorf("TRIGGERS: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Stimulus is a word drawn in an ink colour.
type Stimulus struct {
	Word  string
	Color string
	Type  TrialType
}

// NewStimulus builds a stimulus of the given type. Congruent words are
// drawn in the colour they name, incongruent words in any other stimulus
// colour, and control words in a random stimulus colour.
func NewStimulus(rng *rand.Rand, cfg *config.Config, t TrialType) (Stimulus, error) {
	switch t {
	case Congruent, Incongruent:
		if len(cfg.StimWord) == 0 {
			return Stimulus{}, fmt.Errorf("no STIM_WORD for %s trial", t)
		}
		word := cfg.StimWord[rng.IntN(len(cfg.StimWord))]
		own, ok := cfg.WordColors[word]
		if !ok {
			return Stimulus{}, fmt.Errorf("word %q has no colour", word)
		}
		if t == Congruent {
			return Stimulus{Word: word, Color: own, Type: t}, nil
		}
		others := make([]string, 0, len(cfg.StimColor))
		for _, c := range cfg.StimColor {
			if c != own {
				others = append(others, c)
			}
		}
		if len(others) == 0 {
			return Stimulus{}, fmt.Errorf("no colour other than %q for word %q", own, word)
		}
		return Stimulus{Word: word, Color: others[rng.IntN(len(others))], Type: t}, nil
	case Control:
		if len(cfg.ControlWord) == 0 || len(cfg.StimColor) == 0 {
			return Stimulus{}, fmt.Errorf("control trial needs CONTROL_WORD and STIM_COLOR")
		}
		return Stimulus{
			Word:  cfg.ControlWord[rng.IntN(len(cfg.ControlWord))],
			Color: cfg.StimColor[rng.IntN(len(cfg.StimColor))],
			Type:  t,
		}, nil
	}
	return Stimulus{}, fmt.Errorf("unknown trial type %d", int(t))
}

// Schedule returns one block's trial types: exactly counts of each type in
// random order.
func Schedule(rng *rand.Rand, counts config.TrialCounts) []TrialType {
	types := make([]TrialType, 0, counts.Total())
	for i := 0; i < counts.Congruent; i++ {
		types = append(types, Congruent)
	}
	for i := 0; i < counts.Incongruent; i++ {
		types = append(types, Incongruent)
	}
	for i := 0; i < counts.Control; i++ {
		types = append(types, Control)
	}
	rng.Shuffle(len(types), func(i, j int) {
		types[i], types[j] = types[j], types[i]
	})
	return types
}
