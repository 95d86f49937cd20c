package stroop

import "stroop/config"

type Correctness int

const (
	Incorrect  Correctness = 0
	Correct    Correctness = 1
	NoResponse Correctness = 2
)

const (
	NoKey     = "no_key"
	TimeoutRT = -1.0
)

// Outcome is what one trial produced.
type Outcome struct {
	Stimulus    Stimulus
	Key         string
	RT          float64
	Correctness Correctness
}

// ExpectedKey is the key that answers the stimulus' ink colour.
func ExpectedKey(cfg *config.Config, s Stimulus) string {
	return cfg.ColorKeys[s.Color]
}

func Classify(key, expected string) Correctness {
	switch {
	case key == "" || key == NoKey:
		return NoResponse
	case key == expected:
		return Correct
	}
	return Incorrect
}

// Feedback picks the training feedback text for c.
func Feedback(text config.FeedbackText, c Correctness) string {
	switch c {
	case Correct:
		return text.Correct
	case NoResponse:
		return text.NoResponse
	}
	return text.Incorrect
}
