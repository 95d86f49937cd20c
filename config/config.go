// Package config loads the experiment parameters from config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFrameRate = 60
	DefaultStimTime  = 180
	DefaultExitKey   = "f7"
)

// TrialCounts is the number of trials of each type in one block.
type TrialCounts struct {
	Congruent   int
	Incongruent int
	Control     int
}

func (c TrialCounts) Total() int {
	return c.Congruent + c.Incongruent + c.Control
}

type FeedbackText struct {
	Correct    string `yaml:"correct"`
	Incorrect  string `yaml:"incorrect"`
	NoResponse string `yaml:"no_response"`
}

type Config struct {
	FrameRate       int    `yaml:"FRAME_RATE"`
	ScreenRes       []int  `yaml:"SCREEN_RES"`
	BackgroundColor string `yaml:"BACKGROUND_COLOR"`
	TextColor       string `yaml:"TEXT_COLOR"`
	TextSize        int    `yaml:"TEXT_SIZE"`
	WrapWidth       int    `yaml:"WRAP_WIDTH"`

	FixCrossColor string  `yaml:"FIX_CROSS_COLOR"`
	FixCrossSize  int     `yaml:"FIX_CROSS_SIZE"`
	FixCrossTime  float64 `yaml:"FIX_CROSS_TIME"`

	StimTime int `yaml:"STIM_TIME"`
	StimSize int `yaml:"STIM_SIZE"`

	FeedbackTime float64      `yaml:"FEEDBACK_TIME"`
	FeedbackSize int          `yaml:"FEEDBACK_SIZE"`
	FeedbackText FeedbackText `yaml:"FEEDBACK_TEXT"`
	CorrectSound string       `yaml:"CORRECT_SOUND,omitempty"`
	ErrorSound   string       `yaml:"ERROR_SOUND,omitempty"`

	StimWord     []string          `yaml:"STIM_WORD"`
	WordColors   map[string]string `yaml:"WORD_COLORS"`
	ControlWord  []string          `yaml:"CONTROL_WORD"`
	StimColor    []string          `yaml:"STIM_COLOR"`
	ColorKeys    map[string]string `yaml:"COLOR_KEYS"`
	ReactionKeys []string          `yaml:"REACTION_KEYS,omitempty"`
	InfoKeys     []string          `yaml:"INFO_KEYS"`
	ExitKey      string            `yaml:"EXIT_KEY"`

	TrainCongruent   int `yaml:"TRAIN_CONGRUENT_IN_BLOCK"`
	TrainIncongruent int `yaml:"TRAIN_INCONGRUENT_IN_BLOCK"`
	TrainControl     int `yaml:"TRAIN_CONTROL_IN_BLOCK"`
	ExpCongruent     int `yaml:"EXP_CONGRUENT_IN_BLOCK"`
	ExpIncongruent   int `yaml:"EXP_INCONGRUENT_IN_BLOCK"`
	ExpControl       int `yaml:"EXP_CONTROL_IN_BLOCK"`
	ExpBlocks        int `yaml:"EXP_NO_BLOCKS"`

	Instructions     []string `yaml:"INSTRUCTIONS"`
	BeforeTraining   string   `yaml:"BEFORE_TRAINING"`
	BeforeExperiment string   `yaml:"BEFORE_EXPERIMENT"`
	Break            string   `yaml:"BREAK"`
	End              string   `yaml:"END"`

	// Triggers maps a trial type (or "response") to DLP-IO8-G lines.
	Triggers map[string]string `yaml:"TRIGGERS,omitempty"`
	Seed     int64             `yaml:"SEED,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		FrameRate:       DefaultFrameRate,
		ScreenRes:       []int{1920, 1080},
		BackgroundColor: "gray",
		TextColor:       "black",
		TextSize:        20,
		WrapWidth:       900,
		FixCrossColor:   "black",
		FixCrossSize:    50,
		FixCrossTime:    1,
		StimTime:        DefaultStimTime,
		StimSize:        60,
		FeedbackTime:    1,
		FeedbackSize:    50,
		FeedbackText: FeedbackText{
			Correct:    "Poprawnie",
			Incorrect:  "Niepoprawnie",
			NoResponse: "Brak odpowiedzi",
		},
		StimWord: []string{"zolty", "czerwony", "niebieski", "zielony"},
		WordColors: map[string]string{
			"zolty":     "yellow",
			"czerwony":  "red",
			"niebieski": "blue",
			"zielony":   "green",
		},
		ControlWord: []string{"stol", "krzeslo", "okno", "drzwi"},
		StimColor:   []string{"yellow", "red", "blue", "green"},
		ColorKeys: map[string]string{
			"yellow": "z",
			"red":    "x",
			"blue":   "n",
			"green":  "m",
		},
		InfoKeys:         []string{"return", "space", "left", "right"},
		ExitKey:          DefaultExitKey,
		TrainCongruent:   4,
		TrainIncongruent: 4,
		TrainControl:     4,
		ExpCongruent:     20,
		ExpIncongruent:   20,
		ExpControl:       20,
		ExpBlocks:        2,
		Instructions:     []string{"Instruction_1.txt", "Instruction_2.txt", "Instruction_3.txt"},
		BeforeTraining:   "before_training.txt",
		BeforeExperiment: "before_experiment.txt",
		Break:            "break.txt",
		End:              "end.txt",
	}
}

// Load overlays the YAML file at path on DefaultConfig. Maps given in the
// file replace the default maps instead of merging with them.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// yaml.v3 merges into existing maps; reset those the file sets.
	if _, ok := raw["WORD_COLORS"]; ok {
		cfg.WordColors = nil
	}
	if _, ok := raw["COLOR_KEYS"]; ok {
		cfg.ColorKeys = nil
	}
	if _, ok := raw["TRIGGERS"]; ok {
		cfg.Triggers = nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Training() TrialCounts {
	return TrialCounts{Congruent: c.TrainCongruent, Incongruent: c.TrainIncongruent, Control: c.TrainControl}
}

func (c *Config) Experiment() TrialCounts {
	return TrialCounts{Congruent: c.ExpCongruent, Incongruent: c.ExpIncongruent, Control: c.ExpControl}
}

// Keys returns the reaction keys. When REACTION_KEYS is empty the keys of
// COLOR_KEYS are used, sorted by colour name.
func (c *Config) Keys() []string {
	if len(c.ReactionKeys) > 0 {
		return c.ReactionKeys
	}
	colors := make([]string, 0, len(c.ColorKeys))
	for color := range c.ColorKeys {
		colors = append(colors, color)
	}
	sort.Strings(colors)
	keys := make([]string, 0, len(colors))
	for _, color := range colors {
		keys = append(keys, c.ColorKeys[color])
	}
	return keys
}

func (c *Config) Width() int {
	if len(c.ScreenRes) < 1 {
		return 0
	}
	return c.ScreenRes[0]
}

func (c *Config) Height() int {
	if len(c.ScreenRes) < 2 {
		return 0
	}
	return c.ScreenRes[1]
}

func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.FrameRate <= 0 {
		add("FRAME_RATE must be positive, got %d", c.FrameRate)
	}
	if len(c.ScreenRes) != 2 || c.ScreenRes[0] <= 0 || c.ScreenRes[1] <= 0 {
		add("SCREEN_RES must be [width, height], got %v", c.ScreenRes)
	}
	if c.StimTime <= 0 {
		add("STIM_TIME must be a positive number of frames, got %d", c.StimTime)
	}
	for name, n := range map[string]int{
		"TEXT_SIZE":      c.TextSize,
		"STIM_SIZE":      c.StimSize,
		"FEEDBACK_SIZE":  c.FeedbackSize,
		"FIX_CROSS_SIZE": c.FixCrossSize,
	} {
		if n <= 0 {
			add("%s must be a positive pixel size, got %d", name, n)
		}
	}
	if c.FixCrossTime < 0 || c.FeedbackTime < 0 {
		add("FIX_CROSS_TIME and FEEDBACK_TIME must not be negative")
	}
	if c.ExpBlocks <= 0 {
		add("EXP_NO_BLOCKS must be positive, got %d", c.ExpBlocks)
	}
	for name, n := range map[string]int{
		"TRAIN_CONGRUENT_IN_BLOCK":   c.TrainCongruent,
		"TRAIN_INCONGRUENT_IN_BLOCK": c.TrainIncongruent,
		"TRAIN_CONTROL_IN_BLOCK":     c.TrainControl,
		"EXP_CONGRUENT_IN_BLOCK":     c.ExpCongruent,
		"EXP_INCONGRUENT_IN_BLOCK":   c.ExpIncongruent,
		"EXP_CONTROL_IN_BLOCK":       c.ExpControl,
	} {
		if n < 0 {
			add("%s must not be negative, got %d", name, n)
		}
	}
	if c.Training().Total()+c.Experiment().Total() == 0 {
		add("no trials configured")
	}

	if len(c.StimWord) == 0 {
		add("STIM_WORD is empty")
	}
	for _, w := range c.StimWord {
		color, ok := c.WordColors[w]
		if !ok {
			add("STIM_WORD %q has no WORD_COLORS entry", w)
			continue
		}
		if _, ok := c.ColorKeys[color]; !ok {
			add("colour %q of word %q has no COLOR_KEYS entry", color, w)
		}
	}
	if len(c.StimColor) == 0 {
		add("STIM_COLOR is empty")
	}
	for _, color := range c.StimColor {
		if _, ok := c.ColorKeys[color]; !ok {
			add("STIM_COLOR %q has no COLOR_KEYS entry", color)
		}
	}
	if c.TrainIncongruent+c.ExpIncongruent > 0 {
		for _, w := range c.StimWord {
			own, ok := c.WordColors[w]
			if ok && !slices.ContainsFunc(c.StimColor, func(color string) bool { return color != own }) {
				add("incongruent trials need a STIM_COLOR other than %q for word %q", own, w)
			}
		}
	}
	if c.TrainControl+c.ExpControl > 0 && len(c.ControlWord) == 0 {
		add("control trials need CONTROL_WORD")
	}
	if c.ExitKey == "" {
		add("EXIT_KEY is empty")
	}
	for _, k := range c.Keys() {
		if k == c.ExitKey {
			add("reaction key %q is also the EXIT_KEY", k)
		}
	}
	if len(c.InfoKeys) == 0 {
		add("INFO_KEYS is empty")
	}

	return errors.Join(errs...)
}
