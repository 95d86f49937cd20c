package results

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Correctness codes as written in the results file.
const (
	CodeIncorrect  = 0
	CodeCorrect    = 1
	CodeNoResponse = 2
)

type ConditionStats struct {
	Trials   int     `yaml:"trials"`
	Correct  int     `yaml:"correct"`
	Errors   int     `yaml:"errors"`
	Misses   int     `yaml:"misses"`
	Accuracy float64 `yaml:"accuracy"`
	// MeanRT is over correct responses only, in seconds.
	MeanRT float64 `yaml:"mean_rt"`
}

func (s *ConditionStats) add(r Row, rtSum *float64) {
	s.Trials++
	switch r.Correctness {
	case CodeCorrect:
		s.Correct++
		*rtSum += r.RT
	case CodeNoResponse:
		s.Misses++
	default:
		s.Errors++
	}
}

func (s *ConditionStats) finish(rtSum float64) {
	if s.Trials > 0 {
		s.Accuracy = float64(s.Correct) / float64(s.Trials)
	}
	if s.Correct > 0 {
		s.MeanRT = rtSum / float64(s.Correct)
	}
}

type Summary struct {
	Overall    ConditionStats            `yaml:"overall"`
	Conditions map[string]ConditionStats `yaml:"conditions"`
	// StroopEffect is mean RT incongruent minus mean RT congruent. Nil
	// until both conditions have a correct response.
	StroopEffect *float64 `yaml:"stroop_effect,omitempty"`
}

// Summarize aggregates the experiment rows; training rows are skipped.
func Summarize(rows []Row) Summary {
	s := Summary{Conditions: map[string]ConditionStats{}}
	sums := map[string]float64{}
	var total float64

	for _, r := range rows {
		if r.Training() {
			continue
		}
		s.Overall.add(r, &total)
		c := s.Conditions[r.Type]
		sum := sums[r.Type]
		c.add(r, &sum)
		s.Conditions[r.Type] = c
		sums[r.Type] = sum
	}

	s.Overall.finish(total)
	for name, c := range s.Conditions {
		c.finish(sums[name])
		s.Conditions[name] = c
	}

	inc, okInc := s.Conditions["incongruent"]
	con, okCon := s.Conditions["congruent"]
	if okInc && okCon && inc.Correct > 0 && con.Correct > 0 {
		effect := inc.MeanRT - con.MeanRT
		s.StroopEffect = &effect
	}
	return s
}

// SessionInfo is written next to the results file at the end of a session.
type SessionInfo struct {
	ID          string    `yaml:"session"`
	Participant string    `yaml:"participant"`
	Config      string    `yaml:"config"`
	Started     time.Time `yaml:"started"`
	Finished    time.Time `yaml:"finished"`
	Aborted     bool      `yaml:"aborted"`
	Error       string    `yaml:"error,omitempty"`
	Trials      int       `yaml:"trials"`
	Summary     Summary   `yaml:"summary"`
}

func NewSessionInfo(partID, configPath string, started time.Time) *SessionInfo {
	return &SessionInfo{
		ID:          uuid.NewString(),
		Participant: partID,
		Config:      configPath,
		Started:     started,
	}
}

// Finish fills in the end of the session from the collected table.
func (s *SessionInfo) Finish(t *Table, finished time.Time, err error) {
	s.Finished = finished
	s.Trials = t.Len()
	s.Summary = Summarize(t.Rows())
	if err != nil {
		s.Aborted = true
		s.Error = err.Error()
	}
}

func (s *SessionInfo) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func SummaryPath(dir, partID string) string {
	return filepath.Join(dir, partID+"_summary.yaml")
}
