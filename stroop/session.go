package stroop

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"stroop/config"
	"stroop/messages"
	"stroop/results"
)

const responseTrigger = "response"

type Options struct {
	// MessagesDir is where instruction files are looked up.
	MessagesDir string
	Trigger     Trigger
	Rand        *rand.Rand
	Logger      *zap.Logger
}

// Session runs the training and experiment phases for one participant.
type Session struct {
	cfg     *config.Config
	win     Window
	clock   Clock
	table   *results.Table
	partID  string
	msgDir  string
	trigger Trigger
	rng     *rand.Rand
	log     *zap.Logger
}

func NewSession(cfg *config.Config, win Window, clock Clock, table *results.Table, partID string, opts Options) *Session {
	s := &Session{
		cfg:     cfg,
		win:     win,
		clock:   clock,
		table:   table,
		partID:  partID,
		msgDir:  opts.MessagesDir,
		trigger: opts.Trigger,
		rng:     opts.Rand,
		log:     opts.Logger,
	}
	if s.trigger == nil {
		s.trigger = noTrigger{}
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Run shows the instructions, the training block and every experiment
// block. Rows are appended to the table as trials finish, so the table is
// usable after an error.
func (s *Session) Run() error {
	for _, name := range s.cfg.Instructions {
		if err := s.ShowInfo(name, ""); err != nil {
			return err
		}
	}
	if err := s.ShowInfo(s.cfg.BeforeTraining, ""); err != nil {
		return err
	}

	if s.cfg.Training().Total() > 0 {
		if err := s.runBlock(results.TrainingBlock, s.cfg.Training(), true); err != nil {
			return err
		}
	}

	if err := s.ShowInfo(s.cfg.BeforeExperiment, ""); err != nil {
		return err
	}

	for block := 1; block <= s.cfg.ExpBlocks; block++ {
		if block > 1 {
			if err := s.showBreak(block - 1); err != nil {
				return err
			}
		}
		if err := s.runBlock(strconv.Itoa(block), s.cfg.Experiment(), false); err != nil {
			return err
		}
	}
	return nil
}

// ShowEnd shows the closing screen.
func (s *Session) ShowEnd() error {
	return s.ShowInfo(s.cfg.End, "")
}

func (s *Session) showBreak(done int) error {
	if s.cfg.Break == "" {
		return nil
	}
	path := filepath.Join(s.msgDir, s.cfg.Break)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		s.log.Debug("no break screen", zap.String("path", path))
		return nil
	}
	return s.ShowInfo(s.cfg.Break, fmt.Sprintf("%d/%d\n", done, s.cfg.ExpBlocks))
}

// ShowInfo draws a message file and waits for an info key. An empty name
// shows nothing.
func (s *Session) ShowInfo(name, insert string) error {
	if name == "" {
		return nil
	}
	path := filepath.Join(s.msgDir, name)
	if messages.IsImage(name) {
		if err := s.win.DrawImage(path); err != nil {
			return s.fail(fmt.Errorf("show %s: %w", name, err))
		}
	} else {
		text, err := messages.Read(path, insert)
		if err != nil {
			return s.fail(err)
		}
		if err := s.win.DrawText(text, TextStyle{Color: s.cfg.TextColor, Height: s.cfg.TextSize, WrapWidth: s.cfg.WrapWidth}); err != nil {
			return s.fail(fmt.Errorf("show %s: %w", name, err))
		}
	}
	if err := s.win.Flip(); err != nil {
		return s.fail(err)
	}

	keys := append(append([]string{}, s.cfg.InfoKeys...), s.cfg.ExitKey)
	key, err := s.win.WaitKeys(keys)
	if err != nil {
		return s.fail(err)
	}
	if key == s.cfg.ExitKey {
		return s.abort(" on info screen", key)
	}
	s.log.Info("info screen closed", zap.String("file", name), zap.String("key", key))
	return s.win.Flip()
}

func (s *Session) runBlock(label string, counts config.TrialCounts, training bool) error {
	types := Schedule(s.rng, counts)
	s.log.Info("block started", zap.String("block", label), zap.Int("trials", len(types)))

	for i, t := range types {
		stim, err := NewStimulus(s.rng, s.cfg, t)
		if err != nil {
			return s.fail(err)
		}
		out, err := s.RunTrial(stim)
		if err != nil {
			return err
		}
		s.table.Append(results.Row{
			ParticipantID: s.partID,
			Block:         label,
			Trial:         i + 1,
			Key:           out.Key,
			RT:            out.RT,
			Correctness:   int(out.Correctness),
			Word:          stim.Word,
			Type:          stim.Type.String(),
			Color:         stim.Color,
		})
		s.log.Debug("trial",
			zap.String("block", label),
			zap.Int("trial", i+1),
			zap.String("word", stim.Word),
			zap.String("color", stim.Color),
			zap.Stringer("type", stim.Type),
			zap.String("key", out.Key),
			zap.Float64("rt", out.RT),
			zap.Int("corr", int(out.Correctness)))

		if training {
			if err := s.feedback(out.Correctness); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunTrial shows the fixation cross, then the stimulus for at most
// STIM_TIME frames or until a reaction key is pressed. The clock starts at
// the first stimulus frame.
func (s *Session) RunTrial(stim Stimulus) (Outcome, error) {
	if err := s.fixation(); err != nil {
		return Outcome{}, err
	}

	lines := s.cfg.Triggers[stim.Type.String()]
	keyList := append(append([]string{}, s.cfg.Keys()...), s.cfg.ExitKey)
	style := TextStyle{Color: stim.Color, Height: s.cfg.StimSize}

	s.win.ClearEvents()
	key := ""
	rt := TimeoutRT
	for frame := 0; frame < s.cfg.StimTime; frame++ {
		if err := s.win.DrawText(stim.Word, style); err != nil {
			return Outcome{}, s.fail(fmt.Errorf("draw stimulus %q: %w", stim.Word, err))
		}
		if err := s.win.Flip(); err != nil {
			return Outcome{}, s.fail(err)
		}
		if frame == 0 {
			s.clock.Reset()
			if lines != "" {
				s.trigger.Set(lines)
			}
		}

		keys, err := s.win.Keys(keyList)
		if err != nil {
			return Outcome{}, s.fail(err)
		}
		if len(keys) > 0 {
			rt = s.clock.Seconds()
			key = keys[0]
			break
		}
	}
	if lines != "" {
		s.trigger.Unset(lines)
	}
	if key == s.cfg.ExitKey {
		return Outcome{}, s.abort("", key)
	}
	if err := s.win.Flip(); err != nil {
		return Outcome{}, s.fail(err)
	}

	if key == "" {
		key = NoKey
		rt = TimeoutRT
	} else if r := s.cfg.Triggers[responseTrigger]; r != "" {
		s.trigger.Set(r)
		s.win.Wait(5 * time.Millisecond)
		s.trigger.Unset(r)
	}

	return Outcome{
		Stimulus:    stim,
		Key:         key,
		RT:          rt,
		Correctness: Classify(key, ExpectedKey(s.cfg, stim)),
	}, nil
}

func (s *Session) fixation() error {
	if s.cfg.FixCrossTime <= 0 {
		return nil
	}
	s.win.DrawFixation(s.cfg.FixCrossColor, s.cfg.FixCrossSize)
	if err := s.win.Flip(); err != nil {
		return s.fail(err)
	}
	s.win.Wait(seconds(s.cfg.FixCrossTime))
	return s.checkExit()
}

func (s *Session) feedback(c Correctness) error {
	if err := s.win.DrawText(Feedback(s.cfg.FeedbackText, c), TextStyle{Color: s.cfg.FixCrossColor, Height: s.cfg.FeedbackSize}); err != nil {
		return s.fail(fmt.Errorf("draw feedback: %w", err))
	}
	if err := s.win.Flip(); err != nil {
		return s.fail(err)
	}
	if c == Correct {
		s.win.PlayCue(CueCorrect)
	} else {
		s.win.PlayCue(CueError)
	}
	s.win.Wait(seconds(s.cfg.FeedbackTime))
	if err := s.checkExit(); err != nil {
		return err
	}
	return s.win.Flip()
}

func (s *Session) checkExit() error {
	keys, err := s.win.Keys([]string{s.cfg.ExitKey})
	if err != nil {
		return s.fail(err)
	}
	if len(keys) > 0 {
		return s.abort("", keys[0])
	}
	return nil
}

func (s *Session) abort(where, key string) error {
	s.log.Error(fmt.Sprintf("Experiment finished by user%s! %s pressed.", where, key))
	return fmt.Errorf("%w: %s pressed", ErrAborted, key)
}

func (s *Session) fail(err error) error {
	s.log.Error("session failed", zap.Error(err))
	return err
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
