package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
	"go.uber.org/zap"

	"stroop/config"
	"stroop/logging"
	"stroop/participant"
	"stroop/results"
	"stroop/stroop"
)

func resolveColors(cfg *config.Config) (sdl.Color, error) {
	var errs []error
	bg, err := ResolveColor(cfg.BackgroundColor)
	if err != nil {
		errs = append(errs, fmt.Errorf("BACKGROUND_COLOR: %w", err))
	}
	for _, c := range append([]string{cfg.TextColor, cfg.FixCrossColor}, cfg.StimColor...) {
		if _, err := ResolveColor(c); err != nil {
			errs = append(errs, err)
		}
	}
	return bg, errors.Join(errs...)
}

// LoadConfig reads and checks the experiment config, including that every
// colour can be drawn and every trigger names a trial type.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s:\n%w", path, err)
	}
	if _, err := resolveColors(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s:\n%w", path, err)
	}
	if err := stroop.CheckTriggers(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s:\n%w", path, err)
	}
	return cfg, nil
}

func soundPath(configFile, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configFile), p)
}

// Run runs one full session. Whatever happens after the log file is open,
// the collected rows and the session summary are written to the results
// directory, including when the session is aborted or panics.
func Run(s *Settings, info participant.Info, console *zap.Logger) (err error) {
	cfg, err := LoadConfig(s.ConfigFile)
	if err != nil {
		return err
	}
	bg, _ := resolveColors(cfg)
	if err := info.Validate(); err != nil {
		return err
	}
	partID := info.PartID()

	logFile, err := logging.NewFile(console, filepath.Join(s.ResultsDir, partID+".log"))
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logFile.Logger.With(zap.String("participant", partID))

	log.Info("FRAME RATE", zap.Int("fps", cfg.FrameRate))
	log.Info("SCREEN RES", zap.Ints("res", cfg.ScreenRes))

	table := results.NewTable()
	session := results.NewSessionInfo(partID, s.ConfigFile, time.Now())
	saved := false
	save := func(runErr error) {
		if saved {
			return
		}
		saved = true
		now := time.Now()

		behPath := results.UniquePath(results.BehPath(s.ResultsDir, partID), now)
		if err := table.Save(behPath); err != nil {
			log.Error("saving results failed", zap.String("path", behPath), zap.Error(err))
		} else {
			log.Info("results saved", zap.String("path", behPath), zap.Int("trials", table.Len()))
		}

		session.Finish(table, now, runErr)
		sumPath := results.UniquePath(results.SummaryPath(s.ResultsDir, partID), now)
		if err := session.Save(sumPath); err != nil {
			log.Error("saving summary failed", zap.String("path", sumPath), zap.Error(err))
		}
		fmt.Println(results.Report(partID, session.Summary, table.Rows()))
	}
	defer func() {
		if r := recover(); r != nil {
			save(fmt.Errorf("panic: %v", r))
			panic(r)
		}
		save(err)
	}()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("SDL_Init: %w", err)
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		return fmt.Errorf("TTF_Init: %w", err)
	}
	defer ttf.Quit()

	windowFlags := sdl.WINDOW_RESIZABLE
	if s.Fullscreen {
		windowFlags |= sdl.WINDOW_FULLSCREEN
	}
	window, renderer, err := sdl.CreateWindowAndRenderer("Stroop", cfg.Width(), cfg.Height(), windowFlags)
	if err != nil {
		return fmt.Errorf("CreateWindowAndRenderer: %w", err)
	}
	defer window.Destroy()
	defer renderer.Destroy()

	if s.VSync {
		renderer.SetVSync(1)
	} else {
		renderer.SetVSync(0)
		log.Warn("vsync disabled, stimulus durations are not frame locked")
	}

	rr := RefreshRate(renderer, float32(cfg.FrameRate))
	if math.Abs(float64(rr)-float64(cfg.FrameRate)) > 1 {
		log.Warn("display refresh rate differs from FRAME_RATE, STIM_TIME is counted in frames",
			zap.Float32("detected", rr), zap.Int("configured", cfg.FrameRate))
	}
	sdl.HideCursor()

	fontPath := s.FontFile
	if fontPath == "" {
		fontPath = GetDefaultFontPath()
	}
	if fontPath == "" {
		return errors.New("no font found, pass one with the font setting")
	}
	cache := NewResourceCache(renderer, fontPath)
	defer cache.Destroy()
	if err := cache.Preload(cfg.TextSize, cfg.StimSize, cfg.FeedbackSize); err != nil {
		return err
	}

	win := NewWindow(renderer, cache, cfg.Width(), cfg.Height(), bg, log)

	if cfg.CorrectSound != "" || cfg.ErrorSound != "" {
		mixer := NewAudioMixer()
		cb := sdl.NewAudioStreamCallback(mixer.Callback)
		stream := sdl.AUDIO_DEVICE_DEFAULT_PLAYBACK.OpenAudioDeviceStream(&mixSpec, cb)
		if stream == nil {
			log.Warn("failed to open audio stream, feedback sounds disabled")
		} else {
			defer stream.Destroy()
			defer mixer.Stop()
			stream.ResumeDevice()
			for cue, p := range map[stroop.Cue]string{stroop.CueCorrect: cfg.CorrectSound, stroop.CueError: cfg.ErrorSound} {
				if p == "" {
					continue
				}
				res, err := LoadSound(soundPath(s.ConfigFile, p))
				if err != nil {
					log.Warn("feedback sound disabled", zap.Error(err))
					continue
				}
				win.SetCue(mixer, cue, res)
			}
		}
	}

	var trigger stroop.Trigger
	if s.DLPDevice != "" {
		dlp, err := NewDLPIO8G(s.DLPDevice, 9600, log)
		if err != nil {
			log.Warn("failed to initialize DLP device, running without triggers",
				zap.String("device", s.DLPDevice), zap.Error(err))
		} else {
			defer dlp.Close()
			trigger = dlp
		}
	}

	seed := uint64(cfg.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Info("session start", zap.String("session", session.ID), zap.Uint64("seed", seed))

	task := stroop.NewSession(cfg, win, NewTicksClock(), table, partID, stroop.Options{
		MessagesDir: s.MessagesDir,
		Trigger:     trigger,
		Rand:        rand.New(rand.NewPCG(seed, seed>>1)),
		Logger:      log,
	})
	if err := task.Run(); err != nil {
		return err
	}

	save(nil)
	log.Info("session finished", zap.Int("trials", table.Len()))
	if err := task.ShowEnd(); err != nil && !errors.Is(err, stroop.ErrAborted) {
		log.Warn("end screen", zap.Error(err))
	}
	return nil
}
