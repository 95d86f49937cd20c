package engine

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
)

// Settings are the per-machine options of a run. Experiment parameters
// live in the YAML config file they point to.
type Settings struct {
	ConfigFile  string
	ResultsDir  string
	MessagesDir string
	FontFile    string
	DLPDevice   string
	Fullscreen  bool
	VSync       bool
	Verbose     bool
}

func DefaultSettings() *Settings {
	return &Settings{
		ConfigFile:  "config.yaml",
		ResultsDir:  "results",
		MessagesDir: "messages",
		VSync:       true,
	}
}

var namedColors = map[string]sdl.Color{
	"black":     {R: 0, G: 0, B: 0, A: 255},
	"white":     {R: 255, G: 255, B: 255, A: 255},
	"gray":      {R: 128, G: 128, B: 128, A: 255},
	"grey":      {R: 128, G: 128, B: 128, A: 255},
	"lightgray": {R: 211, G: 211, B: 211, A: 255},
	"darkgray":  {R: 169, G: 169, B: 169, A: 255},
	"red":       {R: 255, G: 0, B: 0, A: 255},
	"green":     {R: 0, G: 128, B: 0, A: 255},
	"lime":      {R: 0, G: 255, B: 0, A: 255},
	"blue":      {R: 0, G: 0, B: 255, A: 255},
	"yellow":    {R: 255, G: 255, B: 0, A: 255},
	"orange":    {R: 255, G: 165, B: 0, A: 255},
	"purple":    {R: 128, G: 0, B: 128, A: 255},
	"brown":     {R: 165, G: 42, B: 42, A: 255},
	"pink":      {R: 255, G: 192, B: 203, A: 255},
	"cyan":      {R: 0, G: 255, B: 255, A: 255},
	"magenta":   {R: 255, G: 0, B: 255, A: 255},
}

// ParseColor reads "R,G,B" or "R,G,B,A". Alpha defaults to opaque.
func ParseColor(s string) (sdl.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return sdl.Color{}, fmt.Errorf("colour %q: want R,G,B[,A]", s)
	}
	var v [4]uint8
	v[3] = 255
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return sdl.Color{}, fmt.Errorf("colour %q: %w", s, err)
		}
		v[i] = uint8(n)
	}
	return sdl.Color{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}

// ResolveColor accepts a colour name or an R,G,B[,A] triple.
func ResolveColor(s string) (sdl.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[name]; ok {
		return c, nil
	}
	if strings.Contains(name, ",") {
		return ParseColor(name)
	}
	return sdl.Color{}, fmt.Errorf("unknown colour %q", s)
}

const CacheFile = ".stroop_cache"

// SaveCache remembers the setup form fields for the next start.
func (s *Settings) SaveCache(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "config_file=%s\n", s.ConfigFile)
	fmt.Fprintf(f, "results_dir=%s\n", s.ResultsDir)
	fmt.Fprintf(f, "messages_dir=%s\n", s.MessagesDir)
	fmt.Fprintf(f, "font_file=%s\n", s.FontFile)
	fmt.Fprintf(f, "dlp_device=%s\n", s.DLPDevice)
	if s.Fullscreen {
		fmt.Fprintf(f, "fullscreen=1\n")
	} else {
		fmt.Fprintf(f, "fullscreen=0\n")
	}
	return nil
}

// LoadCache overlays a cache written by SaveCache. A missing file is not
// an error.
func (s *Settings) LoadCache(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)

		switch key {
		case "config_file":
			s.ConfigFile = val
		case "results_dir":
			s.ResultsDir = val
		case "messages_dir":
			s.MessagesDir = val
		case "font_file":
			s.FontFile = val
		case "dlp_device":
			s.DLPDevice = val
		case "fullscreen":
			s.Fullscreen = val != "0"
		}
	}
}
