package engine

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
	"go.uber.org/zap"

	"stroop/stroop"
)

// Window presents the task on an SDL renderer. Keyboard events are buffered
// as lower-case key names between calls to Keys.
type Window struct {
	renderer *sdl.Renderer
	cache    *ResourceCache
	mixer    *AudioMixer
	cues     map[stroop.Cue]*SoundResource
	log      *zap.Logger

	width, height int
	background    sdl.Color
	colors        map[string]sdl.Color

	pending []string
	closed  bool
}

func NewWindow(renderer *sdl.Renderer, cache *ResourceCache, width, height int, background sdl.Color, log *zap.Logger) *Window {
	w := &Window{
		renderer:   renderer,
		cache:      cache,
		cues:       make(map[stroop.Cue]*SoundResource),
		log:        log,
		width:      width,
		height:     height,
		background: background,
		colors:     make(map[string]sdl.Color),
	}
	w.clear()
	return w
}

// SetCue attaches a sound to a feedback cue. A nil mixer or sound leaves
// the cue silent.
func (w *Window) SetCue(mixer *AudioMixer, c stroop.Cue, res *SoundResource) {
	w.mixer = mixer
	w.cues[c] = res
}

func (w *Window) color(name string) sdl.Color {
	if c, ok := w.colors[name]; ok {
		return c
	}
	c, err := ResolveColor(name)
	if err != nil {
		w.log.Warn("bad colour, using white", zap.String("colour", name), zap.Error(err))
		c = namedColors["white"]
	}
	w.colors[name] = c
	return c
}

func (w *Window) clear() {
	bg := w.background
	w.renderer.SetDrawColor(bg.R, bg.G, bg.B, bg.A)
	w.renderer.Clear()
}

func (w *Window) DrawText(text string, style stroop.TextStyle) error {
	block, err := w.cache.Text(text, w.color(style.Color), style.Height, style.WrapWidth)
	if err != nil {
		return err
	}

	total := float32(0)
	for _, l := range block.lines {
		total += max(l.h, block.lineH)
	}
	y := (float32(w.height) - total) / 2
	for _, l := range block.lines {
		if l.tex != nil {
			dst := sdl.FRect{
				X: (float32(w.width) - l.w) / 2,
				Y: y,
				W: l.w,
				H: l.h,
			}
			w.renderer.RenderTexture(l.tex, nil, &dst)
		}
		y += max(l.h, block.lineH)
	}
	return nil
}

// DrawFixation draws a cross of size pixels, centred.
func (w *Window) DrawFixation(color string, size int) {
	c := w.color(color)
	w.renderer.SetDrawColor(c.R, c.G, c.B, c.A)
	half := float32(size) / 2
	mx, my := float32(w.width)/2, float32(w.height)/2
	thick := max(float32(size)/15, 1)
	w.renderer.RenderFillRect(&sdl.FRect{X: mx - half, Y: my - thick/2, W: float32(size), H: thick})
	w.renderer.RenderFillRect(&sdl.FRect{X: mx - thick/2, Y: my - half, W: thick, H: float32(size)})
}

// DrawImage draws the image centred, scaled down to fit the window.
func (w *Window) DrawImage(path string) error {
	t, err := w.cache.Image(path)
	if err != nil {
		return err
	}
	scale := min(float32(1), float32(w.width)/t.w, float32(w.height)/t.h)
	dst := sdl.FRect{
		X: (float32(w.width) - t.w*scale) / 2,
		Y: (float32(w.height) - t.h*scale) / 2,
		W: t.w * scale,
		H: t.h * scale,
	}
	w.renderer.RenderTexture(t.tex, nil, &dst)
	return nil
}

// Flip presents the back buffer and starts the next frame with a clear.
func (w *Window) Flip() error {
	w.renderer.Present()
	w.pump()
	w.clear()
	if w.closed {
		return stroop.ErrWindowClosed
	}
	return nil
}

func (w *Window) handle(ev *sdl.Event) {
	switch ev.Type {
	case sdl.EVENT_QUIT:
		w.closed = true
	case sdl.EVENT_KEY_DOWN:
		w.pending = append(w.pending, strings.ToLower(ev.KeyboardEvent().Key.KeyName()))
	}
}

func (w *Window) pump() {
	var ev sdl.Event
	for sdl.PollEvent(&ev) {
		w.handle(&ev)
	}
}

func (w *Window) Keys(keyList []string) ([]string, error) {
	w.pump()
	var keys []string
	for _, k := range w.pending {
		if slices.Contains(keyList, k) {
			keys = append(keys, k)
		}
	}
	w.pending = w.pending[:0]
	if w.closed {
		return keys, stroop.ErrWindowClosed
	}
	return keys, nil
}

func (w *Window) WaitKeys(keyList []string) (string, error) {
	w.ClearEvents()
	for {
		var ev sdl.Event
		if err := sdl.WaitEvent(&ev); err != nil {
			return "", fmt.Errorf("wait for key: %w", err)
		}
		w.handle(&ev)
		if w.closed {
			return "", stroop.ErrWindowClosed
		}
		for _, k := range w.pending {
			if slices.Contains(keyList, k) {
				w.pending = w.pending[:0]
				return k, nil
			}
		}
		w.pending = w.pending[:0]
	}
}

func (w *Window) ClearEvents() {
	w.pump()
	w.pending = w.pending[:0]
}

// Wait keeps the event queue alive while time passes. Keys pressed during
// the wait stay buffered.
func (w *Window) Wait(d time.Duration) {
	deadline := sdl.TicksNS() + uint64(d.Nanoseconds())
	for sdl.TicksNS() < deadline {
		w.pump()
		sdl.Delay(1)
	}
}

func (w *Window) PlayCue(c stroop.Cue) {
	if w.mixer == nil {
		return
	}
	if res := w.cues[c]; res != nil {
		w.mixer.Play(res)
	}
}

// RefreshRate returns the refresh rate of the display holding the window,
// or fallback when it cannot be read.
func RefreshRate(renderer *sdl.Renderer, fallback float32) float32 {
	win, err := renderer.Window()
	if err != nil {
		return fallback
	}
	display := sdl.GetDisplayForWindow(win)
	mode, err := display.CurrentDisplayMode()
	if err == nil && mode.RefreshRate > 0 {
		return mode.RefreshRate
	}
	return fallback
}
