package stroop

import (
	"slices"
	"time"
)

const frameSeconds = 1.0 / 60

type fakeClock struct {
	t float64
}

func (c *fakeClock) Reset()           { c.t = 0 }
func (c *fakeClock) Seconds() float64 { return c.t }

type drawn struct {
	text  string
	style TextStyle
}

// fakeWindow advances its clock by one frame per Flip. After each Flip the
// responder may press a key, given the text on screen and the number of
// flips since the last ClearEvents.
type fakeWindow struct {
	clock     *fakeClock
	responder func(text, color string, flips int) string
	waitKeys  []string
	closeAt   int
	textErr   error

	current  drawn
	texts    []drawn
	images   []string
	fixation int
	flips    int
	sinceClr int
	pending  []string
	waits    []time.Duration
	cues     []Cue
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{clock: &fakeClock{}}
}

func (w *fakeWindow) DrawText(text string, style TextStyle) error {
	if w.textErr != nil {
		return w.textErr
	}
	w.current = drawn{text: text, style: style}
	w.texts = append(w.texts, w.current)
	return nil
}

func (w *fakeWindow) DrawFixation(string, int) {
	w.current = drawn{text: "+"}
	w.fixation++
}

func (w *fakeWindow) DrawImage(path string) error {
	w.images = append(w.images, path)
	w.current = drawn{text: path}
	return nil
}

func (w *fakeWindow) Flip() error {
	w.flips++
	w.sinceClr++
	w.clock.t += frameSeconds
	if w.closeAt > 0 && w.flips >= w.closeAt {
		return ErrWindowClosed
	}
	if w.responder != nil {
		if key := w.responder(w.current.text, w.current.style.Color, w.sinceClr); key != "" {
			w.pending = append(w.pending, key)
		}
	}
	w.current = drawn{}
	return nil
}

func (w *fakeWindow) Keys(keyList []string) ([]string, error) {
	var out []string
	for _, k := range w.pending {
		if slices.Contains(keyList, k) {
			out = append(out, k)
		}
	}
	w.pending = nil
	return out, nil
}

func (w *fakeWindow) WaitKeys(keyList []string) (string, error) {
	if len(w.waitKeys) == 0 {
		return keyList[0], nil
	}
	k := w.waitKeys[0]
	w.waitKeys = w.waitKeys[1:]
	return k, nil
}

func (w *fakeWindow) ClearEvents() {
	w.pending = nil
	w.sinceClr = 0
}

func (w *fakeWindow) Wait(d time.Duration) { w.waits = append(w.waits, d) }
func (w *fakeWindow) PlayCue(c Cue)        { w.cues = append(w.cues, c) }

func (w *fakeWindow) textsWith(s string) int {
	n := 0
	for _, d := range w.texts {
		if d.text == s {
			n++
		}
	}
	return n
}

type fakeTrigger struct {
	events []string
}

func (t *fakeTrigger) Set(lines string)   { t.events = append(t.events, "set:"+lines) }
func (t *fakeTrigger) Unset(lines string) { t.events = append(t.events, "unset:"+lines) }
