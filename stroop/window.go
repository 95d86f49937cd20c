package stroop

import (
	"errors"
	"time"
)

var (
	// ErrAborted is returned when the exit key is pressed.
	ErrAborted = errors.New("experiment finished by user")
	// ErrWindowClosed is returned when the window is closed mid-session.
	ErrWindowClosed = errors.New("window closed")
)

// TextStyle describes how a piece of text is drawn. Colour is a colour
// name or "R,G,B[,A]".
type TextStyle struct {
	Color     string
	Height    int
	WrapWidth int
}

type Cue int

const (
	CueCorrect Cue = iota
	CueError
)

// Window is the presentation surface. Draw calls go to the back buffer and
// become visible on Flip, which blocks until the next refresh.
type Window interface {
	DrawText(text string, style TextStyle) error
	DrawFixation(color string, size int)
	DrawImage(path string) error
	Flip() error
	// Keys returns the keys from keyList pressed since the last call or
	// ClearEvents, in press order.
	Keys(keyList []string) ([]string, error)
	// WaitKeys blocks until one of keyList is pressed.
	WaitKeys(keyList []string) (string, error)
	ClearEvents()
	Wait(d time.Duration)
	PlayCue(c Cue)
}

// Clock measures reaction times in seconds from the last Reset.
type Clock interface {
	Reset()
	Seconds() float64
}

// Trigger raises and lowers output lines on a trigger box.
type Trigger interface {
	Set(lines string)
	Unset(lines string)
}

type noTrigger struct{}

func (noTrigger) Set(string)   {}
func (noTrigger) Unset(string) {}
