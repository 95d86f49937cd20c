package engine

import (
	"sync"
	"unsafe"

	"github.com/Zyko0/go-sdl3/sdl"
)

const (
	maxCues      = 4
	mixChunkSize = 4096
)

type voice struct {
	res *SoundResource
	pos int
}

// AudioMixer sums the feedback cues that are still sounding into the SDL
// audio stream. Callback runs on SDL's audio thread; Play and Stop run on
// the session thread.
type AudioMixer struct {
	mu     sync.Mutex
	voices []voice
	buf    []byte
}

func NewAudioMixer() *AudioMixer {
	return &AudioMixer{
		voices: make([]voice, 0, maxCues),
		buf:    make([]byte, mixChunkSize),
	}
}

func samples(b []byte) []int16 {
	if len(b) < 2 {
		return nil
	}
	return unsafe.Slice((*int16)(unsafe.Pointer(&b[0])), len(b)/2)
}

// mix fills out with the sum of the active voices, clipped to int16, and
// drops voices that have finished.
func (m *AudioMixer) mix(out []byte) {
	clear(out)
	dst := samples(out)

	m.mu.Lock()
	defer m.mu.Unlock()
	live := m.voices[:0]
	for _, v := range m.voices {
		n := min(len(out), len(v.res.Data)-v.pos)
		for i, s := range samples(v.res.Data[v.pos : v.pos+n]) {
			dst[i] = int16(max(-32768, min(32767, int32(dst[i])+int32(s))))
		}
		v.pos += n
		if v.pos < len(v.res.Data) {
			live = append(live, v)
		}
	}
	m.voices = live
}

func (m *AudioMixer) Callback(stream *sdl.AudioStream, additionalAmount, totalAmount int32) {
	for remaining := int(additionalAmount); remaining > 0; {
		chunk := min(remaining, mixChunkSize)
		m.mix(m.buf[:chunk])
		stream.PutData(m.buf[:chunk])
		remaining -= chunk
	}
}

// Play starts res from the beginning. It reports false when res is empty
// or maxCues sounds are already playing.
func (m *AudioMixer) Play(res *SoundResource) bool {
	if res == nil || len(res.Data) == 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.voices) >= maxCues {
		return false
	}
	m.voices = append(m.voices, voice{res: res})
	return true
}

// Stop silences every cue. Call it before the stream is destroyed.
func (m *AudioMixer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voices = m.voices[:0]
}
