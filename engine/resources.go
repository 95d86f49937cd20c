package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Zyko0/go-sdl3/img"
	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
)

func GetDefaultFontPath() string {
	// Check local fonts directory
	entries, err := os.ReadDir("fonts")
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				ext := strings.ToLower(filepath.Ext(entry.Name()))
				if ext == ".ttf" || ext == ".ttc" {
					return filepath.Join("fonts", entry.Name())
				}
			}
		}
	}

	// System paths
	var paths []string
	switch runtime.GOOS {
	case "windows":
		paths = []string{"C:\\Windows\\Fonts\\arial.ttf"}
	case "darwin":
		paths = []string{"/System/Library/Fonts/Helvetica.ttc"}
	default:
		paths = []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
		}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

type SoundResource struct {
	Data []byte
	Spec sdl.AudioSpec
}

var mixSpec = sdl.AudioSpec{Format: sdl.AUDIO_S16, Channels: 2, Freq: 44100}

// LoadSound reads a WAV file and converts it to the mixer format.
func LoadSound(path string) (*SoundResource, error) {
	spec := &sdl.AudioSpec{}
	data, err := sdl.LoadWAV(path, spec)
	if err != nil {
		return nil, fmt.Errorf("load sound %s: %w", path, err)
	}
	if spec.Format == mixSpec.Format && spec.Channels == mixSpec.Channels && spec.Freq == mixSpec.Freq {
		return &SoundResource{Data: data, Spec: *spec}, nil
	}
	converted, err := sdl.ConvertAudioSamples(spec, data, &mixSpec)
	if err != nil {
		return nil, fmt.Errorf("convert sound %s: %w", path, err)
	}
	return &SoundResource{Data: converted, Spec: mixSpec}, nil
}

type texture struct {
	tex  *sdl.Texture
	w, h float32
}

type textBlock struct {
	lines []texture
	lineH float32
}

// ResourceCache owns fonts per pixel height and the textures rendered from
// them, so a stimulus is rasterised once however many frames it is shown.
type ResourceCache struct {
	renderer *sdl.Renderer
	fontPath string
	fonts    map[int]*ttf.Font
	texts    map[string]*textBlock
	images   map[string]*texture
}

func NewResourceCache(renderer *sdl.Renderer, fontPath string) *ResourceCache {
	return &ResourceCache{
		renderer: renderer,
		fontPath: fontPath,
		fonts:    make(map[int]*ttf.Font),
		texts:    make(map[string]*textBlock),
		images:   make(map[string]*texture),
	}
}

func (c *ResourceCache) font(height int) (*ttf.Font, error) {
	if f, ok := c.fonts[height]; ok {
		return f, nil
	}
	if c.fontPath == "" {
		return nil, fmt.Errorf("no font available")
	}
	if height <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %d", height)
	}
	f, err := ttf.OpenFont(c.fontPath, float32(height))
	if err != nil {
		return nil, fmt.Errorf("open font %s: %w", c.fontPath, err)
	}
	c.fonts[height] = f
	return f, nil
}

func (c *ResourceCache) renderLine(font *ttf.Font, line string, color sdl.Color) (texture, error) {
	surf, err := font.RenderTextBlended(line, color)
	if err != nil {
		return texture{}, err
	}
	defer surf.Destroy()
	tex, err := c.renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return texture{}, err
	}
	return texture{tex: tex, w: float32(surf.W), h: float32(surf.H)}, nil
}

// Preload opens the font at every size the session draws with, so a bad
// font file fails before the first screen.
func (c *ResourceCache) Preload(heights ...int) error {
	for _, h := range heights {
		if _, err := c.font(h); err != nil {
			return err
		}
	}
	return nil
}

// Text returns the rendered lines of text, wrapped at wrapWidth pixels.
func (c *ResourceCache) Text(text string, color sdl.Color, height, wrapWidth int) (*textBlock, error) {
	key := fmt.Sprintf("%d|%d|%d,%d,%d,%d|%s", height, wrapWidth, color.R, color.G, color.B, color.A, text)
	if b, ok := c.texts[key]; ok {
		return b, nil
	}

	font, err := c.font(height)
	if err != nil {
		return nil, err
	}

	measure := func(s string) int {
		if s == "" {
			return 0
		}
		surf, err := font.RenderTextBlended(s, color)
		if err != nil {
			return 0
		}
		defer surf.Destroy()
		return int(surf.W)
	}

	b := &textBlock{lineH: float32(height) * 1.2}
	for _, line := range wrapLines(text, wrapWidth, measure) {
		if strings.TrimSpace(line) == "" {
			b.lines = append(b.lines, texture{h: b.lineH})
			continue
		}
		t, err := c.renderLine(font, line, color)
		if err != nil {
			return nil, fmt.Errorf("render %q: %w", line, err)
		}
		b.lines = append(b.lines, t)
	}
	c.texts[key] = b
	return b, nil
}

func (c *ResourceCache) Image(path string) (*texture, error) {
	if t, ok := c.images[path]; ok {
		return t, nil
	}
	tex, err := img.LoadTexture(c.renderer, path)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	w, h, _ := tex.Size()
	t := &texture{tex: tex, w: w, h: h}
	c.images[path] = t
	return t, nil
}

func (c *ResourceCache) Destroy() {
	for _, b := range c.texts {
		for _, l := range b.lines {
			if l.tex != nil {
				l.tex.Destroy()
			}
		}
	}
	for _, t := range c.images {
		t.tex.Destroy()
	}
	for _, f := range c.fonts {
		f.Close()
	}
}
