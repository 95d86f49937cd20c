package engine

import (
	"fmt"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"

	"stroop/participant"
)

type formField struct {
	label  string
	value  *string
	browse func(window *sdl.Window)
}

func inside(mx, my float32, r sdl.FRect) bool {
	return mx >= r.X && mx <= r.X+r.W && my >= r.Y && my <= r.Y+r.H
}

func drawLabel(renderer *sdl.Renderer, font *ttf.Font, text string, x, y float32, color sdl.Color) {
	if text == "" {
		return
	}
	surf, err := font.RenderTextBlended(text, color)
	if err != nil || surf == nil {
		return
	}
	defer surf.Destroy()
	tex, err := renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return
	}
	defer tex.Destroy()
	r := sdl.FRect{X: x, Y: y, W: float32(surf.W), H: float32(surf.H)}
	renderer.RenderTexture(tex, nil, &r)
}

func drawBox(renderer *sdl.Renderer, r sdl.FRect, focused bool) {
	renderer.SetDrawColor(255, 255, 255, 255)
	renderer.RenderFillRect(&r)
	if focused {
		renderer.SetDrawColor(0, 120, 255, 255)
	} else {
		renderer.SetDrawColor(180, 180, 180, 255)
	}
	renderer.RenderRect(&r)
}

func drawCheck(renderer *sdl.Renderer, font *ttf.Font, label string, x, y float32, on bool) {
	box := sdl.FRect{X: x, Y: y, W: 20, H: 20}
	renderer.SetDrawColor(255, 255, 255, 255)
	renderer.RenderFillRect(&box)
	renderer.SetDrawColor(0, 0, 0, 255)
	renderer.RenderRect(&box)
	if on {
		mark := sdl.FRect{X: x + 4, Y: y + 4, W: 12, H: 12}
		renderer.SetDrawColor(0, 150, 0, 255)
		renderer.RenderFillRect(&mark)
	}
	drawLabel(renderer, font, label, x+30, y, sdl.Color{A: 255})
}

// RunSetup shows the session form: participant data, config file, results
// and messages folders. It returns false when the window is closed before
// START is accepted. Accepted settings are written to the cache file.
func RunSetup(s *Settings, info *participant.Info) bool {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		fmt.Printf("SDL_Init Error: %v\n", err)
		return false
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		fmt.Printf("TTF_Init Error: %v\n", err)
		return false
	}
	defer ttf.Quit()

	window, renderer, err := sdl.CreateWindowAndRenderer("Stroop - session setup", 800, 640, 0)
	if err != nil {
		fmt.Printf("CreateWindowAndRenderer Error: %v\n", err)
		return false
	}
	defer window.Destroy()
	defer renderer.Destroy()

	fontPath := s.FontFile
	if fontPath == "" {
		fontPath = GetDefaultFontPath()
	}
	if fontPath == "" {
		fmt.Println("Error: No default font found for GUI setup")
		return false
	}
	guiFont, err := ttf.OpenFont(fontPath, 18)
	if err != nil {
		fmt.Printf("Failed to load GUI font: %v\n", err)
		return false
	}
	defer guiFont.Close()

	fields := []formField{
		{label: "Participant ID:", value: &info.ID},
		{label: "Age:", value: &info.Age},
		{label: "Config file (YAML):", value: &s.ConfigFile, browse: func(w *sdl.Window) {
			filters := []sdl.DialogFileFilter{{Name: "YAML Files", Pattern: "yaml;yml"}}
			cb := sdl.NewDialogFileCallback(func(fileList []string, filter int32) {
				if len(fileList) > 0 {
					s.ConfigFile = fileList[0]
				}
			})
			sdl.ShowOpenFileDialog(cb, w, filters, "", false)
		}},
		{label: "Results directory:", value: &s.ResultsDir, browse: func(w *sdl.Window) {
			cb := sdl.NewDialogFileCallback(func(fileList []string, filter int32) {
				if len(fileList) > 0 {
					s.ResultsDir = fileList[0]
				}
			})
			sdl.ShowOpenFolderDialog(cb, w, "", false)
		}},
		{label: "Messages directory:", value: &s.MessagesDir, browse: func(w *sdl.Window) {
			cb := sdl.NewDialogFileCallback(func(fileList []string, filter int32) {
				if len(fileList) > 0 {
					s.MessagesDir = fileList[0]
				}
			})
			sdl.ShowOpenFolderDialog(cb, w, "", false)
		}},
	}
	boxAt := func(i int) sdl.FRect { return sdl.FRect{X: 50, Y: float32(50 + i*70), W: 650, H: 30} }
	btnAt := func(i int) sdl.FRect { return sdl.FRect{X: 710, Y: float32(50 + i*70), W: 70, H: 30} }
	sexY := float32(50 + len(fields)*70)
	fullY := sexY + 50
	startBtn := sdl.FRect{X: 350, Y: fullY + 60, W: 100, H: 40}

	focusBox := -1
	message := ""
	setupDone := false

	window.StartTextInput()
	defer window.StopTextInput()

	for !setupDone {
		var e sdl.Event
		for sdl.PollEvent(&e) {
			switch e.Type {
			case sdl.EVENT_QUIT:
				return false
			case sdl.EVENT_MOUSE_BUTTON_DOWN:
				me := e.MouseButtonEvent()
				mx, my := me.X, me.Y

				focusBox = -1
				for i, f := range fields {
					if inside(mx, my, boxAt(i)) {
						focusBox = i
					}
					if f.browse != nil && inside(mx, my, btnAt(i)) {
						f.browse(window)
					}
				}

				for i, sex := range participant.Sexes {
					if inside(mx, my, sdl.FRect{X: float32(50 + i*120), Y: sexY, W: 100, H: 20}) {
						info.Sex = sex
					}
				}
				if inside(mx, my, sdl.FRect{X: 50, Y: fullY, W: 250, H: 20}) {
					s.Fullscreen = !s.Fullscreen
				}

				if inside(mx, my, startBtn) {
					info.ID = strings.TrimSpace(info.ID)
					info.Age = strings.TrimSpace(info.Age)
					if err := info.Validate(); err != nil {
						message = err.Error()
					} else if s.ConfigFile == "" {
						message = "a config file is required"
					} else {
						if err := s.SaveCache(CacheFile); err != nil {
							fmt.Printf("Failed to save settings cache: %v\n", err)
						}
						setupDone = true
					}
				}
			case sdl.EVENT_TEXT_INPUT:
				if focusBox != -1 {
					*fields[focusBox].value += e.TextInputEvent().Text
				}
			case sdl.EVENT_KEY_DOWN:
				ke := e.KeyboardEvent()
				if focusBox != -1 && ke.Key == sdl.K_BACKSPACE {
					target := fields[focusBox].value
					if r := []rune(*target); len(r) > 0 {
						*target = string(r[:len(r)-1])
					}
				}
			}
		}

		renderer.SetDrawColor(240, 240, 240, 255)
		renderer.Clear()
		black := sdl.Color{A: 255}

		for i, f := range fields {
			drawLabel(renderer, guiFont, f.label, 50, float32(20+i*70), black)
			box := boxAt(i)
			drawBox(renderer, box, focusBox == i)
			drawLabel(renderer, guiFont, *f.value, 55, box.Y+5, black)
			if f.browse != nil {
				btn := btnAt(i)
				renderer.SetDrawColor(200, 200, 200, 255)
				renderer.RenderFillRect(&btn)
				renderer.SetDrawColor(0, 0, 0, 255)
				renderer.RenderRect(&btn)
				drawLabel(renderer, guiFont, "...", btn.X+25, btn.Y+5, black)
			}
		}

		for i, sex := range participant.Sexes {
			drawCheck(renderer, guiFont, sex, float32(50+i*120), sexY, info.Sex == sex)
		}
		drawCheck(renderer, guiFont, "Fullscreen mode", 50, fullY, s.Fullscreen)

		renderer.SetDrawColor(0, 150, 0, 255)
		renderer.RenderFillRect(&startBtn)
		drawLabel(renderer, guiFont, "START", startBtn.X+25, startBtn.Y+10, sdl.Color{R: 255, G: 255, B: 255, A: 255})

		drawLabel(renderer, guiFont, message, 50, startBtn.Y+60, sdl.Color{R: 200, A: 255})

		renderer.Present()
		sdl.Delay(10)
	}
	return true
}
