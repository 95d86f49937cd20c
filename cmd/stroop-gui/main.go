package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/Zyko0/go-sdl3/bin/binimg"
	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"

	"stroop/engine"
	"stroop/logging"
	"stroop/participant"
	"stroop/stroop"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil && !errors.Is(err, stroop.ErrAborted) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	defer binsdl.Load().Unload()
	defer binimg.Load().Unload()
	defer binttf.Load().Unload()

	s := engine.DefaultSettings()
	s.LoadCache(engine.CacheFile)

	info := participant.Info{Sex: participant.Sexes[0]}
	if !engine.RunSetup(s, &info) {
		return nil
	}

	console := logging.NewConsole(os.Stderr, s.Verbose)
	defer console.Sync()
	return engine.Run(s, info, console)
}
