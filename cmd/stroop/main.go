package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/Zyko0/go-sdl3/bin/binimg"
	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"
	"github.com/spf13/cobra"

	"stroop/config"
	"stroop/engine"
	"stroop/logging"
	"stroop/participant"
	"stroop/results"
	"stroop/stroop"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stroop",
		Short:         "colour-word Stroop task",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newRunCmd(), newCheckCmd(), newSummaryCmd())
	return rootCmd
}

func newRunCmd() *cobra.Command {
	s := engine.DefaultSettings()
	var info participant.Info
	noVSync := false

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s.VSync = !noVSync
			console := logging.NewConsole(cmd.ErrOrStderr(), s.Verbose)
			defer console.Sync()

			if info.ID == "" || info.Sex == "" || info.Age == "" {
				var err error
				info, err = participant.Prompt("Stroop", info)
				if errors.Is(err, participant.ErrCanceled) {
					console.Error("info dialog terminated")
					return nil
				}
				if err != nil {
					return err
				}
			}

			defer binsdl.Load().Unload()
			defer binimg.Load().Unload()
			defer binttf.Load().Unload()

			err := engine.Run(s, info, console)
			if errors.Is(err, stroop.ErrAborted) {
				return nil
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&s.ConfigFile, "config", s.ConfigFile, "experiment config file (yaml)")
	f.StringVar(&s.ResultsDir, "results", s.ResultsDir, "results directory")
	f.StringVar(&s.MessagesDir, "messages", s.MessagesDir, "directory of instruction files")
	f.StringVar(&s.FontFile, "font", "", "TTF font file")
	f.StringVar(&s.DLPDevice, "dlp", "", "DLP-IO8-G device")
	f.BoolVar(&s.Fullscreen, "fullscreen", false, "enable fullscreen")
	f.BoolVar(&noVSync, "no-vsync", false, "disable VSync")
	f.BoolVarP(&s.Verbose, "verbose", "v", false, "log every trial")
	f.StringVar(&info.ID, "id", "", "participant ID")
	f.StringVar(&info.Sex, "sex", "", "participant sex ("+strings.Join(participant.Sexes, "/")+")")
	f.StringVar(&info.Age, "age", "", "participant age")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [config]",
		Short: "validate a config file and print the session plan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := engine.DefaultSettings().ConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			cfg, err := engine.LoadConfig(path)
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), path, cfg)
			return nil
		},
	}
}

func printPlan(w io.Writer, path string, cfg *config.Config) {
	train, exp := cfg.Training(), cfg.Experiment()
	fmt.Fprintf(w, "%s: ok\n", path)
	fmt.Fprintf(w, "screen      %dx%d @ %d Hz, stimulus %d frames\n", cfg.Width(), cfg.Height(), cfg.FrameRate, cfg.StimTime)
	fmt.Fprintf(w, "training    %d trials (%d congruent, %d incongruent, %d control)\n",
		train.Total(), train.Congruent, train.Incongruent, train.Control)
	fmt.Fprintf(w, "experiment  %d blocks x %d trials (%d congruent, %d incongruent, %d control)\n",
		cfg.ExpBlocks, exp.Total(), exp.Congruent, exp.Incongruent, exp.Control)
	fmt.Fprintf(w, "keys        %s, exit %s\n", keyMap(cfg), cfg.ExitKey)
}

func keyMap(cfg *config.Config) string {
	var parts []string
	for _, c := range cfg.StimColor {
		parts = append(parts, c+"="+cfg.ColorKeys[c])
	}
	return strings.Join(parts, " ")
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <results.csv>",
		Short: "print the summary of a results file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := results.Load(args[0])
			if err != nil {
				return err
			}
			partID := ""
			if rows := t.Rows(); len(rows) > 0 {
				partID = rows[0].ParticipantID
			}
			fmt.Fprintln(cmd.OutOrStdout(), results.Report(partID, results.Summarize(t.Rows()), t.Rows()))
			return nil
		},
	}
}
