// Command loxwalk is the CLI driver for the loxwalk interpreter core
// (package lox): a file runner and an interactive prompt.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"syscall"

	"github.com/peterh/liner"

	"loxwalk/diagnostics"
	"loxwalk/interpreter"
	"loxwalk/lox"
)

const historyFile = ".loxwalk_history"

func main() {
	if profOut := os.Getenv("CPUPROFILE"); profOut != "" {
		f, err := os.Create(profOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loxwalk: cannot create profile output %q: %v\n", profOut, err)
			os.Exit(1)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if os.Getenv("LOXWALK_DEBUG") != "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	switch len(os.Args) {
	case 1:
		os.Exit(runPrompt())
	case 2:
		os.Exit(runFile(os.Args[1]))
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [script]\n", os.Args[0])
		os.Exit(64)
	}
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loxwalk: cannot read %q: %v\n", path, err)
		return 64
	}

	sink := diagnostics.New(os.Stdout, os.Stderr)
	interp := interpreter.New(sink)
	if os.Getenv("LOXWALK_DEBUG") != "" {
		interp.SetLogger(slog.Default())
	}

	switch lox.Run(string(source), interp, sink) {
	case lox.CompileError:
		return 65
	case lox.RuntimeError:
		return 75
	default:
		return 0
	}
}

func runPrompt() int {
	sink := diagnostics.New(os.Stdout, os.Stderr)
	interp := interpreter.New(sink)
	if os.Getenv("LOXWALK_DEBUG") != "" {
		interp.SetLogger(slog.Default())
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		line.Close()
		os.Exit(130)
	}()

	for {
		text, err := line.Prompt("> ")
		if err != nil {
			break
		}
		line.AppendHistory(text)

		sink.Reset()
		lox.Run(text, interp, sink)
	}

	return 0
}
