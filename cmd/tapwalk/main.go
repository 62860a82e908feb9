package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/tapwalk/internal/config"
	"github.com/zeusync/tapwalk/internal/injector"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	configPath := flag.String("config", "tapwalk.yaml", "YAML config file; a missing file runs with defaults")
	logLevel := flag.String("log-level", "", "override log.level (debug, info, warn, error, none)")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating screen:", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing screen:", err)
		return 1
	}

	// the terminal must be restored before anything is printed
	var once sync.Once
	restore := func() { once.Do(screen.Fini) }
	defer restore()
	defer func() {
		if r := recover(); r != nil {
			restore()
			fmt.Fprintf(os.Stderr, "panic: %v\n%s", r, debug.Stack())
			code = 2
		}
	}()

	app, cleanup, err := injector.InitializeApp(cfg, screen)
	if err != nil {
		restore()
		fmt.Fprintln(os.Stderr, "Error starting tapwalk:", err)
		return 1
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		restore()
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
