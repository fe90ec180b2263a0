// Package main implements the main entry point for the CHIP-8 emulator and debugger
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/console"
	"github.com/retroenv/retrochip8/internal/debugger"
	"github.com/retroenv/retrochip8/internal/fileprocessor"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

const name = "retrochip8"

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseEmulatorFlags(os.Args)
	if err != nil {
		logger := config.CreateLogger(opts.DebugLog, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, name, opts.Quiet, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.DebugLog, opts.Quiet)
	fileprocessor.PrintBanner(logger, name, opts.Quiet, version, commit, date)

	if err := run(ctx, logger, opts); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal("Emulation failed", log.Err(err))
	}
}

func run(ctx context.Context, logger *log.Logger, opts options.Emulator) error {
	d, err := createDebugger(logger, opts)
	if err != nil {
		return err
	}

	var (
		con   *console.Console
		lines <-chan string
	)
	if opts.Debug || opts.Headless {
		con = console.New(logger, d, os.Stdout, console.IsInteractive(os.Stdin))
		lines = console.ReadLines(ctx, os.Stdin)
		con.Start()
	}

	frontendOptions := frontend.Options{
		Title:    fmt.Sprintf("%s - %s", name, filepath.Base(opts.Input)),
		Scale:    opts.Scale,
		Duration: opts.Duration,
	}
	if opts.Headless {
		return frontend.RunHeadless(ctx, logger, d, con, lines, frontendOptions)
	}

	beeper, err := frontend.NewBeeper()
	if err != nil {
		logger.Warn("Audio output is not available", log.Err(err))
	}
	defer func() {
		if err := beeper.Close(); err != nil {
			logger.Error("Closing audio output failed", log.Err(err))
		}
	}()

	window := frontend.NewWindow(ctx, logger, d, con, lines, beeper, frontendOptions)
	return window.Run()
}

func createDebugger(logger *log.Logger, opts options.Emulator) (*debugger.Debugger, error) {
	program, err := loader.New().Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}

	quirks, err := config.QuirksProfile(opts.Quirks)
	if err != nil {
		return nil, err
	}

	m := machine.New(logger, machine.Options{
		Quirks: quirks,
		Seed:   opts.Seed,
	})
	if err := m.Load(program); err != nil {
		return nil, fmt.Errorf("loading program into memory: %w", err)
	}

	d := debugger.New(logger, m, debugger.Options{
		Rate:        opts.Rate,
		StartPaused: opts.Debug,
	})
	for _, address := range opts.Breakpoints {
		if err := d.SetBreakpoint(int(address)); err != nil {
			return nil, fmt.Errorf("setting breakpoint: %w", err)
		}
	}

	logger.Info("Starting emulation",
		log.String("file", opts.Input),
		log.Int("size", len(program)),
		log.String("quirks", opts.Quirks),
		log.Int("rate", opts.Rate))
	return d, nil
}
