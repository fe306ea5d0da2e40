package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"blastview/internal/config"
	"blastview/internal/eventbus"
	"blastview/internal/loader"
	"blastview/internal/ui"
)

func main() {
	// Parse command line arguments
	var reportPath, configPath string
	var iteration int
	flag.StringVar(&reportPath, "file", "", "BLAST XML report to open")
	flag.StringVar(&reportPath, "f", "", "BLAST XML report to open (shorthand)")
	flag.StringVar(&configPath, "config", "", "Configuration file (default: user config dir)")
	flag.IntVar(&iteration, "iteration", 1, "Iteration to show first (1-based)")
	flag.Parse()

	if reportPath == "" && flag.NArg() > 0 {
		reportPath = flag.Arg(0)
	}
	if reportPath == "" {
		fmt.Fprintln(os.Stderr, "usage: blastview [-config file] [-iteration n] -f report.xml")
		os.Exit(2)
	}
	absPath, err := filepath.Abs(reportPath)
	if err != nil {
		fmt.Printf("Error resolving path: %v\n", err)
		os.Exit(1)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	configSvc := config.NewConfigService()
	if configPath != "" {
		configSvc = config.NewConfigServiceAt(configPath)
	}
	cfg, cfgErr := loadOrCreateConfig(configSvc)

	// Set up logging
	logger, closeLog := newLogger(cfg.Log)
	defer closeLog()
	slog.SetDefault(logger)
	if cfgErr != nil {
		logger.Warn("using default configuration", "path", configSvc.Path(), "err", cfgErr)
	}

	bus := eventbus.New(eventbus.WithLogger(logger))
	defer bus.Close()
	configSvc = config.WithBus(configSvc, bus)

	loaderSvc := loader.NewLoaderService(bus, loader.WithLogger(logger))

	uiModel := ui.NewModel(bus, cfg,
		ui.WithLogger(logger),
		ui.WithIteration(iteration-1),
	)
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Domain events reach the model through the program so that every
	// view update happens on the UI goroutine
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			logger.Warn("event channel full, dropping event", "type", e.Type())
		}
	}
	for _, et := range []eventbus.EventType{
		eventbus.EventLoadStarted,
		eventbus.EventResultLoaded,
		eventbus.EventError,
		eventbus.EventConfigSaved,
	} {
		bus.Subscribe(et, forward)
	}
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	bus.Publish(eventbus.LoadRequestedEvent{Path: absPath})

	logger.Info("starting UI", "report", absPath)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("program failed", "err", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	logger.Info("UI exited")

	if cfg.UI.AutosaveOnExit {
		if err := configSvc.Save(cfg); err != nil {
			logger.Warn("failed to save config", "err", err)
		}
	}

	loaderSvc.Wait()
	close(eventChan)
}

// loadOrCreateConfig loads the configuration file, writing the defaults
// when it does not exist yet. On a broken file it returns the defaults
// together with the error.
func loadOrCreateConfig(configSvc config.ConfigService) (*config.Config, error) {
	path := configSvc.Path()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := config.DefaultConfig()
		if err := configSvc.SaveToPath(cfg, path); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	cfg, err := configSvc.LoadFromPath(path)
	if err != nil {
		return config.DefaultConfig(), err
	}
	return cfg, nil
}

// newLogger opens the log file named in settings. Without a file, or when
// it cannot be opened, logs are discarded: the terminal belongs to the UI.
func newLogger(settings config.LogSettings) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: parseLevel(settings.Level)}
	if settings.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}
	}
	logFile, err := os.OpenFile(settings.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}
	}
	return slog.New(slog.NewTextHandler(logFile, opts)), func() { _ = logFile.Close() }
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
