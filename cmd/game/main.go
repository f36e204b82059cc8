package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tomz197/pucks/internal/audio"
	"github.com/tomz197/pucks/internal/commentary"
	"github.com/tomz197/pucks/internal/config"
	"github.com/tomz197/pucks/internal/loop"
	"github.com/tomz197/pucks/internal/object"
	"golang.org/x/term"
)

func main() {
	if err := config.Load(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := openLogger(config.GetEnv("PUCKS_LOG_FILE", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := loop.MatchConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid match config: %v\n", err)
		os.Exit(1)
	}
	engine, err := cfg.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start match: %v\n", err)
		os.Exit(1)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	commentator := commentary.New(&commentary.Static{}, commentary.Options{Logger: logger.WithPrefix("commentary")})
	go commentator.Run(ctx)

	runner := loop.NewRunner(engine, loop.Options{
		AI:     [2]bool{false, true},
		Sinks:  []loop.EventSink{commentator},
		Logger: logger.WithPrefix("match"),
	})

	if config.GetEnvBool("PUCKS_SOUND", false) {
		player := audio.NewPlayer(audio.Options{
			Volume: config.GetEnvFloat("PUCKS_VOLUME", 0.7),
			Logger: logger.WithPrefix("audio"),
		})
		if err := player.Init(); err != nil {
			logger.Warn("sound disabled", "err", err)
		} else {
			defer player.Close()
			runner.AddSink(loop.SoundSink(player.Play))
		}
	}

	go runner.Run(ctx)

	session := loop.NewSession(runner, bufio.NewReader(os.Stdin), os.Stdout, loop.SessionOptions{
		Team:       object.Red,
		Username:   config.GetEnv("USER", "player"),
		Commentary: commentator.Lines(),
		Logger:     logger.WithPrefix("session"),
	})
	if err := session.Run(ctx); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

// openLogger logs to path, or nowhere when path is empty since the terminal
// belongs to the game.
func openLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	level, err := log.ParseLevel(config.GetEnv("PUCKS_LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Level: level})
	return logger, func() { _ = f.Close() }, nil
}
