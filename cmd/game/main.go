package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/tomz197/octoshot/internal/config"
	"github.com/tomz197/octoshot/internal/game"
	gameconfig "github.com/tomz197/octoshot/internal/game/config"
	"github.com/tomz197/octoshot/internal/loop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The terminal is the game screen, so logs only go to a file.
	logOut := io.Discard
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "game")

	duration, err := config.GetEnvDuration("GAME_DURATION", gameconfig.SessionDuration)
	if err != nil {
		return err
	}
	cfg := game.DefaultConfig()
	cfg.Duration = duration

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := loop.NewClient(bufio.NewReader(os.Stdin), os.Stdout, loop.ClientOptions{
		Logger:         logger,
		Profile:        termenv.EnvColorProfile(),
		Username:       os.Getenv("USER"),
		SessionOptions: []game.Option{game.WithConfig(cfg)},
	})
	return c.Run(ctx)
}
