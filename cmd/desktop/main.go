package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/octoshot/internal/config"
	"github.com/tomz197/octoshot/internal/ebitenview"
	"github.com/tomz197/octoshot/internal/game"
	gameconfig "github.com/tomz197/octoshot/internal/game/config"
)

func main() {
	logger := config.NewLogger(os.Stderr, "desktop")

	duration, err := config.GetEnvDuration("GAME_DURATION", gameconfig.SessionDuration)
	if err != nil {
		logger.Fatal("bad configuration", "err", err)
	}
	cfg := game.DefaultConfig()
	cfg.Duration = duration

	ebiten.SetWindowSize(int(cfg.Width), int(cfg.Height))
	ebiten.SetWindowTitle("octoshot")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := ebitenview.New(logger, game.WithConfig(cfg))
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal("game error", "err", err)
	}
}
