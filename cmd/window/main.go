package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/logx"
	"github.com/tomz197/swarm/internal/loop"
	"github.com/tomz197/swarm/internal/window"
)

const windowScale = 2

func main() {
	settings := config.LoadSettings()
	logger := logx.New(os.Stderr).With("session", uuid.NewString())

	session, err := loop.NewSession(settings, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.ViewWidth*windowScale, config.ViewHeight*windowScale)
	ebiten.SetWindowTitle("swarm")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TargetFPS)

	logger.Info("session started", "seed", settings.Seed, "infinite", settings.Infinite)
	if err := ebiten.RunGame(window.New(session)); err != nil {
		logger.Error("game error", "err", err)
		os.Exit(1)
	}
	logger.Info("session ended", "kills", session.Kills(), "phase", session.Phase())
}
