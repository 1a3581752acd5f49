package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/logx"
	"github.com/tomz197/swarm/internal/loop"
	"golang.org/x/term"
)

func main() {
	// The game owns stdout, so logs go to a file.
	logPath := config.GetEnv("SWARM_LOG_FILE", "swarm.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	settings := config.LoadSettings()
	logger := logx.New(logFile).With("session", uuid.NewString())
	logger.Info("starting", "seed", settings.Seed, "infinite", settings.Infinite, "save", settings.SavePath)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(ctx, reader, os.Stdout, loop.Options{Settings: settings, Logger: logger})
	stop()
	_ = term.Restore(fd, oldState)
	if err != nil {
		logger.Error("game error", "err", err)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
