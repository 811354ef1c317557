package main

import (
	"fmt"
	"log/slog"
	"os"

	"tabpad/internal/app"
)

func main() {
	cfg := app.DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	application, err := app.New(cfg)
	if err == nil {
		err = application.Run()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "tabpad failed: %v\n", err)
		os.Exit(1)
	}
}
