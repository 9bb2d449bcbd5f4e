package main

import (
	"log/slog"
	"os"

	"github.com/phanxgames/krasue"
	"github.com/urfave/cli"
)

var logLevel = new(slog.LevelVar)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

func setupLogging(ctx *cli.Context) {
	logLevel.Set(slog.LevelWarn)
	if ctx.GlobalBool("v") {
		logLevel.Set(slog.LevelInfo)
	}
	if ctx.GlobalBool("vv") {
		logLevel.Set(slog.LevelDebug)
	}
	krasue.SetLogger(logger.With("lib", "krasue"))
}
