package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/galleria/internal/config"
	"git.home.luguber.info/inful/galleria/internal/logfields"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"galleria.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Src    string `short:"s" help:"Example source directory" default:"./examples"`
		Target string `short:"t" help:"Output directory for generated pages" default:"./auto_examples"`
	} `cmd:"" help:"Build the example gallery once"`

	Watch struct {
		Src    string `short:"s" help:"Example source directory" default:"./examples"`
		Target string `short:"t" help:"Output directory for generated pages" default:"./auto_examples"`
	} `cmd:"" help:"Rebuild the gallery whenever example sources change"`
}

func main() {
	// Local overrides (history db path etc.); absence is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", logfields.Error(err))
		os.Exit(1)
	}

	runID := uuid.NewString()
	logger = logger.With(logfields.RunID(runID))

	switch ctx.Command() {
	case "build":
		if err := runBuild(cfg, logger, runID, CLI.Build.Src, CLI.Build.Target); err != nil {
			slog.Error("Build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "watch":
		if err := runWatch(cfg, logger, CLI.Watch.Src, CLI.Watch.Target); err != nil {
			slog.Error("Watch failed", logfields.Error(err))
			os.Exit(1)
		}
	default:
		slog.Error("Unknown command", slog.String("command", ctx.Command()))
		os.Exit(1)
	}
}
