// Package main contains the entrypoint for the SapphAI chat server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/solodev/sapphai/internal/ai"
	"github.com/solodev/sapphai/internal/chat"
	"github.com/solodev/sapphai/internal/config"
	"github.com/solodev/sapphai/internal/logger"
	"github.com/solodev/sapphai/internal/memory"
	"github.com/solodev/sapphai/internal/persona"
	"github.com/solodev/sapphai/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components (config, logger, persona, store, ai
// client, chat service, server), handles graceful shutdown, and returns
// an exit code. Startup failures are fatal; nothing after startup is.
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info("logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	p, err := persona.Load(cfg.Persona.PersonalityPath, cfg.Persona.ResponsesPath)
	if err != nil {
		log.Error("failed to load persona configuration", "error", err)
		return 1
	}
	log.Info("persona loaded", "alias", p.Alias())

	store := memory.NewStore(cfg.Memory.MaxUsers, log)

	client, err := ai.New(ctx, cfg.AI, log)
	if err != nil {
		log.Error("failed to initialize completion client", "error", err)
		return 1
	}

	chatSvc := chat.NewService(p, store, client, cfg.Chat.SupportLink, log)
	srv := server.New(cfg, chatSvc, store, log)

	log.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
		"ai_provider", cfg.AI.Provider,
		"ai_model", cfg.AI.Model)

	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped due to error", "error", err)
		return 1
	}

	log.Info("server stopped gracefully")
	return 0
}
