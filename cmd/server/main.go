package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rmarques/searchagent/internal/agent"
	"github.com/rmarques/searchagent/internal/config"
	"github.com/rmarques/searchagent/internal/functions"
	"github.com/rmarques/searchagent/internal/gemini"
	"github.com/rmarques/searchagent/internal/search"
	"github.com/rmarques/searchagent/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	searcher := search.NewDuckDuckGo(
		search.WithBaseURL(cfg.SearchBaseURL),
		search.WithHTTPClient(&http.Client{Timeout: cfg.SearchTimeout}),
		search.WithLogger(logger),
	)

	now := time.Now()

	webSearch := functions.CreateWebSearchFunctionDeclaration(searcher)
	toolAgent := agent.NewToolAgent(
		gemini.NewModel(client, cfg.Model, gemini.SystemInstruction(now), webSearch),
		logger,
	)
	if err := toolAgent.AddFunction(webSearch); err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	browserUse := functions.CreateBrowserUseFunctionDeclaration(searcher)
	manual := agent.NewManual(
		gemini.NewModel(client, cfg.Model, gemini.ManualSystemInstruction(now), browserUse),
		browserUse,
		cfg.ModelTimeout,
		logger,
	)

	srv := server.New(agent.NewAutomatic(toolAgent, logger), manual, logger)

	logger.Info("server listening", "port", cfg.Port, "model", cfg.Model)
	if err := http.ListenAndServe(":"+cfg.Port, srv.Router()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
