// Package app wires configuration, stores and services into a runnable
// gateway.
package app

import (
	"context"
	"fmt"
	"os"

	"siteforge/internal/agent"
	"siteforge/internal/archive"
	"siteforge/internal/builder"
	"siteforge/internal/config"
	"siteforge/internal/handler"
	"siteforge/internal/llm"
	"siteforge/internal/mirror"
	"siteforge/internal/planner"
	"siteforge/internal/registry"
	"siteforge/internal/safeio"
	"siteforge/internal/server"
	"siteforge/internal/status"
)

type App struct {
	server   *server.Server
	registry *registry.Store
	llm      llm.Client
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dirs := []string{
		cfg.Data.ProjectsDir,
		cfg.Data.DeployDir,
		cfg.Data.StudioDir,
		cfg.Data.AgentWorkDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}

	// Dependencies
	reg := registry.NewFromEnv(cfg.Data.RegistryPath)
	tracker := status.NewTracker()
	bld := builder.New(cfg.Data.ProjectsDir, tracker)

	archiveSvc, err := archive.NewService(cfg.Data.ProjectsDir)
	if err != nil {
		return nil, fmt.Errorf("archive service: %w", err)
	}

	runner := agent.New(agent.Config{
		Bin:     cfg.Agent.Bin,
		Script:  cfg.Agent.Script,
		WorkDir: cfg.Data.AgentWorkDir,
		Timeout: cfg.Agent.Timeout,
	}, tracker)

	var client llm.Client
	if cfg.LLM.Enabled {
		client, err = llm.New(ctx, llm.Config{
			Provider: cfg.LLM.Provider,
			APIKey:   cfg.LLM.APIKey,
			Model:    cfg.LLM.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("llm client: %w", err)
		}
	}
	plannerSvc := planner.New(cfg.Data.StudioDir, client)

	var mir *mirror.Mirror
	if cfg.Mirror.Enabled {
		mir, err = mirror.New(mirror.Config{
			Endpoint:  cfg.Mirror.Endpoint,
			Region:    cfg.Mirror.Region,
			AccessKey: cfg.Mirror.AccessKey,
			SecretKey: cfg.Mirror.SecretKey,
			Bucket:    cfg.Mirror.Bucket,
			UseSSL:    cfg.Mirror.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("mirror: %w", err)
		}
	}

	previewFS, err := safeio.NewSafeFS(cfg.Data.DeployDir)
	if err != nil {
		return nil, fmt.Errorf("preview fs: %w", err)
	}

	// Handlers
	generateHandler := handler.NewGenerateHandler(bld, runner, tracker, reg, archiveSvc, mir, cfg.Data.DeployDir)
	statusHandler := handler.NewStatusHandler(tracker)
	projectsHandler := handler.NewProjectsHandler(reg, archiveSvc, mir)
	plannerHandler := handler.NewPlannerHandler(plannerSvc)

	// Routing & Server
	mux := server.NewMux(generateHandler, statusHandler, projectsHandler, plannerHandler, previewFS)
	srv := server.New(cfg.Port, mux)

	return &App{
		server:   srv,
		registry: reg,
		llm:      client,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.registry.Save()
	if a.llm != nil {
		_ = a.llm.Close()
	}
	return a.server.Shutdown(ctx)
}
