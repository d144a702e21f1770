package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	server "github.com/planwise/planwise/internal"
	"github.com/planwise/planwise/internal/agent"
	agentrepo "github.com/planwise/planwise/internal/agent/repositoryimpl"
	auditrepo "github.com/planwise/planwise/internal/audit/repositoryimpl"
	"github.com/planwise/planwise/internal/auth"
	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/internal/document"
	documentrepo "github.com/planwise/planwise/internal/document/repositoryimpl"
	"github.com/planwise/planwise/internal/eventbus"
	"github.com/planwise/planwise/internal/knowledge"
	knowledgerepo "github.com/planwise/planwise/internal/knowledge/repositoryimpl"
	"github.com/planwise/planwise/internal/mcp"
	"github.com/planwise/planwise/internal/permission"
	permissionrepo "github.com/planwise/planwise/internal/permission/repositoryimpl"
	"github.com/planwise/planwise/internal/project"
	projectrepo "github.com/planwise/planwise/internal/project/repositoryimpl"
	"github.com/planwise/planwise/internal/pushnotification"
	pushsubrepo "github.com/planwise/planwise/internal/pushsubscription/repositoryimpl"
	"github.com/planwise/planwise/internal/roadmap"
	roadmaprepo "github.com/planwise/planwise/internal/roadmap/repositoryimpl"
	"github.com/planwise/planwise/internal/sprint"
	sprintrepo "github.com/planwise/planwise/internal/sprint/repositoryimpl"
	"github.com/planwise/planwise/internal/stats"
	"github.com/planwise/planwise/internal/task"
	taskrepo "github.com/planwise/planwise/internal/task/repositoryimpl"
	"github.com/planwise/planwise/internal/team"
	teamrepo "github.com/planwise/planwise/internal/team/repositoryimpl"
	"github.com/planwise/planwise/internal/user"
	userrepo "github.com/planwise/planwise/internal/user/repositoryimpl"
	"github.com/planwise/planwise/pkg/clog"
	"github.com/planwise/planwise/pkg/storage"
)

const (
	serverName    = "planwise"
	serverVersion = "0.4.0"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	// Setup storage
	var store storage.Storage
	switch env.StorageEnv.Type {
	case "s3":
		store, err = storage.NewS3Storage(context.Background(), env.StorageEnv.S3Bucket, env.StorageEnv.S3Prefix, env.StorageEnv.S3Region)
		if err != nil {
			slog.Error("failed to create S3 storage", "error", err)
			os.Exit(1)
		}
	default:
		store, err = storage.NewLocalStorage(env.StorageEnv.BaseDir)
		if err != nil {
			slog.Error("failed to create local storage", "error", err)
			os.Exit(1)
		}
	}

	// Setup event bus
	bus := eventbus.New()

	// Setup repositories
	userRepo := userrepo.NewYAMLRepository(store)
	membershipRepo := permissionrepo.NewYAMLRepository(store)
	auditRepo := auditrepo.NewYAMLRepository(store)
	projectRepo := projectrepo.NewYAMLRepository(store)
	teamRepo := teamrepo.NewYAMLRepository(store)
	taskRepo := taskrepo.NewYAMLRepository(store)
	sprintRepo := sprintrepo.NewYAMLRepository(store)
	documentRepo := documentrepo.NewYAMLRepository(store)
	knowledgeRepo := knowledgerepo.NewYAMLRepository(store)
	roadmapRepo := roadmaprepo.NewYAMLRepository(store)
	agentRepo := agentrepo.NewYAMLRepository(store)
	pushSubRepo := pushsubrepo.NewYAMLRepository(store)

	// Setup services
	gate := permission.NewService(userRepo, membershipRepo, auditRepo)
	userService := user.NewService(userRepo, gate)
	projectService := project.NewService(projectRepo, membershipRepo, gate, bus)
	teamService := team.NewService(teamRepo, gate)
	taskService := task.NewService(taskRepo, gate, bus)
	sprintService := sprint.NewService(sprintRepo, gate)
	documentService := document.NewService(documentRepo, gate)
	knowledgeService := knowledge.NewService(knowledgeRepo, gate)
	roadmapService := roadmap.NewService(roadmapRepo, gate)
	statsService := stats.NewService(taskRepo, membershipRepo, documentRepo, sprintRepo, gate)
	agentService := agent.NewService(agentRepo, gate, agent.NewClaudeRunner())

	if env.AdminEmail != "" {
		if _, err := userService.Bootstrap(context.Background(), env.AdminEmail, env.AdminName, env.AdminPassword); err != nil {
			slog.Error("failed to bootstrap admin account", "error", err)
			os.Exit(1)
		}
	}

	// Setup auth
	if env.JWTSecret == "" {
		slog.Error("PLANWISE_JWT_SECRET is required")
		os.Exit(1)
	}
	issuer := auth.NewTokenIssuer(config.AuthEnvFromEnv(env))
	authService := auth.NewService(userService, issuer)

	// Setup MCP surface
	dispatcher := mcp.NewDispatcher(mcp.Services{
		Project:       projectService,
		Team:          teamService,
		Task:          taskService,
		Sprint:        sprintService,
		Documentation: documentService,
		Knowledge:     knowledgeService,
		Stats:         statsService,
		Permission:    gate,
	})
	mcpHandler := mcp.NewHandler(serverName, serverVersion, dispatcher)

	// Setup push notification
	vapidEnv := config.VAPIDEnvFromEnv(env)
	pushSender := pushnotification.NewSender(vapidEnv, pushSubRepo)
	pushService := pushnotification.NewService(vapidEnv, pushSubRepo, pushSender)
	pushDispatcher := pushnotification.NewDispatcher(bus, taskRepo, membershipRepo, pushSender)

	srv := server.NewServer(
		env,
		authService,
		issuer,
		userService,
		gate,
		agentService,
		roadmapService,
		documentService,
		knowledgeService,
		pushService,
		auditRepo,
		mcpHandler,
	)

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	go pushDispatcher.Start(ctx)

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
