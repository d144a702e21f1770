package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	auditrepo "github.com/planwise/planwise/internal/audit/repositoryimpl"
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
	"github.com/planwise/planwise/internal/sprint"
	sprintrepo "github.com/planwise/planwise/internal/sprint/repositoryimpl"
	"github.com/planwise/planwise/internal/stats"
	"github.com/planwise/planwise/internal/task"
	taskrepo "github.com/planwise/planwise/internal/task/repositoryimpl"
	"github.com/planwise/planwise/internal/team"
	teamrepo "github.com/planwise/planwise/internal/team/repositoryimpl"
	userrepo "github.com/planwise/planwise/internal/user/repositoryimpl"
	"github.com/planwise/planwise/pkg/clog"
	"github.com/planwise/planwise/pkg/storage"
)

const (
	serverName    = "planwise"
	serverVersion = "0.4.0"
)

var (
	app    = kingpin.New("planwise-mcp", "Planwise MCP server over stdio")
	userID = app.Flag("user-id", "User to run tool calls as (overrides PLANWISE_MCP_USER_ID)").String()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// stdout carries the JSON-RPC stream, so the logger must stay on stderr.
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	uid := env.MCPEnv.UserID
	if *userID != "" {
		uid = *userID
	}
	if uid == "" {
		slog.Error("no user identity: set PLANWISE_MCP_USER_ID or pass --user-id")
		os.Exit(1)
	}

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

	bus := eventbus.New()

	userRepo := userrepo.NewYAMLRepository(store)
	membershipRepo := permissionrepo.NewYAMLRepository(store)
	auditRepo := auditrepo.NewYAMLRepository(store)
	projectRepo := projectrepo.NewYAMLRepository(store)
	teamRepo := teamrepo.NewYAMLRepository(store)
	taskRepo := taskrepo.NewYAMLRepository(store)
	sprintRepo := sprintrepo.NewYAMLRepository(store)
	documentRepo := documentrepo.NewYAMLRepository(store)
	knowledgeRepo := knowledgerepo.NewYAMLRepository(store)

	gate := permission.NewService(userRepo, membershipRepo, auditRepo)

	dispatcher := mcp.NewDispatcher(mcp.Services{
		Project:       project.NewService(projectRepo, membershipRepo, gate, bus),
		Team:          team.NewService(teamRepo, gate),
		Task:          task.NewService(taskRepo, gate, bus),
		Sprint:        sprint.NewService(sprintRepo, gate),
		Documentation: document.NewService(documentRepo, gate),
		Knowledge:     knowledge.NewService(knowledgeRepo, gate),
		Stats:         stats.NewService(taskRepo, membershipRepo, documentRepo, sprintRepo, gate),
		Permission:    gate,
	})

	s, err := mcp.NewStdioServer(serverName, serverVersion, uid, dispatcher)
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	slog.Info("serving MCP over stdio", "user_id", uid)
	if err := mcp.ServeStdio(ctx, s); err != nil && ctx.Err() == nil {
		slog.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}
