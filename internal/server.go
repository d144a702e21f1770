package internal

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/planwise/planwise/internal/agent"
	"github.com/planwise/planwise/internal/audit"
	"github.com/planwise/planwise/internal/auth"
	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/internal/document"
	"github.com/planwise/planwise/internal/knowledge"
	"github.com/planwise/planwise/internal/mcp"
	"github.com/planwise/planwise/internal/permission"
	"github.com/planwise/planwise/internal/pushnotification"
	"github.com/planwise/planwise/internal/roadmap"
	"github.com/planwise/planwise/internal/user"
	"github.com/planwise/planwise/pkg/cerr"
	"github.com/planwise/planwise/pkg/clog"
)

type Server struct {
	server      *http.Server
	env         *config.Env
	authService *auth.Service
	issuer      *auth.TokenIssuer
	users       *user.Service
	gate        *permission.Service
	agents      *agent.Service
	roadmaps    *roadmap.Service
	documents   *document.Service
	knowledge   *knowledge.Service
	push        *pushnotification.Service
	auditLog    audit.Repository
	mcpHandler  *mcp.Handler
}

func NewServer(
	env *config.Env,
	authService *auth.Service,
	issuer *auth.TokenIssuer,
	users *user.Service,
	gate *permission.Service,
	agents *agent.Service,
	roadmaps *roadmap.Service,
	documents *document.Service,
	knowledgeService *knowledge.Service,
	push *pushnotification.Service,
	auditLog audit.Repository,
	mcpHandler *mcp.Handler,
) *Server {
	return &Server{
		env:         env,
		authService: authService,
		issuer:      issuer,
		users:       users,
		gate:        gate,
		agents:      agents,
		roadmaps:    roadmaps,
		documents:   documents,
		knowledge:   knowledgeService,
		push:        push,
		auditLog:    auditLog,
		mcpHandler:  mcpHandler,
	}
}

// publicPath reports whether a request may pass without a bearer token.
func publicPath(r *http.Request) bool {
	if r.URL.Path == "/health" {
		return true
	}
	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/login" {
		return true
	}
	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/register" {
		return true
	}
	if r.Method == http.MethodGet {
		switch {
		case r.URL.Path == "/mcp/info",
			r.URL.Path == "/mcp/tools",
			len(r.URL.Path) > len("/mcp/tools/") && r.URL.Path[:len("/mcp/tools/")] == "/mcp/tools/",
			r.URL.Path == "/api/push/vapid-public-key":
			return true
		}
	}
	return false
}

// ListenAndServe starts the HTTP server. ctx is the base context for all
// incoming requests; cancelling it makes in-flight request contexts expire so
// shutdown does not wait on long polls.
func (s *Server) ListenAndServe(ctx context.Context) error {
	r := chi.NewRouter()
	r.Use(
		clog.SlogChiMiddleware(),
		cerr.NewJSONErrorChiMiddleware(),
		auth.Middleware(s.issuer, publicPath),
	)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.mcpHandler.Routes(r)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)

		r.Get("/permissions/me", s.handleMyPermissions)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Get("/{userID}", s.handleGetUser)
			r.Put("/{userID}/role", s.handleUpdateUserRole)
			r.Delete("/{userID}", s.handleDeleteUser)
		})

		r.Get("/audit", s.handleListAuditLog)

		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Get("/members", s.handleListMembers)
			r.Delete("/members/{userID}", s.handleRemoveMember)
			r.Get("/roadmaps", s.handleListRoadmaps)
			r.Post("/roadmaps", s.handleCreateRoadmap)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/{documentID}", s.handleGetDocument)
			r.Put("/{documentID}", s.handleUpdateDocument)
			r.Delete("/{documentID}", s.handleDeleteDocument)
		})

		r.Get("/knowledge/{kind}/{artifactID}", s.handleGetKnowledgeArtifact)

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", s.handleListAgents)
			r.Post("/", s.handleCreateAgent)
			r.Get("/{agentID}", s.handleGetAgent)
			r.Put("/{agentID}", s.handleUpdateAgent)
			r.Delete("/{agentID}", s.handleDeleteAgent)
			r.Post("/{agentID}/execute", s.handleExecuteAgent)
		})

		r.Route("/push", func(r chi.Router) {
			r.Get("/vapid-public-key", s.handleVapidPublicKey)
			r.Post("/subscribe", s.handlePushSubscribe)
			r.Post("/unsubscribe", s.handlePushUnsubscribe)
			r.Post("/test", s.handlePushTest)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			cerr.SetNewJSONError(r.Context(), cerr.NotFound, "not found", nil)
		})
	})

	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting server", "addr", addr)

	s.server = &http.Server{
		Addr: addr,
		Handler: h2c.NewHandler(cors.New(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}).Handler(r), &http2.Server{}),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
