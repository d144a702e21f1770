package internal

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/planwise/planwise/internal/agent"
	"github.com/planwise/planwise/internal/auth"
	"github.com/planwise/planwise/internal/knowledge"
	"github.com/planwise/planwise/internal/roadmap"
	"github.com/planwise/planwise/internal/user"
	"github.com/planwise/planwise/pkg/cerr"
)

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return cerr.NewError(cerr.InvalidArgument, "malformed JSON body", err)
	}
	return nil
}

func callerID(r *http.Request) (string, bool) {
	return auth.UserIDFromContext(r.Context())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	result, err := s.authService.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), result)
}

// handleRegister creates a USER account. Creating elevated accounts goes
// through the authenticated user management endpoints.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Password    string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	u, err := s.users.Create(r.Context(), "", body.Email, body.DisplayName, body.Password, user.SystemRoleUser)
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), u)
}

func (s *Server) handleMyPermissions(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		cerr.SetNewJSONError(r.Context(), cerr.Unauthenticated, "authentication required", nil)
		return
	}
	projectID := r.URL.Query().Get("project_id")
	set, err := s.gate.EffectivePermissions(r.Context(), uid, projectID)
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), map[string]any{
		"user_id":     uid,
		"project_id":  projectID,
		"permissions": set.Slice(),
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	if err := s.gate.RequireSystemAdmin(r.Context(), uid); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	users, total, err := s.users.List(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), map[string]any{"users": users, "total": total})
}

func (s *Server) handleListAuditLog(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	if err := s.gate.RequireSystemAdmin(r.Context(), uid); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	entries, total, err := s.auditLog.List(r.Context(),
		r.URL.Query().Get("actor_id"), r.URL.Query().Get("resource_type"),
		queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), map[string]any{"entries": entries, "total": total})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), u)
}

func (s *Server) handleUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	var body struct {
		Role string `json:"role"`
	}
	if err := decodeBody(r, &body); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	u, err := s.users.UpdateSystemRole(r.Context(), uid, chi.URLParam(r, "userID"), user.SystemRole(body.Role))
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	if err := s.users.Delete(r.Context(), uid, chi.URLParam(r, "userID")); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), map[string]bool{"deleted": true})
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	members, err := s.gate.ListMembers(r.Context(), uid, chi.URLParam(r, "projectID"))
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), map[string]any{"members": members})
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	if err := s.gate.RemoveMember(r.Context(), uid, chi.URLParam(r, "projectID"), chi.URLParam(r, "userID")); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), map[string]bool{"removed": true})
}

func (s *Server) handleListRoadmaps(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	roadmaps, total, err := s.roadmaps.List(r.Context(), uid, chi.URLParam(r, "projectID"), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), map[string]any{"roadmaps": roadmaps, "total": total})
}

func (s *Server) handleCreateRoadmap(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	var body struct {
		Title       string              `json:"title"`
		TimeHorizon string              `json:"time_horizon"`
		Milestones  []roadmap.Milestone `json:"milestones"`
	}
	if err := decodeBody(r, &body); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	rm, err := s.roadmaps.Create(r.Context(), uid, chi.URLParam(r, "projectID"), body.Title, body.TimeHorizon, body.Milestones)
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), rm)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	doc, err := s.documents.Get(r.Context(), uid, chi.URLParam(r, "documentID"))
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), doc)
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	var body struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := decodeBody(r, &body); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	doc, err := s.documents.Update(r.Context(), uid, chi.URLParam(r, "documentID"), body.Title, body.Content, body.Tags)
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	if err := s.documents.Delete(r.Context(), uid, chi.URLParam(r, "documentID")); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), map[string]any{"deleted": true})
}

func (s *Server) handleGetKnowledgeArtifact(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	a, err := s.knowledge.Get(r.Context(), uid, knowledge.Kind(chi.URLParam(r, "kind")), chi.URLParam(r, "artifactID"))
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), a)
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	agents, total, err := s.agents.List(r.Context(), uid, r.URL.Query().Get("project_id"), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), map[string]any{"agents": agents, "total": total})
}

type agentBody struct {
	ProjectID   string `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
	Model       string `json:"model"`
	MaxTurns    int    `json:"max_turns"`
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	var body agentBody
	if err := decodeBody(r, &body); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	a, err := s.agents.Create(r.Context(), uid, agent.CreateInput{
		ProjectID:   body.ProjectID,
		Name:        body.Name,
		Description: body.Description,
		Prompt:      body.Prompt,
		Model:       body.Model,
		MaxTurns:    body.MaxTurns,
	})
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), a)
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	a, err := s.agents.Get(r.Context(), uid, chi.URLParam(r, "agentID"))
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), a)
}

func (s *Server) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	var body agentBody
	if err := decodeBody(r, &body); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	a, err := s.agents.Update(r.Context(), uid, chi.URLParam(r, "agentID"), agent.UpdateInput{
		Name:        body.Name,
		Description: body.Description,
		Prompt:      body.Prompt,
		Model:       body.Model,
		MaxTurns:    body.MaxTurns,
	})
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), a)
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	if err := s.agents.Delete(r.Context(), uid, chi.URLParam(r, "agentID")); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), map[string]bool{"deleted": true})
}

func (s *Server) handleExecuteAgent(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	var body struct {
		Input string `json:"input"`
	}
	if err := decodeBody(r, &body); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	exec, err := s.agents.Execute(r.Context(), uid, chi.URLParam(r, "agentID"), body.Input)
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), exec)
}

func (s *Server) handleVapidPublicKey(w http.ResponseWriter, r *http.Request) {
	key, err := s.push.VapidPublicKey()
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), map[string]string{"public_key": key})
}

func (s *Server) handlePushSubscribe(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	var body struct {
		Endpoint  string `json:"endpoint"`
		P256dhKey string `json:"p256dh_key"`
		AuthKey   string `json:"auth_key"`
	}
	if err := decodeBody(r, &body); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	if err := s.push.Subscribe(r.Context(), uid, body.Endpoint, body.P256dhKey, body.AuthKey); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), map[string]bool{"subscribed": true})
}

func (s *Server) handlePushUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Endpoint string `json:"endpoint"`
	}
	if err := decodeBody(r, &body); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	if err := s.push.Unsubscribe(r.Context(), body.Endpoint); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), map[string]bool{"unsubscribed": true})
}

func (s *Server) handlePushTest(w http.ResponseWriter, r *http.Request) {
	uid, _ := callerID(r)
	s.push.SendTest(r.Context(), uid)
	cerr.SetJSONResponse(r.Context(), map[string]bool{"sent": true})
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
