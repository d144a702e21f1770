package stats

import (
	"context"

	"github.com/planwise/planwise/internal/document"
	"github.com/planwise/planwise/internal/permission"
	"github.com/planwise/planwise/internal/sprint"
	"github.com/planwise/planwise/internal/task"
)

// ProjectStats summarizes one project for dashboards.
type ProjectStats struct {
	ProjectID     string         `json:"project_id"`
	TasksByStatus map[string]int `json:"tasks_by_status"`
	TotalTasks    int            `json:"total_tasks"`
	MemberCount   int            `json:"member_count"`
	DocumentCount int            `json:"document_count"`
	SprintCount   int            `json:"sprint_count"`
}

// TaskStats aggregates tasks across one project, or all of them when
// projectID is empty.
type TaskStats struct {
	ProjectID  string         `json:"project_id,omitempty"`
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
}

type Service struct {
	tasks       task.Repository
	memberships permission.MembershipRepository
	documents   document.Repository
	sprints     sprint.Repository
	gate        *permission.Service
}

func NewService(
	tasks task.Repository,
	memberships permission.MembershipRepository,
	documents document.Repository,
	sprints sprint.Repository,
	gate *permission.Service,
) *Service {
	return &Service{
		tasks:       tasks,
		memberships: memberships,
		documents:   documents,
		sprints:     sprints,
		gate:        gate,
	}
}

func (s *Service) ProjectStats(ctx context.Context, callerID, projectID string) (*ProjectStats, error) {
	if err := s.gate.Require(ctx, callerID, permission.ProjectRead, projectID); err != nil {
		return nil, err
	}

	tasks, _, err := s.tasks.List(ctx, task.Filter{ProjectID: projectID}, 0, 0)
	if err != nil {
		return nil, err
	}
	members, err := s.memberships.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	_, docCount, err := s.documents.List(ctx, projectID, 0, 0)
	if err != nil {
		return nil, err
	}
	_, sprintCount, err := s.sprints.List(ctx, projectID, 0, 0)
	if err != nil {
		return nil, err
	}

	byStatus := map[string]int{}
	for _, t := range tasks {
		byStatus[string(t.Status)]++
	}
	return &ProjectStats{
		ProjectID:     projectID,
		TasksByStatus: byStatus,
		TotalTasks:    len(tasks),
		MemberCount:   len(members),
		DocumentCount: docCount,
		SprintCount:   sprintCount,
	}, nil
}

func (s *Service) TaskStats(ctx context.Context, callerID, projectID string) (*TaskStats, error) {
	if err := s.gate.Require(ctx, callerID, permission.TaskRead, projectID); err != nil {
		return nil, err
	}

	tasks, _, err := s.tasks.List(ctx, task.Filter{ProjectID: projectID}, 0, 0)
	if err != nil {
		return nil, err
	}

	st := &TaskStats{
		ProjectID:  projectID,
		Total:      len(tasks),
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
	}
	for _, t := range tasks {
		st.ByStatus[string(t.Status)]++
		st.ByPriority[string(t.Priority)]++
	}
	return st, nil
}
