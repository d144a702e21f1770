package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/planwise/planwise/internal/knowledge"
	"github.com/planwise/planwise/internal/permission"
	"github.com/planwise/planwise/internal/project"
	"github.com/planwise/planwise/internal/task"
	"github.com/planwise/planwise/pkg/cerr"
)

func objectSchema(required []string, props map[string]Property) InputSchema {
	if required == nil {
		required = []string{}
	}
	return InputSchema{Type: "object", Properties: props, Required: required}
}

// registerAll declares the full tool catalog. Declaration order here is the
// order both tools/list and GET /mcp/tools present.
func (d *Dispatcher) registerAll() {
	d.registerProjectTools()
	d.registerTeamTools()
	d.registerTaskTools()
	d.registerSprintTools()
	d.registerDocumentationTools()
	d.registerStatsTools()
	d.registerKnowledgeTools()
	d.registerPermissionTools()
}

func (d *Dispatcher) registerProjectTools() {
	d.register(ToolDefinition{
		Name:        "get_projects",
		Description: "List all projects visible to the caller",
		InputSchema: objectSchema(nil, map[string]Property{
			"limit":  {Type: "number", Description: "Maximum number of projects to return"},
			"offset": {Type: "number", Description: "Number of projects to skip"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		projects, total, err := d.services.Project.List(ctx, userID, argInt(args, "limit", 0), argInt(args, "offset", 0))
		if err != nil {
			return "", err
		}
		return toJSON(map[string]any{"projects": projects, "total": total})
	})

	d.register(ToolDefinition{
		Name:        "get_project",
		Description: "Get a single project by id",
		InputSchema: objectSchema([]string{"project_id"}, map[string]Property{
			"project_id": {Type: "string", Description: "Project identifier"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		p, err := d.services.Project.Get(ctx, userID, argString(args, "project_id"))
		if err != nil {
			return "", err
		}
		return toJSON(p)
	})

	d.register(ToolDefinition{
		Name:        "create_project",
		Description: "Create a new project; the creator becomes its owner",
		InputSchema: objectSchema([]string{"name"}, map[string]Property{
			"name":        {Type: "string", Description: "Project name"},
			"description": {Type: "string", Description: "Project description"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		p, err := d.services.Project.Create(ctx, userID, argString(args, "name"), argString(args, "description"))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Created project %q (id: %s)", p.Name, p.ID), nil
	})

	d.register(ToolDefinition{
		Name:        "update_project",
		Description: "Update a project's name, description or status",
		InputSchema: objectSchema([]string{"project_id"}, map[string]Property{
			"project_id":  {Type: "string", Description: "Project identifier"},
			"name":        {Type: "string", Description: "New project name"},
			"description": {Type: "string", Description: "New project description"},
			"status":      {Type: "string", Description: "New project status", Enum: []string{"ACTIVE", "ARCHIVED"}},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		p, err := d.services.Project.Update(ctx, userID,
			argString(args, "project_id"),
			argString(args, "name"),
			argString(args, "description"),
			project.Status(argString(args, "status")),
		)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Updated project %q (id: %s)", p.Name, p.ID), nil
	})

	d.register(ToolDefinition{
		Name:        "delete_project",
		Description: "Delete a project (soft delete)",
		InputSchema: objectSchema([]string{"project_id"}, map[string]Property{
			"project_id": {Type: "string", Description: "Project identifier"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		projectID := argString(args, "project_id")
		if err := d.services.Project.Delete(ctx, userID, projectID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleted project (id: %s)", projectID), nil
	})
}

func (d *Dispatcher) registerTeamTools() {
	d.register(ToolDefinition{
		Name:        "get_teams",
		Description: "List teams in a project",
		InputSchema: objectSchema([]string{"project_id"}, map[string]Property{
			"project_id": {Type: "string", Description: "Project identifier"},
			"limit":      {Type: "number", Description: "Maximum number of teams to return"},
			"offset":     {Type: "number", Description: "Number of teams to skip"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		teams, total, err := d.services.Team.List(ctx, userID, argString(args, "project_id"), argInt(args, "limit", 0), argInt(args, "offset", 0))
		if err != nil {
			return "", err
		}
		return toJSON(map[string]any{"teams": teams, "total": total})
	})

	d.register(ToolDefinition{
		Name:        "get_team",
		Description: "Get a single team by id",
		InputSchema: objectSchema([]string{"team_id"}, map[string]Property{
			"team_id": {Type: "string", Description: "Team identifier"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		t, err := d.services.Team.Get(ctx, userID, argString(args, "team_id"))
		if err != nil {
			return "", err
		}
		return toJSON(t)
	})

	d.register(ToolDefinition{
		Name:        "create_team",
		Description: "Create a team in a project",
		InputSchema: objectSchema([]string{"project_id", "name"}, map[string]Property{
			"project_id":  {Type: "string", Description: "Project identifier"},
			"name":        {Type: "string", Description: "Team name"},
			"description": {Type: "string", Description: "Team description"},
			"lead_id":     {Type: "string", Description: "User id of the team lead"},
			"member_ids":  {Type: "array", Description: "User ids of the team members"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		t, err := d.services.Team.Create(ctx, userID,
			argString(args, "project_id"),
			argString(args, "name"),
			argString(args, "description"),
			argString(args, "lead_id"),
			argStringSlice(args, "member_ids"),
		)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Created team %q (id: %s)", t.Name, t.ID), nil
	})
}

func (d *Dispatcher) registerTaskTools() {
	d.register(ToolDefinition{
		Name:        "get_tasks",
		Description: "List tasks, optionally filtered by project, sprint, status or assignee",
		InputSchema: objectSchema(nil, map[string]Property{
			"project_id":  {Type: "string", Description: "Filter by project"},
			"sprint_id":   {Type: "string", Description: "Filter by sprint"},
			"status":      {Type: "string", Description: "Filter by status", Enum: []string{"TODO", "IN_PROGRESS", "IN_REVIEW", "DONE"}},
			"assignee_id": {Type: "string", Description: "Filter by assignee"},
			"limit":       {Type: "number", Description: "Maximum number of tasks to return"},
			"offset":      {Type: "number", Description: "Number of tasks to skip"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		filter := task.Filter{
			ProjectID:  argString(args, "project_id"),
			SprintID:   argString(args, "sprint_id"),
			Status:     task.Status(argString(args, "status")),
			AssigneeID: argString(args, "assignee_id"),
		}
		tasks, total, err := d.services.Task.List(ctx, userID, filter, argInt(args, "limit", 0), argInt(args, "offset", 0))
		if err != nil {
			return "", err
		}
		return toJSON(map[string]any{"tasks": tasks, "total": total})
	})

	d.register(ToolDefinition{
		Name:        "get_task",
		Description: "Get a single task by id",
		InputSchema: objectSchema([]string{"task_id"}, map[string]Property{
			"task_id": {Type: "string", Description: "Task identifier"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		t, err := d.services.Task.Get(ctx, userID, argString(args, "task_id"))
		if err != nil {
			return "", err
		}
		return toJSON(t)
	})

	d.register(ToolDefinition{
		Name:        "create_task",
		Description: "Create a task in a project",
		InputSchema: objectSchema([]string{"project_id", "title"}, map[string]Property{
			"project_id":  {Type: "string", Description: "Project identifier"},
			"title":       {Type: "string", Description: "Task title"},
			"description": {Type: "string", Description: "Task description"},
			"sprint_id":   {Type: "string", Description: "Sprint to place the task in"},
			"priority":    {Type: "string", Description: "Task priority", Enum: []string{"LOW", "MEDIUM", "HIGH", "URGENT"}},
			"assignee_id": {Type: "string", Description: "User id of the assignee"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		t, err := d.services.Task.Create(ctx, userID, task.CreateInput{
			ProjectID:   argString(args, "project_id"),
			SprintID:    argString(args, "sprint_id"),
			Title:       argString(args, "title"),
			Description: argString(args, "description"),
			Priority:    task.Priority(argString(args, "priority")),
			AssigneeID:  argString(args, "assignee_id"),
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Created task %q (id: %s)", t.Title, t.ID), nil
	})

	d.register(ToolDefinition{
		Name:        "update_task",
		Description: "Update a task's fields, status or assignee",
		InputSchema: objectSchema([]string{"task_id"}, map[string]Property{
			"task_id":     {Type: "string", Description: "Task identifier"},
			"title":       {Type: "string", Description: "New task title"},
			"description": {Type: "string", Description: "New task description"},
			"status":      {Type: "string", Description: "New task status", Enum: []string{"TODO", "IN_PROGRESS", "IN_REVIEW", "DONE"}},
			"priority":    {Type: "string", Description: "New task priority", Enum: []string{"LOW", "MEDIUM", "HIGH", "URGENT"}},
			"assignee_id": {Type: "string", Description: "New assignee"},
			"sprint_id":   {Type: "string", Description: "New sprint"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		t, err := d.services.Task.Update(ctx, userID, argString(args, "task_id"), task.UpdateInput{
			Title:       argString(args, "title"),
			Description: argString(args, "description"),
			Status:      task.Status(argString(args, "status")),
			Priority:    task.Priority(argString(args, "priority")),
			AssigneeID:  argString(args, "assignee_id"),
			SprintID:    argString(args, "sprint_id"),
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Updated task %q (id: %s)", t.Title, t.ID), nil
	})
}

func (d *Dispatcher) registerSprintTools() {
	d.register(ToolDefinition{
		Name:        "get_sprints",
		Description: "List sprints in a project",
		InputSchema: objectSchema([]string{"project_id"}, map[string]Property{
			"project_id": {Type: "string", Description: "Project identifier"},
			"limit":      {Type: "number", Description: "Maximum number of sprints to return"},
			"offset":     {Type: "number", Description: "Number of sprints to skip"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		sprints, total, err := d.services.Sprint.List(ctx, userID, argString(args, "project_id"), argInt(args, "limit", 0), argInt(args, "offset", 0))
		if err != nil {
			return "", err
		}
		return toJSON(map[string]any{"sprints": sprints, "total": total})
	})

	d.register(ToolDefinition{
		Name:        "create_sprint",
		Description: "Create a sprint in a project",
		InputSchema: objectSchema([]string{"project_id", "name"}, map[string]Property{
			"project_id": {Type: "string", Description: "Project identifier"},
			"name":       {Type: "string", Description: "Sprint name"},
			"goal":       {Type: "string", Description: "Sprint goal"},
			"start_date": {Type: "string", Description: "Sprint start date", Format: "date-time"},
			"end_date":   {Type: "string", Description: "Sprint end date", Format: "date-time"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		startDate, err := argTime(args, "start_date")
		if err != nil {
			return "", err
		}
		endDate, err := argTime(args, "end_date")
		if err != nil {
			return "", err
		}
		sp, err := d.services.Sprint.Create(ctx, userID,
			argString(args, "project_id"),
			argString(args, "name"),
			argString(args, "goal"),
			startDate, endDate,
		)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Created sprint %q (id: %s)", sp.Name, sp.ID), nil
	})
}

func (d *Dispatcher) registerDocumentationTools() {
	d.register(ToolDefinition{
		Name:        "get_documentation",
		Description: "List documentation in a project",
		InputSchema: objectSchema([]string{"project_id"}, map[string]Property{
			"project_id": {Type: "string", Description: "Project identifier"},
			"limit":      {Type: "number", Description: "Maximum number of documents to return"},
			"offset":     {Type: "number", Description: "Number of documents to skip"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		docs, total, err := d.services.Documentation.List(ctx, userID, argString(args, "project_id"), argInt(args, "limit", 0), argInt(args, "offset", 0))
		if err != nil {
			return "", err
		}
		return toJSON(map[string]any{"documents": docs, "total": total})
	})

	d.register(ToolDefinition{
		Name:        "create_documentation",
		Description: "Create a document in a project",
		InputSchema: objectSchema([]string{"project_id", "title"}, map[string]Property{
			"project_id": {Type: "string", Description: "Project identifier"},
			"title":      {Type: "string", Description: "Document title"},
			"content":    {Type: "string", Description: "Document body"},
			"tags":       {Type: "array", Description: "Document tags"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		doc, err := d.services.Documentation.Create(ctx, userID,
			argString(args, "project_id"),
			argString(args, "title"),
			argString(args, "content"),
			argStringSlice(args, "tags"),
		)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Created document %q (id: %s)", doc.Title, doc.ID), nil
	})
}

func (d *Dispatcher) registerStatsTools() {
	d.register(ToolDefinition{
		Name:        "get_project_stats",
		Description: "Summarize a project: task counts by status, members, documents, sprints",
		InputSchema: objectSchema([]string{"project_id"}, map[string]Property{
			"project_id": {Type: "string", Description: "Project identifier"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		st, err := d.services.Stats.ProjectStats(ctx, userID, argString(args, "project_id"))
		if err != nil {
			return "", err
		}
		return toJSON(st)
	})

	d.register(ToolDefinition{
		Name:        "get_task_stats",
		Description: "Aggregate task counts by status and priority, optionally for one project",
		InputSchema: objectSchema(nil, map[string]Property{
			"project_id": {Type: "string", Description: "Limit the aggregation to one project"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		st, err := d.services.Stats.TaskStats(ctx, userID, argString(args, "project_id"))
		if err != nil {
			return "", err
		}
		return toJSON(st)
	})
}

func (d *Dispatcher) registerKnowledgeTools() {
	kinds := []struct {
		kind       knowledge.Kind
		listName   string
		listDesc   string
		createName string
		createDesc string
		label      string
	}{
		{knowledge.KindRequirement, "get_requirements", "List requirements in a project", "create_requirement", "Create a requirement in a project", "requirement"},
		{knowledge.KindArchitecture, "get_architectures", "List architecture documents in a project", "create_architecture", "Create an architecture document in a project", "architecture document"},
		{knowledge.KindAPIDesign, "get_api_designs", "List API designs in a project", "create_api_design", "Create an API design in a project", "API design"},
		{knowledge.KindMindmap, "get_mindmaps", "List mindmaps in a project", "create_mindmap", "Create a mindmap in a project", "mindmap"},
		{knowledge.KindDomainKnowledge, "get_domain_knowledge", "List domain knowledge entries in a project", "create_domain_knowledge", "Create a domain knowledge entry in a project", "domain knowledge entry"},
	}

	for _, k := range kinds {
		kind := k.kind
		label := k.label

		d.register(ToolDefinition{
			Name:        k.listName,
			Description: k.listDesc,
			InputSchema: objectSchema([]string{"project_id"}, map[string]Property{
				"project_id": {Type: "string", Description: "Project identifier"},
				"limit":      {Type: "number", Description: "Maximum number of entries to return"},
				"offset":     {Type: "number", Description: "Number of entries to skip"},
			}),
		}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
			artifacts, total, err := d.services.Knowledge.List(ctx, userID, kind, argString(args, "project_id"), argInt(args, "limit", 0), argInt(args, "offset", 0))
			if err != nil {
				return "", err
			}
			return toJSON(map[string]any{"artifacts": artifacts, "total": total})
		})

		d.register(ToolDefinition{
			Name:        k.createName,
			Description: k.createDesc,
			InputSchema: objectSchema([]string{"project_id", "title"}, map[string]Property{
				"project_id": {Type: "string", Description: "Project identifier"},
				"title":      {Type: "string", Description: "Title"},
				"content":    {Type: "string", Description: "Body"},
			}),
		}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
			a, err := d.services.Knowledge.Create(ctx, userID, kind,
				argString(args, "project_id"),
				argString(args, "title"),
				argString(args, "content"),
				nil,
			)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Created %s %q (id: %s)", label, a.Title, a.ID), nil
		})
	}
}

func (d *Dispatcher) registerPermissionTools() {
	d.register(ToolDefinition{
		Name:        "get_user_permissions",
		Description: "Compute the caller's effective permissions, optionally within a project",
		InputSchema: objectSchema(nil, map[string]Property{
			"project_id": {Type: "string", Description: "Project to evaluate project-scoped permissions in"},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		set, err := d.services.Permission.EffectivePermissions(ctx, userID, argString(args, "project_id"))
		if err != nil {
			return "", err
		}
		return toJSON(map[string]any{"user_id": userID, "permissions": set.Slice()})
	})

	d.register(ToolDefinition{
		Name:        "assign_project_role",
		Description: "Assign a project role to a user; requires project.manage_members",
		InputSchema: objectSchema([]string{"project_id", "user_id", "role"}, map[string]Property{
			"project_id": {Type: "string", Description: "Project identifier"},
			"user_id":    {Type: "string", Description: "User to assign the role to"},
			"role":       {Type: "string", Description: "Project role", Enum: []string{"OWNER", "ADMIN", "MEMBER", "VIEWER"}},
		}),
	}, func(ctx context.Context, args map[string]any, userID string) (string, error) {
		m, err := d.services.Permission.AssignProjectRole(ctx, userID,
			argString(args, "project_id"),
			argString(args, "user_id"),
			permission.ProjectRole(argString(args, "role")),
		)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Assigned role %s to user %s in project %s", m.Role, m.UserID, m.ProjectID), nil
	})
}

func argTime(args map[string]any, key string) (time.Time, error) {
	raw := argString(args, key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid %s: expected RFC3339 timestamp", key), err)
	}
	return t, nil
}
