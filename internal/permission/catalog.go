package permission

import (
	"sort"

	"github.com/planwise/planwise/internal/user"
)

// Permission is an atomic capability token in the form "resource.action".
type Permission string

const (
	ProjectCreate        Permission = "project.create"
	ProjectRead          Permission = "project.read"
	ProjectUpdate        Permission = "project.update"
	ProjectDelete        Permission = "project.delete"
	ProjectManageMembers Permission = "project.manage_members"

	TeamCreate Permission = "team.create"
	TeamRead   Permission = "team.read"
	TeamUpdate Permission = "team.update"
	TeamDelete Permission = "team.delete"

	TaskCreate Permission = "task.create"
	TaskRead   Permission = "task.read"
	TaskUpdate Permission = "task.update"
	TaskDelete Permission = "task.delete"

	DocumentationCreate Permission = "documentation.create"
	DocumentationRead   Permission = "documentation.read"
	DocumentationUpdate Permission = "documentation.update"
	DocumentationDelete Permission = "documentation.delete"

	AgentExecute Permission = "agent.execute"
	AgentCreate  Permission = "agent.create"
	AgentUpdate  Permission = "agent.update"
	AgentDelete  Permission = "agent.delete"

	SystemAdmin Permission = "system.admin"
)

// All enumerates the full permission catalog.
func All() []Permission {
	return []Permission{
		ProjectCreate, ProjectRead, ProjectUpdate, ProjectDelete, ProjectManageMembers,
		TeamCreate, TeamRead, TeamUpdate, TeamDelete,
		TaskCreate, TaskRead, TaskUpdate, TaskDelete,
		DocumentationCreate, DocumentationRead, DocumentationUpdate, DocumentationDelete,
		AgentExecute, AgentCreate, AgentUpdate, AgentDelete,
		SystemAdmin,
	}
}

// Set is an unordered permission set.
type Set map[Permission]struct{}

func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

func (s Set) Add(perms ...Permission) {
	for _, p := range perms {
		s[p] = struct{}{}
	}
}

func (s Set) Merge(other Set) {
	for p := range other {
		s[p] = struct{}{}
	}
}

// Slice returns the set's members sorted for stable output.
func (s Set) Slice() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ProjectRole is the per-(user, project) role. Privilege strictly increases
// VIEWER < MEMBER < ADMIN < OWNER.
type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "OWNER"
	ProjectRoleAdmin  ProjectRole = "ADMIN"
	ProjectRoleMember ProjectRole = "MEMBER"
	ProjectRoleViewer ProjectRole = "VIEWER"
)

func (r ProjectRole) Valid() bool {
	switch r {
	case ProjectRoleOwner, ProjectRoleAdmin, ProjectRoleMember, ProjectRoleViewer:
		return true
	}
	return false
}

func ProjectRoles() []ProjectRole {
	return []ProjectRole{ProjectRoleOwner, ProjectRoleAdmin, ProjectRoleMember, ProjectRoleViewer}
}

func SystemRoles() []user.SystemRole {
	return []user.SystemRole{user.SystemRoleAdmin, user.SystemRoleUser, user.SystemRoleGuest}
}

var systemRolePermissions = map[user.SystemRole][]Permission{
	user.SystemRoleAdmin: All(),
	user.SystemRoleUser: {
		ProjectCreate, ProjectRead,
		TeamCreate, TeamRead,
		TaskCreate, TaskRead,
		DocumentationCreate, DocumentationRead,
		AgentExecute,
	},
	user.SystemRoleGuest: {
		ProjectRead, TeamRead, TaskRead, DocumentationRead,
	},
}

var projectRolePermissions = map[ProjectRole][]Permission{
	ProjectRoleViewer: {
		ProjectRead, TeamRead, TaskRead, DocumentationRead,
	},
	ProjectRoleMember: {
		ProjectRead, TeamRead, TaskRead, DocumentationRead,
		TaskCreate, TaskUpdate,
		DocumentationCreate, DocumentationUpdate,
		AgentExecute,
	},
	ProjectRoleAdmin: {
		ProjectRead, TeamRead, TaskRead, DocumentationRead,
		TaskCreate, TaskUpdate,
		DocumentationCreate, DocumentationUpdate,
		AgentExecute,
		ProjectUpdate, ProjectManageMembers,
		TeamCreate, TeamUpdate, TeamDelete,
		TaskDelete, DocumentationDelete,
		AgentCreate, AgentUpdate,
	},
	ProjectRoleOwner: {
		ProjectRead, TeamRead, TaskRead, DocumentationRead,
		TaskCreate, TaskUpdate,
		DocumentationCreate, DocumentationUpdate,
		AgentExecute,
		ProjectUpdate, ProjectManageMembers,
		TeamCreate, TeamUpdate, TeamDelete,
		TaskDelete, DocumentationDelete,
		AgentCreate, AgentUpdate,
		ProjectDelete, AgentDelete,
	},
}

// SystemRolePermissions returns the permission set granted by a system role.
// Total over the three system roles; unknown roles get an empty set.
func SystemRolePermissions(role user.SystemRole) Set {
	return NewSet(systemRolePermissions[role]...)
}

// ProjectRolePermissions returns the permission set granted by a project
// role within its project. Total over the four project roles.
func ProjectRolePermissions(role ProjectRole) Set {
	return NewSet(projectRolePermissions[role]...)
}
