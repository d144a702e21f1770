package permission

import (
	"testing"

	"github.com/planwise/planwise/internal/user"
)

func TestSystemAdminCoversCatalog(t *testing.T) {
	perms := SystemRolePermissions(user.SystemRoleAdmin)
	for _, p := range All() {
		if !perms.Has(p) {
			t.Errorf("system ADMIN is missing %s", p)
		}
	}
}

func TestProjectRolePrivilegeOrder(t *testing.T) {
	// Each role must grant a superset of the role below it.
	order := []ProjectRole{ProjectRoleViewer, ProjectRoleMember, ProjectRoleAdmin, ProjectRoleOwner}
	for i := 1; i < len(order); i++ {
		lower := ProjectRolePermissions(order[i-1])
		higher := ProjectRolePermissions(order[i])
		for p := range lower {
			if !higher.Has(p) {
				t.Errorf("%s grants %s but %s does not", order[i-1], p, order[i])
			}
		}
		if len(higher) <= len(lower) {
			t.Errorf("%s should grant strictly more than %s", order[i], order[i-1])
		}
	}
}

func TestRoleTablesAreTotal(t *testing.T) {
	for _, r := range ProjectRoles() {
		if len(ProjectRolePermissions(r)) == 0 {
			t.Errorf("project role %s has no permissions", r)
		}
	}
	for _, r := range SystemRoles() {
		if len(SystemRolePermissions(r)) == 0 {
			t.Errorf("system role %s has no permissions", r)
		}
	}
}

func TestProjectRolesNeverGrantSystemAdmin(t *testing.T) {
	for _, r := range ProjectRoles() {
		if ProjectRolePermissions(r).Has(SystemAdmin) {
			t.Errorf("project role %s must not grant %s", r, SystemAdmin)
		}
	}
}

func TestSetMergeAndSlice(t *testing.T) {
	s := NewSet(TaskRead)
	s.Merge(NewSet(ProjectRead, TaskRead))

	got := s.Slice()
	want := []Permission{ProjectRead, TaskRead}
	if len(got) != len(want) {
		t.Fatalf("got %d permissions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Slice()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestProjectRoleValid(t *testing.T) {
	for _, r := range ProjectRoles() {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if ProjectRole("MANAGER").Valid() {
		t.Error("MANAGER should not be a valid project role")
	}
}
