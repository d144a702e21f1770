package pushnotification

import (
	"context"
	"sort"
	"testing"

	"github.com/planwise/planwise/internal/permission"
	permissionrepo "github.com/planwise/planwise/internal/permission/repositoryimpl"
	"github.com/planwise/planwise/internal/pushsubscription"
	"github.com/planwise/planwise/pkg/storage"
)

func TestMatchSubscriptionsFiltersByOwner(t *testing.T) {
	subs := []*pushsubscription.Subscription{
		{ID: "s1", UserID: "alice", Endpoint: "https://push.example/alice"},
		{ID: "s2", UserID: "bob", Endpoint: "https://push.example/bob"},
		{ID: "s3", UserID: "alice", Endpoint: "https://push.example/alice-phone"},
		{ID: "s4", UserID: "", Endpoint: "https://push.example/anonymous"},
	}

	matched := matchSubscriptions(subs, []string{"alice", "carol"})
	if len(matched) != 2 {
		t.Fatalf("got %d subscriptions, want 2", len(matched))
	}
	for _, sub := range matched {
		if sub.UserID != "alice" {
			t.Errorf("subscription %s belongs to %q, want alice", sub.ID, sub.UserID)
		}
	}
}

func TestMatchSubscriptionsNoRecipients(t *testing.T) {
	subs := []*pushsubscription.Subscription{
		{ID: "s1", UserID: "alice", Endpoint: "https://push.example/alice"},
	}
	if matched := matchSubscriptions(subs, nil); len(matched) != 0 {
		t.Fatalf("got %d subscriptions, want 0", len(matched))
	}
}

func TestRecipientsScopedToProject(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	memberships := permissionrepo.NewYAMLRepository(store)
	ctx := context.Background()

	seed := []*permission.Membership{
		{ProjectID: "p1", UserID: "alice", Role: permission.ProjectRoleOwner},
		{ProjectID: "p1", UserID: "bob", Role: permission.ProjectRoleMember},
		{ProjectID: "p2", UserID: "carol", Role: permission.ProjectRoleOwner},
	}
	for _, m := range seed {
		if err := memberships.Upsert(ctx, m); err != nil {
			t.Fatalf("failed to seed membership: %v", err)
		}
	}

	d := NewDispatcher(nil, nil, memberships, nil)
	got, err := d.recipients(ctx, "p1")
	if err != nil {
		t.Fatalf("recipients failed: %v", err)
	}
	sort.Strings(got)
	want := []string{"alice", "bob"}
	if len(got) != len(want) {
		t.Fatalf("got recipients %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got recipients %v, want %v", got, want)
		}
	}
}
