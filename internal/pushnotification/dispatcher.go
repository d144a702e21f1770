package pushnotification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/planwise/planwise/internal/eventbus"
	"github.com/planwise/planwise/internal/permission"
	"github.com/planwise/planwise/internal/task"
)

// Dispatcher turns task events into web push notifications for the
// members of the task's project.
type Dispatcher struct {
	eventBus    *eventbus.Bus
	taskRepo    task.Repository
	memberships permission.MembershipRepository
	sender      *Sender
}

func NewDispatcher(eventBus *eventbus.Bus, taskRepo task.Repository, memberships permission.MembershipRepository, sender *Sender) *Dispatcher {
	return &Dispatcher{
		eventBus:    eventBus,
		taskRepo:    taskRepo,
		memberships: memberships,
		sender:      sender,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	subID, ch := d.eventBus.Subscribe(256)
	defer d.eventBus.Unsubscribe(subID)

	slog.Info("push notification dispatcher started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("push notification dispatcher stopped")
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			switch event.Type {
			case eventbus.EventTypeTaskCreated:
				d.handleTaskEvent(ctx, event, "Task Created")
			case eventbus.EventTypeTaskUpdated:
				d.handleTaskEvent(ctx, event, "Task Updated")
			}
		}
	}
}

func (d *Dispatcher) handleTaskEvent(ctx context.Context, event *eventbus.Event, title string) {
	t, err := d.taskRepo.Get(ctx, event.ResourceID)
	if err != nil {
		slog.Error("push dispatcher: failed to get task", "id", event.ResourceID, "error", err)
		return
	}

	recipients, err := d.recipients(ctx, t.ProjectID)
	if err != nil {
		slog.Error("push dispatcher: failed to list project members", "project_id", t.ProjectID, "error", err)
		return
	}

	d.sender.SendToUsers(ctx, recipients, &NotificationPayload{
		Title: title,
		Body:  t.Title,
		URL:   fmt.Sprintf("/projects/%s/tasks/%s", t.ProjectID, t.ID),
		Tag:   t.ID,
	})
}

// recipients resolves the user ids holding a membership in the project.
func (d *Dispatcher) recipients(ctx context.Context, projectID string) ([]string, error) {
	members, err := d.memberships.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}
