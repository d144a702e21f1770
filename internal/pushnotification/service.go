package pushnotification

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/internal/pushsubscription"
	"github.com/planwise/planwise/pkg/cerr"
)

// Service manages push subscriptions for the REST surface.
type Service struct {
	vapidEnv *config.VAPIDEnv
	repo     pushsubscription.Repository
	sender   *Sender
}

func NewService(vapidEnv *config.VAPIDEnv, repo pushsubscription.Repository, sender *Sender) *Service {
	return &Service{
		vapidEnv: vapidEnv,
		repo:     repo,
		sender:   sender,
	}
}

func (s *Service) VapidPublicKey() (string, error) {
	if s.vapidEnv.VAPIDPublicKey == "" {
		return "", cerr.NewError(cerr.FailedPrecondition, "VAPID keys not configured", nil)
	}
	return s.vapidEnv.VAPIDPublicKey, nil
}

// Subscribe is idempotent per endpoint: re-registering replaces the keys.
func (s *Service) Subscribe(ctx context.Context, userID, endpoint, p256dhKey, authKey string) error {
	if endpoint == "" {
		return cerr.NewError(cerr.InvalidArgument, "endpoint is required", nil)
	}
	if p256dhKey == "" {
		return cerr.NewError(cerr.InvalidArgument, "p256dh_key is required", nil)
	}
	if authKey == "" {
		return cerr.NewError(cerr.InvalidArgument, "auth_key is required", nil)
	}

	existing, err := s.repo.FindByEndpoint(ctx, endpoint)
	if err == nil && existing != nil {
		existing.UserID = userID
		existing.P256dhKey = p256dhKey
		existing.AuthKey = authKey
		if delErr := s.repo.Delete(ctx, existing.ID); delErr != nil {
			return delErr
		}
		return s.repo.Create(ctx, existing)
	}

	sub := &pushsubscription.Subscription{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Endpoint:  endpoint,
		P256dhKey: p256dhKey,
		AuthKey:   authKey,
		CreatedAt: time.Now(),
	}
	return s.repo.Create(ctx, sub)
}

func (s *Service) Unsubscribe(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		return cerr.NewError(cerr.InvalidArgument, "endpoint is required", nil)
	}
	return s.repo.DeleteByEndpoint(ctx, endpoint)
}

// SendTest pushes a test notification to the caller's own subscriptions.
func (s *Service) SendTest(ctx context.Context, userID string) {
	s.sender.SendToUsers(ctx, []string{userID}, &NotificationPayload{
		Title: "Planwise Test",
		Body:  "Push notifications are working!",
	})
}
