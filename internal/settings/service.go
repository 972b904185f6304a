package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carlot/dealer-admin/internal/notification"
)

const defaultQueryTimeout = 2 * time.Second

// Service reads and updates the dealership settings.
type Service struct {
	repo     Repository
	notifier notification.Notifier
	timeout  time.Duration
	now      func() time.Time
}

// NewService constructs a settings service. notifier may be nil.
func NewService(repo Repository, notifier notification.Notifier, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &Service{repo: repo, notifier: notifier, timeout: timeout, now: time.Now}
}

// Get returns the current settings or ErrNotConfigured.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	cur, err := s.repo.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	cur.Normalize()
	return cur, nil
}

// Update validates and stores next, stamping UpdatedAt. actor is the email
// of the admin making the change and is only used for the notification.
func (s *Service) Update(ctx context.Context, next Settings, actor string) (Settings, error) {
	next.Normalize()
	if err := next.Validate(); err != nil {
		return Settings{}, err
	}
	next.UpdatedAt = s.now().UTC()

	saveCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Save(saveCtx, next); err != nil {
		return Settings{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindSettingsUpdated,
			Destination: actor,
			Body:        fmt.Sprintf("site settings for %q updated", next.Name),
		})
	}
	return next, nil
}

// EnsureSeeded stores seed when no settings exist yet. It reports whether it wrote.
func (s *Service) EnsureSeeded(ctx context.Context, seed Settings) (bool, error) {
	_, err := s.Get(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotConfigured) {
		return false, err
	}
	seed.Normalize()
	if err := seed.Validate(); err != nil {
		return false, err
	}
	seed.UpdatedAt = s.now().UTC()

	saveCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Save(saveCtx, seed); err != nil {
		return false, err
	}
	return true, nil
}
