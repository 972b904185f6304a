package auth

import (
	"context"
	"fmt"

	"github.com/carlot/dealer-admin/internal/notification"
	"github.com/carlot/dealer-admin/internal/session"
	"github.com/carlot/dealer-admin/internal/users"
)

// Service signs users in and out of the admin area.
type Service struct {
	users    *users.Service
	sessions *session.Service
	notifier notification.Notifier
}

// NewService composes credential checks with session issuance. notifier may be nil.
func NewService(userService *users.Service, sessions *session.Service, notifier notification.Notifier) *Service {
	return &Service{users: userService, sessions: sessions, notifier: notifier}
}

// Login checks email and password and opens a session. Bad credentials
// return users.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (users.User, session.Issued, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return users.User{}, session.Issued{}, err
	}

	issued, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return users.User{}, session.Issued{}, fmt.Errorf("issue session: %w", err)
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindAdminLogin,
			Destination: user.Email,
			Body:        fmt.Sprintf("%s signed in as %s", user.Email, user.Role),
		})
	}
	return user, issued, nil
}

// Logout ends the session named by credential. Unknown or malformed
// credentials are ignored.
func (s *Service) Logout(ctx context.Context, credential string) error {
	if credential == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, credential)
}
