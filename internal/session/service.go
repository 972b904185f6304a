package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carlot/dealer-admin/internal/users"
)

const (
	defaultTTL          = 12 * time.Hour
	defaultStoreTimeout = 2 * time.Second
)

// UserLookup hydrates the user a session belongs to.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (users.User, error)
}

// Options tunes session lifetime and store access.
type Options struct {
	TTL          time.Duration
	StoreTimeout time.Duration
}

// Service creates, revokes and verifies sessions.
type Service struct {
	store   Store
	users   UserLookup
	codec   *TokenCodec
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
}

// NewService wires a session service over the given stores.
func NewService(store Store, lookup UserLookup, codec *TokenCodec, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	return &Service{
		store:   store,
		users:   lookup,
		codec:   codec,
		ttl:     opts.TTL,
		timeout: opts.StoreTimeout,
		now:     time.Now,
	}
}

// Issue starts a new session for user and returns the signed credential.
func (s *Service) Issue(ctx context.Context, user users.User) (Issued, error) {
	id, err := newSessionID()
	if err != nil {
		return Issued{}, fmt.Errorf("generate session id: %w", err)
	}
	now := s.now().UTC()
	rec := Record{
		ID:        id,
		UserID:    user.ID,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	token, err := s.codec.Sign(rec)
	if err != nil {
		return Issued{}, fmt.Errorf("sign session: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.store.Save(ctx, rec); err != nil {
		return Issued{}, err
	}

	return Issued{Token: token, SessionID: id, ExpiresAt: rec.ExpiresAt}, nil
}

// Revoke deletes the session named by credential. Credentials that do not
// parse name no session, so there is nothing to revoke.
func (s *Service) Revoke(ctx context.Context, credential string) error {
	claims, err := s.codec.Parse(credential)
	if err != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Delete(ctx, claims.ID)
}

// Verify resolves credential to the user owning the session. It fails with
// ErrUnauthenticated when the credential is missing, malformed, expired or
// orphaned, and with ErrStoreUnavailable when a backing store errors.
// Verify does not extend the session.
func (s *Service) Verify(ctx context.Context, credential string) (users.User, error) {
	if credential == "" {
		return users.User{}, ErrUnauthenticated
	}
	claims, err := s.codec.Parse(credential)
	if err != nil {
		return users.User{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rec, err := s.store.Lookup(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return users.User{}, fmt.Errorf("%w: session not found", ErrUnauthenticated)
		}
		return users.User{}, storeError(err)
	}
	if rec.UserID != claims.Subject {
		return users.User{}, fmt.Errorf("%w: session owner mismatch", ErrUnauthenticated)
	}
	if rec.Expired(s.now()) {
		_ = s.store.Delete(ctx, rec.ID)
		return users.User{}, fmt.Errorf("%w: session expired", ErrUnauthenticated)
	}

	user, err := s.users.FindByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return users.User{}, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
		}
		return users.User{}, storeError(err)
	}
	return user, nil
}

func storeError(err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
