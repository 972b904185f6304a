package users

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	user, err := svc.Register(ctx, Registration{Email: "Owner@Dealer.test", Name: "Owner", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.Role != RoleAdmin {
		t.Fatalf("expected default role admin, got %s", user.Role)
	}
	if user.Email != "owner@dealer.test" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}

	authed, err := svc.Authenticate(ctx, "owner@dealer.test", "s3cret-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}
	if authed.LastLogin == nil {
		t.Fatalf("expected last login to be recorded")
	}

	stored, err := svc.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.LastLogin == nil {
		t.Fatalf("expected last login to be persisted")
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, Registration{Email: "sales@dealer.test", Password: "correct-horse", Role: RoleSales}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "sales@dealer.test", "wrong-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@dealer.test", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, Registration{Email: "not-an-email", Password: "long-enough"}); err == nil {
		t.Fatalf("expected invalid email error")
	}
	if _, err := svc.Register(ctx, Registration{Email: "a@dealer.test", Password: "short"}); err == nil {
		t.Fatalf("expected short password error")
	}
	if _, err := svc.Register(ctx, Registration{Email: "a@dealer.test", Password: "long-enough", Role: "janitor"}); err == nil {
		t.Fatalf("expected unknown role error")
	}

	if _, err := svc.Register(ctx, Registration{Email: "dup@dealer.test", Password: "long-enough"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, Registration{Email: "DUP@dealer.test", Password: "long-enough"}); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	if ParseRole("sales") != RoleSales {
		t.Fatalf("expected sales")
	}
	if ParseRole("") != DefaultRole {
		t.Fatalf("expected default role for empty label")
	}
}
