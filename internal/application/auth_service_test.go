package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/laavis/dev-link/internal/application"
	"github.com/laavis/dev-link/pkg/helpers"
)

func newAuthService(users *fakeUserRepo, profiles *fakeProfileRepo) *application.AuthService {
	return application.NewAuthService(users, profiles, helpers.NewJWTManager("test-secret", time.Hour), nil, "", nil, nil, false)
}

func TestRegisterThenLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users, newFakeProfileRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID.IsZero() {
		t.Fatal("registered user has no id")
	}
	if u.Password == "secret1" {
		t.Fatal("password stored in plaintext")
	}
	if !strings.Contains(u.Avatar, "gravatar.com/avatar/") {
		t.Fatalf("avatar not derived from email: %q", u.Avatar)
	}

	token, exp, got, err := svc.Login(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("login returned user %s, registered %s", got.ID.Hex(), u.ID.Hex())
	}
	if !exp.After(time.Now()) {
		t.Fatalf("token already expired at %v", exp)
	}

	claims, err := svc.JWT.Verify(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != u.ID.Hex() {
		t.Fatalf("token uid = %q, want %q", claims.UserID, u.ID.Hex())
	}
	if claims.Name != "Alice" {
		t.Fatalf("token name = %q", claims.Name)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users, newFakeProfileRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "Mallory", "alice@example.com", "another1")
	if !errors.Is(err, application.ErrEmailExists) {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}
	if users.count() != 1 {
		t.Fatalf("store holds %d users after rejected duplicate, want 1", users.count())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), newFakeProfileRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, _, _, err := svc.Login(ctx, "alice@example.com", "wrong-password")
	if !errors.Is(err, application.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), newFakeProfileRepo())

	_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret1")
	if !errors.Is(err, application.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestDeleteAccountRemovesUserAndProfile(t *testing.T) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	svc := newAuthService(users, profiles)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := profiles.Upsert(ctx, u.ID.Hex(), profileFields("alice")); err != nil {
		t.Fatalf("upsert profile: %v", err)
	}

	if err := svc.DeleteAccount(ctx, u.ID.Hex()); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if _, err := users.GetByID(ctx, u.ID.Hex()); err == nil {
		t.Fatal("user still present after account deletion")
	}
	if _, err := profiles.GetByUserID(ctx, u.ID.Hex()); err == nil {
		t.Fatal("profile still present after account deletion")
	}
}

func TestDeleteAccountWithoutProfile(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users, newFakeProfileRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.DeleteAccount(ctx, u.ID.Hex()); err != nil {
		t.Fatalf("delete account without profile: %v", err)
	}
	if users.count() != 0 {
		t.Fatalf("store holds %d users after deletion, want 0", users.count())
	}
}
