package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lacupula/imperium/internal/evidence"
	"github.com/lacupula/imperium/internal/model"
	"github.com/lacupula/imperium/internal/store"
	"github.com/lacupula/imperium/internal/testing/fixtures"
)

func newTestAuthService(t *testing.T) (*AuthService, *store.Manager, *store.MemStore) {
	t.Helper()
	mem := store.NewMemStore()
	snapshots := store.NewManager(mem)
	svc := NewAuthService(AuthServiceConfig{
		Snapshots: snapshots,
		Evidence:  evidence.NewDiskStore(t.TempDir()),
	})
	return svc, snapshots, mem
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestAuthService(t)

	result, err := svc.Register(ctx, RegisterRequest{
		Name:     "Ada",
		Email:    "Ada@Example.COM",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if result.User.Email != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", result.User.Email)
	}
	if result.User.Influence != model.InitialInfluence {
		t.Errorf("expected initial influence %d, got %d", model.InitialInfluence, result.User.Influence)
	}
	if result.User.Contributions != model.InitialContributions {
		t.Errorf("expected initial contributions %d, got %d", model.InitialContributions, result.User.Contributions)
	}
	if result.User.IsAffiliated() {
		t.Error("expected new user to be unaffiliated")
	}
	if result.Token == "" {
		t.Error("expected a session token")
	}

	// The issued token resolves back to the user.
	resolved, err := svc.ResolveSession(ctx, result.Token)
	if err != nil {
		t.Fatalf("ResolveSession() error = %v", err)
	}
	if resolved.ID != result.User.ID {
		t.Errorf("resolved wrong user: %s", resolved.ID)
	}

	// Only the token hash is persisted.
	err = snapshots.View(ctx, func(snap *store.Snapshot) error {
		if len(snap.Sessions) != 1 {
			t.Fatalf("expected 1 session, got %d", len(snap.Sessions))
		}
		if snap.Sessions[0].TokenHash == result.Token {
			t.Error("raw token must not be stored")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestRegister_DuplicateEmail_CaseInsensitive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(ctx, RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(ctx, RegisterRequest{Name: "Other", Email: "ADA@example.com", Password: "supersecret"})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newTestAuthService(t)

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"missing name", RegisterRequest{Email: "a@b.co", Password: "supersecret"}, ErrNameRequired},
		{"bad email", RegisterRequest{Name: "Ada", Email: "not-an-email", Password: "supersecret"}, ErrInvalidEmail},
		{"empty password", RegisterRequest{Name: "Ada", Email: "a@b.co"}, ErrPasswordRequired},
		{"short password", RegisterRequest{Name: "Ada", Email: "a@b.co", Password: "short"}, ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestAuthService(t)
	f := fixtures.New(t, snapshots)
	user := f.CreateUser(t, "ada@example.com")

	result, err := svc.Login(ctx, LoginRequest{Email: "ADA@example.com", Password: fixtures.Password})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.User.ID != user.ID {
		t.Errorf("logged in wrong user: %s", result.User.ID)
	}

	resolved, err := svc.ResolveSession(ctx, result.Token)
	if err != nil {
		t.Fatalf("ResolveSession() error = %v", err)
	}
	if resolved.ID != user.ID {
		t.Errorf("resolved wrong user: %s", resolved.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestAuthService(t)
	f := fixtures.New(t, snapshots)
	f.CreateUser(t, "ada@example.com")

	_, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "supersecret"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_MultipleSessionsStayValid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestAuthService(t)
	f := fixtures.New(t, snapshots)
	user := f.CreateUser(t, "ada@example.com")

	first, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: fixtures.Password})
	if err != nil {
		t.Fatalf("first Login() error = %v", err)
	}
	second, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: fixtures.Password})
	if err != nil {
		t.Fatalf("second Login() error = %v", err)
	}

	for _, token := range []string{first.Token, second.Token} {
		resolved, err := svc.ResolveSession(ctx, token)
		if err != nil {
			t.Fatalf("ResolveSession() error = %v", err)
		}
		if resolved.ID != user.ID {
			t.Errorf("resolved wrong user: %s", resolved.ID)
		}
	}
}

func TestResolveSession_InvalidToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newTestAuthService(t)

	if _, err := svc.ResolveSession(ctx, "bogus"); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("expected ErrSessionInvalid for unknown token, got %v", err)
	}
	if _, err := svc.ResolveSession(ctx, ""); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("expected ErrSessionInvalid for empty token, got %v", err)
	}
}

func TestRegister_SaveFailureIssuesNoAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, mem := newTestAuthService(t)

	mem.FailNextSave = true
	_, err := svc.Register(ctx, RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "supersecret"})
	if !errors.Is(err, store.ErrSave) {
		t.Fatalf("expected ErrSave, got %v", err)
	}

	err = snapshots.View(ctx, func(snap *store.Snapshot) error {
		if len(snap.Users) != 0 {
			t.Errorf("expected no users after failed save, got %d", len(snap.Users))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestGetUserByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestAuthService(t)
	f := fixtures.New(t, snapshots)
	created := f.CreateUser(t, "user@example.com")

	got, err := svc.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Email != "user@example.com" {
		t.Errorf("expected email user@example.com, got %q", got.Email)
	}

	if _, err := svc.GetUserByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestResolveSession_SeededSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestAuthService(t)
	f := fixtures.New(t, snapshots)
	user := f.CreateUser(t, "user@example.com")
	token := f.AddSession(t, user)

	got, err := svc.ResolveSession(ctx, token)
	if err != nil {
		t.Fatalf("ResolveSession() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
}
