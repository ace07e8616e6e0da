package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lacupula/imperium/internal/evidence"
	"github.com/lacupula/imperium/internal/model"
	"github.com/lacupula/imperium/internal/store"
)

const (
	// bcrypt cost factor (10-14 recommended for production)
	bcryptCost = 12

	// Password constraints
	minPasswordLength = 8
	maxPasswordLength = 128

	// Session tokens are 32 random bytes, hex-encoded
	sessionTokenBytes = 32
)

// EvidenceFile is an uploaded merit evidence file.
type EvidenceFile struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// AuthService handles registration, login and session resolution.
type AuthService struct {
	snapshots *store.Manager
	evidence  evidence.Store
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	Snapshots *store.Manager
	Evidence  evidence.Store
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		snapshots: cfg.Snapshots,
		evidence:  cfg.Evidence,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string
	Email    string
	Password string

	// Evidence is an optional merit evidence file attached at signup.
	Evidence *EvidenceFile
}

// RegisterResult represents a successful registration
type RegisterResult struct {
	User  *model.User
	Token string
}

// Register creates a new user account with email/password.
// New accounts start unaffiliated with the standard initial counters.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	// Store evidence before taking the snapshot lock. A registration
	// that fails afterwards leaves an orphan file, never a dangling ref.
	evidenceRef := ""
	if req.Evidence != nil {
		ref, err := s.storeEvidence(ctx, req.Evidence)
		if err != nil {
			return nil, err
		}
		evidenceRef = ref
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:            uuid.New().String(),
		Name:          name,
		Email:         email,
		Hash:          hash,
		Influence:     model.InitialInfluence,
		Contributions: model.InitialContributions,
		EvidenceRef:   evidenceRef,
		JoinedAt:      time.Now().UTC(),
	}

	err = s.snapshots.Update(ctx, func(snap *store.Snapshot) error {
		if snap.UserByEmail(email) != nil {
			return ErrEmailAlreadyExists
		}
		snap.Users = append(snap.Users, *user)
		snap.Sessions = append(snap.Sessions, model.Session{
			TokenHash: hashToken(token),
			UserID:    user.ID,
			CreatedAt: time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RegisterResult{User: user, Token: token}, nil
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResult represents a successful login
type LoginResult struct {
	User  *model.User
	Token string
}

// Login authenticates a user with email/password and issues a new
// session token. Existing sessions stay valid; each login adds one.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	token, err := generateSessionToken()
	if err != nil {
		return nil, err
	}

	var user model.User
	err = s.snapshots.Update(ctx, func(snap *store.Snapshot) error {
		found := snap.UserByEmail(email)
		if found == nil {
			return ErrInvalidCredentials
		}
		if !checkPassword(req.Password, found.Hash) {
			return ErrInvalidCredentials
		}
		user = *found
		snap.Sessions = append(snap.Sessions, model.Session{
			TokenHash: hashToken(token),
			UserID:    found.ID,
			CreatedAt: time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: &user, Token: token}, nil
}

// ResolveSession maps a raw session token to its user.
// Unknown tokens and tokens pointing at deleted users both resolve to
// ErrSessionInvalid; the caller cannot distinguish the two cases.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}

	hash := hashToken(token)
	var user model.User
	err := s.snapshots.View(ctx, func(snap *store.Snapshot) error {
		session := snap.SessionByTokenHash(hash)
		if session == nil {
			return ErrSessionInvalid
		}
		found := snap.UserByID(session.UserID)
		if found == nil {
			return ErrSessionInvalid
		}
		user = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := s.snapshots.View(ctx, func(snap *store.Snapshot) error {
		found := snap.UserByID(userID)
		if found == nil {
			return ErrUserNotFound
		}
		user = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) storeEvidence(ctx context.Context, f *EvidenceFile) (string, error) {
	key := uuid.New().String() + strings.ToLower(filepath.Ext(f.Filename))
	return s.evidence.Put(ctx, key, f.ContentType, f.Content)
}

// Helper functions

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

func isValidEmail(email string) bool {
	// Basic email validation
	if email == "" {
		return false
	}
	if len(email) > 254 {
		return false
	}
	atIndex := strings.Index(email, "@")
	if atIndex < 1 {
		return false
	}
	dotIndex := strings.LastIndex(email, ".")
	if dotIndex < atIndex+2 {
		return false
	}
	if dotIndex >= len(email)-1 {
		return false
	}
	return true
}

// generateSessionToken returns a cryptographically random opaque token.
func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashToken returns the hex SHA-256 of a token for storage and lookup.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
