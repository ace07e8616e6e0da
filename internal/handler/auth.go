package handler

import (
	"net/http"
	"strings"

	"github.com/lacupula/imperium/internal/evidence"
	"github.com/lacupula/imperium/internal/middleware"
	"github.com/lacupula/imperium/internal/model"
	"github.com/lacupula/imperium/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRequest represents the register endpoint request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login endpoint request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse represents an issued session token
type SessionResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// Register handles POST /v1/auth/register.
// Accepts JSON, or multipart/form-data when a merit evidence file is
// attached at signup.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(evidence.MaxEvidenceSize + 1<<20); err != nil {
			WriteError(w, model.NewBadRequestError("invalid multipart form"))
			return
		}
		req.Name = r.FormValue("name")
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")

		if file, header, err := r.FormFile("evidence"); err == nil {
			defer func() { _ = file.Close() }()
			req.Evidence = &service.EvidenceFile{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Content:     file,
			}
		}
	} else {
		var body RegisterRequest
		if err := DecodeJSON(r, &body); err != nil {
			WriteError(w, model.NewBadRequestError("invalid request body"))
			return
		}
		req.Name = body.Name
		req.Email = body.Email
		req.Password = body.Password
	}

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	response := struct {
		User    *model.UserPublic `json:"user"`
		Session SessionResponse   `json:"session"`
	}{
		User:    result.User.ToPublic(),
		Session: SessionResponse{Token: result.Token, TokenType: "Bearer"},
	}

	WriteData(w, http.StatusCreated, response, map[string]string{
		"self": "/v1/auth/me",
	})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	response := struct {
		User    *model.UserPublic `json:"user"`
		Session SessionResponse   `json:"session"`
	}{
		User:    result.User.ToPublic(),
		Session: SessionResponse{Token: result.Token, TokenType: "Bearer"},
	}

	WriteData(w, http.StatusOK, response, map[string]string{
		"self": "/v1/auth/me",
	})
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	WriteData(w, http.StatusOK, user.ToPublic(), map[string]string{
		"self": "/v1/auth/me",
	})
}
