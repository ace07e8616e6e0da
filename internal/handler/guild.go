package handler

import (
	"net/http"
	"strings"

	"github.com/lacupula/imperium/internal/evidence"
	"github.com/lacupula/imperium/internal/middleware"
	"github.com/lacupula/imperium/internal/model"
	"github.com/lacupula/imperium/internal/service"
)

// GuildHandler handles guild endpoints
type GuildHandler struct {
	guildService *service.GuildService
}

// NewGuildHandler creates a new guild handler
func NewGuildHandler(guildService *service.GuildService) *GuildHandler {
	return &GuildHandler{
		guildService: guildService,
	}
}

// FoundGuildRequest represents the guild founding request body
type FoundGuildRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Mission     string            `json:"mission,omitempty"`
	Colors      model.GuildColors `json:"colors"`
}

// List handles GET /v1/guilds
func (h *GuildHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.guildService.ListGuilds(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, summaries, map[string]string{
		"self": "/v1/guilds",
	})
}

// Get handles GET /v1/guilds/{guildId}
func (h *GuildHandler) Get(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildId")
	guild, err := h.guildService.GetGuild(r.Context(), guildID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, guild, map[string]string{
		"self": "/v1/guilds/" + guild.ID,
	})
}

// Found handles POST /v1/guilds
func (h *GuildHandler) Found(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req FoundGuildRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	guild, err := h.guildService.FoundGuild(r.Context(), service.FoundGuildRequest{
		UserID:      user.ID,
		Name:        req.Name,
		Description: req.Description,
		Mission:     req.Mission,
		Colors:      req.Colors,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	// The founder is the only member at this point.
	WriteData(w, http.StatusCreated, guild.ToDetail(1), map[string]string{
		"self": "/v1/guilds/" + guild.ID,
	})
}

// Apply handles POST /v1/guilds/{guildId}/apply.
// Accepts JSON (evidence from registration) or multipart/form-data with
// a fresh evidence file.
func (h *GuildHandler) Apply(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	guildID := r.PathValue("guildId")
	req := service.ApplyRequest{
		UserID:  user.ID,
		GuildID: guildID,
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(evidence.MaxEvidenceSize + 1<<20); err != nil {
			WriteError(w, model.NewBadRequestError("invalid multipart form"))
			return
		}
		if file, header, err := r.FormFile("evidence"); err == nil {
			defer func() { _ = file.Close() }()
			req.Evidence = &service.EvidenceFile{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Content:     file,
			}
		}
	}

	application, err := h.guildService.ApplyToGuild(r.Context(), req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, application, map[string]string{
		"guild": "/v1/guilds/" + guildID,
	})
}

// Applicants handles GET /v1/guilds/manage/applicants
func (h *GuildHandler) Applicants(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	views, err := h.guildService.ListApplicants(r.Context(), user.ID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, views, map[string]string{
		"self": "/v1/guilds/manage/applicants",
	})
}

// ResolveRequest represents the applicant decision request body
type ResolveRequest struct {
	Decision string `json:"decision"`
}

// Resolve handles POST /v1/guilds/manage/applicants/{applicationId}/resolve
func (h *GuildHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req ResolveRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	applicant, err := h.guildService.ResolveApplicant(r.Context(), service.ResolveRequest{
		RequesterID:   user.ID,
		ApplicationID: r.PathValue("applicationId"),
		Decision:      model.ApplicationDecision(req.Decision),
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	if applicant == nil {
		// Rejection carries no body
		WriteNoContent(w)
		return
	}

	WriteData(w, http.StatusOK, applicant.ToPublic(), map[string]string{
		"self": "/v1/guilds/manage/applicants",
	})
}
