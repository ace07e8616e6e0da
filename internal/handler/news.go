package handler

import (
	"net/http"

	"github.com/lacupula/imperium/internal/middleware"
	"github.com/lacupula/imperium/internal/model"
	"github.com/lacupula/imperium/internal/service"
)

// NewsHandler handles news feed endpoints
type NewsHandler struct {
	newsService *service.NewsService
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(newsService *service.NewsService) *NewsHandler {
	return &NewsHandler{
		newsService: newsService,
	}
}

// List handles GET /v1/news.
// Works for anonymous requesters too; they see only global items.
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	var requesterGuildID *string
	if user := middleware.GetUser(r.Context()); user != nil {
		requesterGuildID = user.GuildID
	}

	items, err := h.newsService.VisibleNews(r.Context(), requesterGuildID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, items, map[string]string{
		"self": "/v1/news",
	})
}

// PostNewsRequest represents the news posting request body
type PostNewsRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Post handles POST /v1/news
func (h *NewsHandler) Post(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req PostNewsRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	item, err := h.newsService.PostNews(r.Context(), service.PostNewsRequest{
		AuthorID: user.ID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, item, map[string]string{
		"self": "/v1/news",
	})
}
