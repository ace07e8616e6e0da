package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lacupula/imperium/internal/model"
	"github.com/lacupula/imperium/internal/store"
)

// NewsService handles the guild-gated news feed.
type NewsService struct {
	snapshots *store.Manager
}

// NewsServiceConfig holds configuration for the news service
type NewsServiceConfig struct {
	Snapshots *store.Manager
}

// NewNewsService creates a new news service
func NewNewsService(cfg NewsServiceConfig) *NewsService {
	return &NewsService{snapshots: cfg.Snapshots}
}

// VisibleNews returns the feed as seen by a requester with the given
// guild affiliation (nil for unaffiliated or anonymous requesters).
// Global items are always included; guild items only for members.
// Items are ordered newest first; among equal dates the later-created
// item comes first.
func (s *NewsService) VisibleNews(ctx context.Context, requesterGuildID *string) ([]model.News, error) {
	var visible []model.News
	err := s.snapshots.View(ctx, func(snap *store.Snapshot) error {
		visible = make([]model.News, 0, len(snap.News))
		for i := range snap.News {
			if snap.News[i].VisibleTo(requesterGuildID) {
				visible = append(visible, snap.News[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Snapshot order is creation order, so reversing the comparison on
	// the original position puts later-created items first on date ties.
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Date.After(visible[j].Date)
	})
	reverseEqualDates(visible)
	return visible, nil
}

// reverseEqualDates flips each run of equal dates so that within a run
// the later-created item comes first. SliceStable keeps creation order
// inside runs, which is the opposite of what the feed wants.
func reverseEqualDates(items []model.News) {
	start := 0
	for i := 1; i <= len(items); i++ {
		if i == len(items) || !items[i].Date.Equal(items[start].Date) {
			for l, r := start, i-1; l < r; l, r = l+1, r-1 {
				items[l], items[r] = items[r], items[l]
			}
			start = i
		}
	}
}

// PostNewsRequest represents a news posting request
type PostNewsRequest struct {
	AuthorID string
	Title    string
	Content  string
}

// PostNews publishes a news item gated to the author's guild. The
// author needs the intel posting permission on their rank. Posting
// counts toward the author's contributions.
func (s *NewsService) PostNews(ctx context.Context, req PostNewsRequest) (*model.News, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrNewsTitleRequired
	}
	if len(title) > model.MaxNewsTitleLength {
		return nil, ErrNewsTitleTooLong
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrNewsContentRequired
	}
	if len(content) > model.MaxNewsContentLength {
		return nil, ErrNewsContentTooLong
	}

	item := &model.News{
		ID:      uuid.New().String(),
		Title:   title,
		Content: content,
		Date:    time.Now().UTC(),
	}

	err := s.snapshots.Update(ctx, func(snap *store.Snapshot) error {
		user := snap.UserByID(req.AuthorID)
		if user == nil {
			return ErrUserNotFound
		}
		if !user.IsAffiliated() || user.RankID == nil {
			return ErrPostNotAllowed
		}
		guild := snap.GuildByID(*user.GuildID)
		if guild == nil {
			return ErrPostNotAllowed
		}
		rank := guild.RankByID(*user.RankID)
		if rank == nil || !authorize(rank, requirement{capability: model.PermissionPost}) {
			return ErrPostNotAllowed
		}

		item.GuildID = &guild.ID
		item.Author = user.Name
		user.Contributions++

		snap.News = append(snap.News, *item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}
