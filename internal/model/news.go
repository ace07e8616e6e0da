package model

import "time"

// News represents a feed item. A nil GuildID marks the item as global and
// visible to every requester; a non-nil GuildID restricts visibility to
// members of that guild. Items are immutable once created.
type News struct {
	ID      string    `json:"id"`
	GuildID *string   `json:"guild_id,omitempty"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
	Author  string    `json:"author"`
}

// IsGlobal returns true if the item is visible to all requesters.
func (n *News) IsGlobal() bool {
	return n.GuildID == nil
}

// VisibleTo reports whether the item may be shown to a requester with the
// given guild affiliation (nil = unaffiliated or unauthenticated).
func (n *News) VisibleTo(requesterGuildID *string) bool {
	if n.GuildID == nil {
		return true
	}
	return requesterGuildID != nil && *requesterGuildID == *n.GuildID
}

// News content constraints
const (
	MaxNewsTitleLength   = 200
	MaxNewsContentLength = 5000
)
