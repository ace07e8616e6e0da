package model

import "time"

// User represents a registered account. A user is unaffiliated until accepted
// into a guild or until founding one, at which point GuildID and RankID are
// set together. RankID is never set without GuildID.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Hash          string    `json:"-"` // Never expose password hash
	GuildID       *string   `json:"guild_id,omitempty"`
	RankID        *string   `json:"rank_id,omitempty"`
	Influence     int       `json:"influence"`
	Contributions int       `json:"contributions"`
	EvidenceRef   string    `json:"evidence_ref,omitempty"`
	JoinedAt      time.Time `json:"joined_at"`
}

// Starting counters for a fresh registration.
const (
	InitialInfluence     = 5
	InitialContributions = 0
)

// IsAffiliated returns true if the user belongs to a guild.
func (u *User) IsAffiliated() bool {
	return u.GuildID != nil
}

// MemberOf returns true if the user belongs to the given guild.
func (u *User) MemberOf(guildID string) bool {
	return u.GuildID != nil && *u.GuildID == guildID
}

// Session represents an issued login token. Only the SHA-256 hash of the
// token is stored; the raw token exists solely in the client's hands.
// Sessions do not expire and are never invalidated (documented limitation).
type Session struct {
	TokenHash string    `json:"token_hash"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// UserPublic is the representation of a user safe for API responses.
type UserPublic struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	GuildID       *string `json:"guild_id,omitempty"`
	RankID        *string `json:"rank_id,omitempty"`
	Influence     int     `json:"influence"`
	Contributions int     `json:"contributions"`
	EvidenceRef   string  `json:"evidence_ref,omitempty"`
	JoinedAt      string  `json:"joined_at"`
}

// ToPublic converts a User to its public representation.
func (u *User) ToPublic() *UserPublic {
	return &UserPublic{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		GuildID:       u.GuildID,
		RankID:        u.RankID,
		Influence:     u.Influence,
		Contributions: u.Contributions,
		EvidenceRef:   u.EvidenceRef,
		JoinedAt:      u.JoinedAt.Format(time.RFC3339),
	}
}
