package model

import "time"

// Permission tokens carried by ranks. PermissionAll is the wildcard reserved
// for the top rank and satisfies every capability check.
const (
	PermissionAll     = "ALL"
	PermissionView    = "VIEW_INTEL"
	PermissionPost    = "POST_INTEL"
	PermissionRecruit = "RECRUIT_MEMBERS"
)

// Rank levels and authorization thresholds. Levels are guild-local; a higher
// level means more authority. Viewing the applicant queue requires
// ThresholdViewApplicants, deciding on an application requires the strictly
// higher ThresholdResolveApplicants.
const (
	RankLevelLeader = 100
	RankLevelMember = 10

	ThresholdViewApplicants    = 50
	ThresholdResolveApplicants = 90
)

// Rank represents a named authority level within a guild.
type Rank struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Level       int      `json:"level"`
	Permissions []string `json:"permissions"`
}

// HasPermission returns true if the rank carries the given permission token
// or the ALL wildcard.
func (r *Rank) HasPermission(token string) bool {
	for _, p := range r.Permissions {
		if p == PermissionAll || p == token {
			return true
		}
	}
	return false
}

// Application represents a pending join request. Accepting or rejecting an
// application removes it from the guild's queue; no terminal status is kept.
type Application struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	EvidenceRef string    `json:"evidence_ref"`
	AppliedAt   time.Time `json:"applied_at"`
}

// GuildColors holds a guild's display colors.
type GuildColors struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
}

// Guild represents a member-founded organization. A guild always has at
// least one rank; the founder holds the highest-level rank from creation.
type Guild struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Mission     string        `json:"mission,omitempty"`
	LeaderID    string        `json:"leader_id"`
	Colors      GuildColors   `json:"colors"`
	Ranks       []Rank        `json:"ranks"`
	Applicants  []Application `json:"applicants"`
	FoundedAt   time.Time     `json:"founded_at"`
}

// RankByID returns the rank with the given ID, or nil.
func (g *Guild) RankByID(id string) *Rank {
	for i := range g.Ranks {
		if g.Ranks[i].ID == id {
			return &g.Ranks[i]
		}
	}
	return nil
}

// LowestRank returns the rank with the minimum level. When several ranks
// share the minimum level the first one in declaration order wins, so the
// result is deterministic for a given rank list.
func (g *Guild) LowestRank() *Rank {
	if len(g.Ranks) == 0 {
		return nil
	}
	lowest := &g.Ranks[0]
	for i := 1; i < len(g.Ranks); i++ {
		if g.Ranks[i].Level < lowest.Level {
			lowest = &g.Ranks[i]
		}
	}
	return lowest
}

// ApplicationByID returns the pending application with the given ID, or nil.
func (g *Guild) ApplicationByID(id string) *Application {
	for i := range g.Applicants {
		if g.Applicants[i].ID == id {
			return &g.Applicants[i]
		}
	}
	return nil
}

// RemoveApplication deletes the application with the given ID from the
// queue, preserving the order of the remaining entries.
func (g *Guild) RemoveApplication(id string) {
	for i := range g.Applicants {
		if g.Applicants[i].ID == id {
			g.Applicants = append(g.Applicants[:i], g.Applicants[i+1:]...)
			return
		}
	}
}

// Business constraints
const (
	MaxGuildNameLength    = 100
	MaxGuildDescLength    = 500
	MaxGuildMissionLength = 500
)

// GuildDetail is the public projection of a single guild. The applicant
// queue is not part of it; pending applications are only served through
// the rank-gated management listing.
type GuildDetail struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Mission     string      `json:"mission,omitempty"`
	LeaderID    string      `json:"leader_id"`
	Colors      GuildColors `json:"colors"`
	Ranks       []Rank      `json:"ranks"`
	FoundedAt   time.Time   `json:"founded_at"`
	MemberCount int         `json:"member_count"`
}

// ToDetail returns the public projection of the guild.
func (g *Guild) ToDetail(memberCount int) GuildDetail {
	return GuildDetail{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Mission:     g.Mission,
		LeaderID:    g.LeaderID,
		Colors:      g.Colors,
		Ranks:       g.Ranks,
		FoundedAt:   g.FoundedAt,
		MemberCount: memberCount,
	}
}

// GuildSummary is the read-only projection returned by guild listings.
// MemberCount is computed live by counting affiliated users.
type GuildSummary struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Mission     string      `json:"mission,omitempty"`
	Colors      GuildColors `json:"colors"`
	MemberCount int         `json:"member_count"`
}

// ApplicationDecision is the outcome chosen for a pending application.
type ApplicationDecision string

const (
	DecisionAccept ApplicationDecision = "accept"
	DecisionReject ApplicationDecision = "reject"
)

// IsValid returns true if the decision is one of the known values.
func (d ApplicationDecision) IsValid() bool {
	return d == DecisionAccept || d == DecisionReject
}
