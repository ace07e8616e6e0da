package service

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lacupula/imperium/internal/evidence"
	"github.com/lacupula/imperium/internal/model"
	"github.com/lacupula/imperium/internal/store"
)

// GuildService handles guild founding, listing, applications and the
// applicant queue.
type GuildService struct {
	snapshots *store.Manager
	evidence  evidence.Store
}

// GuildServiceConfig holds configuration for the guild service
type GuildServiceConfig struct {
	Snapshots *store.Manager
	Evidence  evidence.Store
}

// NewGuildService creates a new guild service
func NewGuildService(cfg GuildServiceConfig) *GuildService {
	return &GuildService{
		snapshots: cfg.Snapshots,
		evidence:  cfg.Evidence,
	}
}

// FoundGuildRequest represents a guild founding request
type FoundGuildRequest struct {
	UserID      string
	Name        string
	Description string
	Mission     string
	Colors      model.GuildColors
}

// FoundGuild creates a guild with the standard rank ladder and installs
// the founder as its leader. The founder must be unaffiliated.
func (s *GuildService) FoundGuild(ctx context.Context, req FoundGuildRequest) (*model.Guild, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrGuildNameRequired
	}
	if len(name) > model.MaxGuildNameLength {
		return nil, ErrGuildNameTooLong
	}
	if len(req.Description) > model.MaxGuildDescLength {
		return nil, ErrGuildDescTooLong
	}
	if len(req.Mission) > model.MaxGuildMissionLength {
		return nil, ErrMissionTooLong
	}

	guild := &model.Guild{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Mission:     strings.TrimSpace(req.Mission),
		LeaderID:    req.UserID,
		Colors:      req.Colors,
		Ranks:       defaultRanks(),
		Applicants:  []model.Application{},
		FoundedAt:   time.Now().UTC(),
	}

	err := s.snapshots.Update(ctx, func(snap *store.Snapshot) error {
		user := snap.UserByID(req.UserID)
		if user == nil {
			return ErrUserNotFound
		}
		if user.IsAffiliated() {
			return ErrAlreadyAffiliated
		}
		if snap.GuildByName(name) != nil {
			return ErrGuildNameExists
		}

		snap.Guilds = append(snap.Guilds, *guild)

		leaderRank := guild.Ranks[0]
		user.GuildID = &guild.ID
		user.RankID = &leaderRank.ID

		// Founding announcement, visible to everyone.
		snap.News = append(snap.News, model.News{
			ID:      uuid.New().String(),
			Title:   "A new guild has been founded: " + name,
			Content: guild.Mission,
			Date:    guild.FoundedAt,
			Author:  user.Name,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return guild, nil
}

// defaultRanks returns the rank ladder every new guild starts with.
// The leader rank is first so the founder assignment can index it directly.
func defaultRanks() []model.Rank {
	return []model.Rank{
		{
			ID:          uuid.New().String(),
			Name:        "Leader",
			Level:       model.RankLevelLeader,
			Permissions: []string{model.PermissionAll},
		},
		{
			ID:          uuid.New().String(),
			Name:        "Member",
			Level:       model.RankLevelMember,
			Permissions: []string{model.PermissionView},
		},
	}
}

// ListGuilds returns summaries of all guilds in founding order.
func (s *GuildService) ListGuilds(ctx context.Context) ([]model.GuildSummary, error) {
	var summaries []model.GuildSummary
	err := s.snapshots.View(ctx, func(snap *store.Snapshot) error {
		summaries = make([]model.GuildSummary, 0, len(snap.Guilds))
		for i := range snap.Guilds {
			g := &snap.Guilds[i]
			summaries = append(summaries, model.GuildSummary{
				ID:          g.ID,
				Name:        g.Name,
				Description: g.Description,
				Mission:     g.Mission,
				Colors:      g.Colors,
				MemberCount: snap.GuildMemberCount(g.ID),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// GetGuild returns the public projection of a single guild. The pending
// applicant queue is excluded; it is only reachable via ListApplicants.
func (s *GuildService) GetGuild(ctx context.Context, guildID string) (*model.GuildDetail, error) {
	var detail model.GuildDetail
	err := s.snapshots.View(ctx, func(snap *store.Snapshot) error {
		found := snap.GuildByID(guildID)
		if found == nil {
			return ErrGuildNotFound
		}
		detail = found.ToDetail(snap.GuildMemberCount(found.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// ApplyRequest represents a guild application request
type ApplyRequest struct {
	UserID  string
	GuildID string

	// Evidence is an optional upload for this application. When absent,
	// the evidence attached at registration is used instead.
	Evidence *EvidenceFile
}

// ApplyToGuild files a join application. The applicant must be
// unaffiliated, must not already have a pending application for the
// guild, and must supply merit evidence here or at registration.
func (s *GuildService) ApplyToGuild(ctx context.Context, req ApplyRequest) (*model.Application, error) {
	uploadedRef := ""
	if req.Evidence != nil {
		key := uuid.New().String() + strings.ToLower(filepath.Ext(req.Evidence.Filename))
		ref, err := s.evidence.Put(ctx, key, req.Evidence.ContentType, req.Evidence.Content)
		if err != nil {
			return nil, err
		}
		uploadedRef = ref
	}

	application := &model.Application{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		AppliedAt: time.Now().UTC(),
	}

	err := s.snapshots.Update(ctx, func(snap *store.Snapshot) error {
		user := snap.UserByID(req.UserID)
		if user == nil {
			return ErrUserNotFound
		}
		if user.IsAffiliated() {
			return ErrAlreadyAffiliated
		}

		guild := snap.GuildByID(req.GuildID)
		if guild == nil {
			return ErrGuildNotFound
		}
		for i := range guild.Applicants {
			if guild.Applicants[i].UserID == req.UserID {
				return ErrDuplicateApplication
			}
		}

		ref := uploadedRef
		if ref == "" {
			ref = user.EvidenceRef
		}
		if ref == "" {
			return ErrEvidenceRequired
		}
		application.EvidenceRef = ref

		guild.Applicants = append(guild.Applicants, *application)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return application, nil
}

// ApplicantView is an applicant queue entry enriched with the
// applicant's profile fields.
type ApplicantView struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	Influence     int       `json:"influence"`
	Contributions int       `json:"contributions"`
	EvidenceRef   string    `json:"evidence_ref"`
	AppliedAt     time.Time `json:"applied_at"`
}

// ListApplicants returns the pending queue of the requester's guild in
// application order. Requires a rank at or above the viewing threshold.
func (s *GuildService) ListApplicants(ctx context.Context, requesterID string) ([]ApplicantView, error) {
	var views []ApplicantView
	err := s.snapshots.View(ctx, func(snap *store.Snapshot) error {
		_, guild, rank, err := memberWithRank(snap, requesterID)
		if err != nil {
			return err
		}
		if !authorize(rank, requirement{minLevel: model.ThresholdViewApplicants}) {
			return ErrInsufficientRank
		}

		views = make([]ApplicantView, 0, len(guild.Applicants))
		for i := range guild.Applicants {
			app := &guild.Applicants[i]
			view := ApplicantView{
				ID:          app.ID,
				UserID:      app.UserID,
				EvidenceRef: app.EvidenceRef,
				AppliedAt:   app.AppliedAt,
			}
			if applicant := snap.UserByID(app.UserID); applicant != nil {
				view.UserName = applicant.Name
				view.Influence = applicant.Influence
				view.Contributions = applicant.Contributions
			}
			views = append(views, view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ResolveRequest represents a decision on a pending application
type ResolveRequest struct {
	RequesterID   string
	ApplicationID string
	Decision      model.ApplicationDecision
}

// ResolveApplicant accepts or rejects a pending application in the
// requester's guild. Requires a rank at or above the deciding
// threshold. Accepting assigns the guild's lowest-level rank; either
// outcome removes the application from the queue.
func (s *GuildService) ResolveApplicant(ctx context.Context, req ResolveRequest) (*model.User, error) {
	if !req.Decision.IsValid() {
		return nil, ErrInvalidDecision
	}

	var applicant *model.User
	err := s.snapshots.Update(ctx, func(snap *store.Snapshot) error {
		_, guild, rank, err := memberWithRank(snap, req.RequesterID)
		if err != nil {
			return err
		}
		if !authorize(rank, requirement{minLevel: model.ThresholdResolveApplicants}) {
			return ErrInsufficientRank
		}

		// Applications are only addressable within the decider's own
		// guild; IDs from other guilds resolve to not found.
		app := guild.ApplicationByID(req.ApplicationID)
		if app == nil {
			return ErrApplicationNotFound
		}

		if req.Decision == model.DecisionAccept {
			user := snap.UserByID(app.UserID)
			if user == nil {
				return ErrUserNotFound
			}
			if user.IsAffiliated() {
				return ErrAlreadyAffiliated
			}
			lowest := guild.LowestRank()
			if lowest == nil {
				return ErrGuildHasNoRanks
			}
			user.GuildID = &guild.ID
			user.RankID = &lowest.ID
			copied := *user
			applicant = &copied
		}

		guild.RemoveApplication(req.ApplicationID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applicant, nil
}

// memberWithRank resolves a user together with their guild and rank.
// Unaffiliated users and dangling rank references both fail with
// ErrInsufficientRank since neither can satisfy any threshold.
func memberWithRank(snap *store.Snapshot, userID string) (*model.User, *model.Guild, *model.Rank, error) {
	user := snap.UserByID(userID)
	if user == nil {
		return nil, nil, nil, ErrUserNotFound
	}
	if !user.IsAffiliated() || user.RankID == nil {
		return nil, nil, nil, ErrInsufficientRank
	}
	guild := snap.GuildByID(*user.GuildID)
	if guild == nil {
		return nil, nil, nil, ErrInsufficientRank
	}
	rank := guild.RankByID(*user.RankID)
	if rank == nil {
		return nil, nil, nil, ErrInsufficientRank
	}
	return user, guild, rank, nil
}
