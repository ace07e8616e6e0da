package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/lacupula/imperium/internal/evidence"
	"github.com/lacupula/imperium/internal/model"
	"github.com/lacupula/imperium/internal/store"
	"github.com/lacupula/imperium/internal/testing/fixtures"
)

func newTestGuildService(t *testing.T) (*GuildService, *store.Manager, *store.MemStore) {
	t.Helper()
	mem := store.NewMemStore()
	snapshots := store.NewManager(mem)
	svc := NewGuildService(GuildServiceConfig{
		Snapshots: snapshots,
		Evidence:  evidence.NewDiskStore(t.TempDir()),
	})
	return svc, snapshots, mem
}

// ============================================================================
// FoundGuild
// ============================================================================

func TestFoundGuild_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	founder := f.CreateUser(t, "founder@example.com")

	guild, err := svc.FoundGuild(ctx, FoundGuildRequest{
		UserID:  founder.ID,
		Name:    "Night Watch",
		Mission: "Guard the realms",
	})
	if err != nil {
		t.Fatalf("FoundGuild() error = %v", err)
	}

	if guild.LeaderID != founder.ID {
		t.Errorf("expected founder as leader, got %s", guild.LeaderID)
	}
	if len(guild.Ranks) == 0 {
		t.Fatal("expected default ranks")
	}
	if guild.Ranks[0].Level != model.RankLevelLeader {
		t.Errorf("expected first rank at leader level, got %d", guild.Ranks[0].Level)
	}
	if !guild.Ranks[0].HasPermission(model.PermissionRecruit) {
		t.Error("expected leader rank to carry all permissions")
	}

	err = snapshots.View(ctx, func(snap *store.Snapshot) error {
		u := snap.UserByID(founder.ID)
		if !u.MemberOf(guild.ID) {
			t.Error("expected founder affiliated with new guild")
		}
		if u.RankID == nil || *u.RankID != guild.Ranks[0].ID {
			t.Error("expected founder to hold the leader rank")
		}
		// Founding publishes a global announcement.
		found := false
		for i := range snap.News {
			if snap.News[i].IsGlobal() && strings.Contains(snap.News[i].Title, "Night Watch") {
				found = true
			}
		}
		if !found {
			t.Error("expected a global founding announcement")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestFoundGuild_AlreadyAffiliated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	f.CreateGuild(t, "First Guild", leader)

	_, err := svc.FoundGuild(ctx, FoundGuildRequest{UserID: leader.ID, Name: "Second Guild"})
	if !errors.Is(err, ErrAlreadyAffiliated) {
		t.Fatalf("expected ErrAlreadyAffiliated, got %v", err)
	}
}

func TestFoundGuild_DuplicateName_CaseInsensitive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	f.CreateGuild(t, "Night Watch", leader)
	other := f.CreateUser(t, "other@example.com")

	_, err := svc.FoundGuild(ctx, FoundGuildRequest{UserID: other.ID, Name: "NIGHT watch"})
	if !errors.Is(err, ErrGuildNameExists) {
		t.Fatalf("expected ErrGuildNameExists, got %v", err)
	}
}

func TestFoundGuild_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	user := f.CreateUser(t, "user@example.com")

	tests := []struct {
		name    string
		req     FoundGuildRequest
		wantErr error
	}{
		{"empty name", FoundGuildRequest{UserID: user.ID, Name: "   "}, ErrGuildNameRequired},
		{"name too long", FoundGuildRequest{UserID: user.ID, Name: strings.Repeat("x", model.MaxGuildNameLength+1)}, ErrGuildNameTooLong},
		{"description too long", FoundGuildRequest{UserID: user.ID, Name: "ok", Description: strings.Repeat("x", model.MaxGuildDescLength+1)}, ErrGuildDescTooLong},
		{"mission too long", FoundGuildRequest{UserID: user.ID, Name: "ok", Mission: strings.Repeat("x", model.MaxGuildMissionLength+1)}, ErrMissionTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.FoundGuild(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FoundGuild() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFoundGuild_ConcurrentSameName_OneWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)

	const n = 8
	users := make([]*model.User, n)
	for i := range users {
		users[i] = f.CreateUser(t, uuid.New().String()+"@example.com")
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.FoundGuild(ctx, FoundGuildRequest{UserID: users[i].ID, Name: "Night Watch"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrGuildNameExists) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one founding to win, got %d", succeeded)
	}

	err := snapshots.View(ctx, func(snap *store.Snapshot) error {
		if len(snap.Guilds) != 1 {
			t.Errorf("expected 1 guild, got %d", len(snap.Guilds))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

// ============================================================================
// ListGuilds
// ============================================================================

func TestListGuilds_MemberCount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuild(t, "Night Watch", leader)
	member := f.CreateUser(t, "member@example.com")
	f.AddMember(t, member, guild, guild.Ranks[1].ID)
	f.CreateUser(t, "outsider@example.com")

	summaries, err := svc.ListGuilds(ctx)
	if err != nil {
		t.Fatalf("ListGuilds() error = %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 guild, got %d", len(summaries))
	}
	if summaries[0].MemberCount != 2 {
		t.Errorf("expected member count 2, got %d", summaries[0].MemberCount)
	}
}

// ============================================================================
// GetGuild
// ============================================================================

func TestGetGuild_Detail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuild(t, "Night Watch", leader)
	member := f.CreateUser(t, "member@example.com")
	f.AddMember(t, member, guild, guild.Ranks[1].ID)
	applicant := f.CreateUser(t, "applicant@example.com")
	f.AddApplicant(t, applicant, guild)

	detail, err := svc.GetGuild(ctx, guild.ID)
	if err != nil {
		t.Fatalf("GetGuild() error = %v", err)
	}
	if detail.Name != "Night Watch" {
		t.Errorf("expected guild name, got %q", detail.Name)
	}
	if detail.MemberCount != 2 {
		t.Errorf("expected member count 2, got %d", detail.MemberCount)
	}
	if len(detail.Ranks) != 2 {
		t.Errorf("expected 2 ranks, got %d", len(detail.Ranks))
	}
}

func TestGetGuild_OmitsApplicantQueue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuild(t, "Night Watch", leader)
	applicant := f.CreateUser(t, "applicant@example.com")
	app := f.AddApplicant(t, applicant, guild)

	detail, err := svc.GetGuild(ctx, guild.ID)
	if err != nil {
		t.Fatalf("GetGuild() error = %v", err)
	}

	// The detail projection must not carry the pending queue; neither the
	// applicant's identity nor the evidence reference may appear in it.
	raw, err := json.Marshal(detail)
	if err != nil {
		t.Fatalf("marshal detail: %v", err)
	}
	for _, secret := range []string{"applicants", app.ID, applicant.ID, app.EvidenceRef} {
		if strings.Contains(string(raw), secret) {
			t.Errorf("guild detail leaks %q: %s", secret, raw)
		}
	}
}

func TestGetGuild_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestGuildService(t)

	_, err := svc.GetGuild(context.Background(), "no-such-guild")
	if !errors.Is(err, ErrGuildNotFound) {
		t.Errorf("GetGuild() error = %v, want %v", err, ErrGuildNotFound)
	}
}

// ============================================================================
// ApplyToGuild
// ============================================================================

func TestApplyToGuild_UsesRegistrationEvidence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuild(t, "Night Watch", leader)
	applicant := f.CreateUserWithEvidence(t, "applicant@example.com", "stored-evidence")

	app, err := svc.ApplyToGuild(ctx, ApplyRequest{UserID: applicant.ID, GuildID: guild.ID})
	if err != nil {
		t.Fatalf("ApplyToGuild() error = %v", err)
	}
	if app.EvidenceRef != "stored-evidence" {
		t.Errorf("expected registration evidence to carry over, got %q", app.EvidenceRef)
	}

	err = snapshots.View(ctx, func(snap *store.Snapshot) error {
		g := snap.GuildByID(guild.ID)
		if len(g.Applicants) != 1 || g.Applicants[0].UserID != applicant.ID {
			t.Errorf("unexpected applicant queue: %+v", g.Applicants)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestApplyToGuild_FreshUpload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuild(t, "Night Watch", leader)
	applicant := f.CreateUser(t, "applicant@example.com")

	app, err := svc.ApplyToGuild(ctx, ApplyRequest{
		UserID:  applicant.ID,
		GuildID: guild.ID,
		Evidence: &EvidenceFile{
			Filename:    "merits.pdf",
			ContentType: "application/pdf",
			Content:     strings.NewReader("pdf bytes"),
		},
	})
	if err != nil {
		t.Fatalf("ApplyToGuild() error = %v", err)
	}
	if app.EvidenceRef == "" {
		t.Error("expected an evidence reference for the upload")
	}
}

func TestApplyToGuild_EvidenceRequired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuild(t, "Night Watch", leader)
	applicant := f.CreateUser(t, "applicant@example.com")

	_, err := svc.ApplyToGuild(ctx, ApplyRequest{UserID: applicant.ID, GuildID: guild.ID})
	if !errors.Is(err, ErrEvidenceRequired) {
		t.Fatalf("expected ErrEvidenceRequired, got %v", err)
	}
}

func TestApplyToGuild_DuplicatePending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuild(t, "Night Watch", leader)
	applicant := f.CreateUserWithEvidence(t, "applicant@example.com", "ref")

	if _, err := svc.ApplyToGuild(ctx, ApplyRequest{UserID: applicant.ID, GuildID: guild.ID}); err != nil {
		t.Fatalf("first ApplyToGuild() error = %v", err)
	}
	_, err := svc.ApplyToGuild(ctx, ApplyRequest{UserID: applicant.ID, GuildID: guild.ID})
	if !errors.Is(err, ErrDuplicateApplication) {
		t.Fatalf("expected ErrDuplicateApplication, got %v", err)
	}
}

func TestApplyToGuild_AffiliatedUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	f.CreateGuild(t, "Night Watch", leader)
	other := f.CreateUser(t, "other-leader@example.com")
	otherGuild := f.CreateGuild(t, "Day Watch", other)

	_, err := svc.ApplyToGuild(ctx, ApplyRequest{UserID: leader.ID, GuildID: otherGuild.ID})
	if !errors.Is(err, ErrAlreadyAffiliated) {
		t.Fatalf("expected ErrAlreadyAffiliated, got %v", err)
	}
}

func TestApplyToGuild_UnknownGuild(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	applicant := f.CreateUserWithEvidence(t, "applicant@example.com", "ref")

	_, err := svc.ApplyToGuild(ctx, ApplyRequest{UserID: applicant.ID, GuildID: "missing"})
	if !errors.Is(err, ErrGuildNotFound) {
		t.Fatalf("expected ErrGuildNotFound, got %v", err)
	}
}

// ============================================================================
// ListApplicants
// ============================================================================

func TestListApplicants_ThresholdByLevel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		level   int
		allowed bool
	}{
		{10, false},
		{49, false},
		{50, true},
		{89, true},
		{90, true},
		{100, true},
	}

	for _, tt := range tests {
		level := tt.level
		allowed := tt.allowed
		t.Run(fmt.Sprintf("level %d", level), func(t *testing.T) {
			svc, snapshots, _ := newTestGuildService(t)
			f := fixtures.New(t, snapshots)
			leader := f.CreateUser(t, "leader@example.com")
			guild := f.CreateGuildWithRanks(t, "Night Watch", leader, []model.Rank{
				{ID: uuid.New().String(), Name: "Leader", Level: model.RankLevelLeader, Permissions: []string{model.PermissionAll}},
				{ID: uuid.New().String(), Name: "Watcher", Level: level, Permissions: []string{model.PermissionView}},
			})
			viewer := f.CreateUser(t, "viewer@example.com")
			f.AddMember(t, viewer, guild, guild.Ranks[1].ID)

			_, err := svc.ListApplicants(ctx, viewer.ID)
			if allowed && err != nil {
				t.Errorf("level %d: expected access, got %v", level, err)
			}
			if !allowed && !errors.Is(err, ErrInsufficientRank) {
				t.Errorf("level %d: expected ErrInsufficientRank, got %v", level, err)
			}
		})
	}
}

func TestListApplicants_WildcardBelowThreshold(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuildWithRanks(t, "Night Watch", leader, []model.Rank{
		{ID: uuid.New().String(), Name: "Leader", Level: model.RankLevelLeader, Permissions: []string{model.PermissionAll}},
		{ID: uuid.New().String(), Name: "Steward", Level: model.RankLevelMember, Permissions: []string{model.PermissionAll}},
	})
	steward := f.CreateUser(t, "steward@example.com")
	f.AddMember(t, steward, guild, guild.Ranks[1].ID)
	applicant := f.CreateUser(t, "applicant@example.com")
	app := f.AddApplicant(t, applicant, guild)

	// The ALL wildcard grants both queue operations even at a level below
	// the numeric thresholds.
	views, err := svc.ListApplicants(ctx, steward.ID)
	if err != nil {
		t.Fatalf("ListApplicants() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 applicant, got %d", len(views))
	}

	accepted, err := svc.ResolveApplicant(ctx, ResolveRequest{
		RequesterID:   steward.ID,
		ApplicationID: app.ID,
		Decision:      model.DecisionAccept,
	})
	if err != nil {
		t.Fatalf("ResolveApplicant() error = %v", err)
	}
	if accepted.GuildID == nil || *accepted.GuildID != guild.ID {
		t.Errorf("expected applicant joined to guild, got %+v", accepted)
	}
}

func TestListApplicants_Unaffiliated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	user := f.CreateUser(t, "loner@example.com")

	_, err := svc.ListApplicants(ctx, user.ID)
	if !errors.Is(err, ErrInsufficientRank) {
		t.Fatalf("expected ErrInsufficientRank, got %v", err)
	}
}

func TestListApplicants_EnrichesProfiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuild(t, "Night Watch", leader)
	applicant := f.CreateUser(t, "applicant@example.com")
	app := f.AddApplicant(t, applicant, guild)

	views, err := svc.ListApplicants(ctx, leader.ID)
	if err != nil {
		t.Fatalf("ListApplicants() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 applicant, got %d", len(views))
	}
	if views[0].ID != app.ID || views[0].UserName != applicant.Name {
		t.Errorf("unexpected view: %+v", views[0])
	}
	if views[0].Influence != model.InitialInfluence {
		t.Errorf("expected applicant influence %d, got %d", model.InitialInfluence, views[0].Influence)
	}
}

// ============================================================================
// ResolveApplicant
// ============================================================================

func TestResolveApplicant_AcceptAssignsLowestRank(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuildWithRanks(t, "Night Watch", leader, []model.Rank{
		{ID: "r-leader", Name: "Leader", Level: model.RankLevelLeader, Permissions: []string{model.PermissionAll}},
		{ID: "r-officer", Name: "Officer", Level: 50, Permissions: []string{model.PermissionView, model.PermissionRecruit}},
		{ID: "r-member", Name: "Member", Level: model.RankLevelMember, Permissions: []string{model.PermissionView}},
	})
	applicant := f.CreateUser(t, "applicant@example.com")
	app := f.AddApplicant(t, applicant, guild)

	accepted, err := svc.ResolveApplicant(ctx, ResolveRequest{
		RequesterID:   leader.ID,
		ApplicationID: app.ID,
		Decision:      model.DecisionAccept,
	})
	if err != nil {
		t.Fatalf("ResolveApplicant() error = %v", err)
	}
	if accepted == nil || accepted.RankID == nil || *accepted.RankID != "r-member" {
		t.Fatalf("expected lowest rank r-member, got %+v", accepted)
	}

	err = snapshots.View(ctx, func(snap *store.Snapshot) error {
		u := snap.UserByID(applicant.ID)
		if !u.MemberOf(guild.ID) {
			t.Error("expected applicant affiliated after accept")
		}
		g := snap.GuildByID(guild.ID)
		if len(g.Applicants) != 0 {
			t.Errorf("expected empty queue, got %+v", g.Applicants)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestResolveApplicant_AcceptLowestRankTieBreak(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuildWithRanks(t, "Night Watch", leader, []model.Rank{
		{ID: "r-leader", Name: "Leader", Level: model.RankLevelLeader, Permissions: []string{model.PermissionAll}},
		{ID: "r-recruit-a", Name: "Recruit A", Level: 10},
		{ID: "r-recruit-b", Name: "Recruit B", Level: 10},
	})
	applicant := f.CreateUser(t, "applicant@example.com")
	app := f.AddApplicant(t, applicant, guild)

	accepted, err := svc.ResolveApplicant(ctx, ResolveRequest{
		RequesterID:   leader.ID,
		ApplicationID: app.ID,
		Decision:      model.DecisionAccept,
	})
	if err != nil {
		t.Fatalf("ResolveApplicant() error = %v", err)
	}
	if *accepted.RankID != "r-recruit-a" {
		t.Errorf("expected deterministic tie-break to r-recruit-a, got %s", *accepted.RankID)
	}
}

func TestResolveApplicant_RejectRemovesOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuild(t, "Night Watch", leader)
	applicant := f.CreateUser(t, "applicant@example.com")
	app := f.AddApplicant(t, applicant, guild)

	accepted, err := svc.ResolveApplicant(ctx, ResolveRequest{
		RequesterID:   leader.ID,
		ApplicationID: app.ID,
		Decision:      model.DecisionReject,
	})
	if err != nil {
		t.Fatalf("ResolveApplicant() error = %v", err)
	}
	if accepted != nil {
		t.Errorf("expected no user on reject, got %+v", accepted)
	}

	err = snapshots.View(ctx, func(snap *store.Snapshot) error {
		if snap.UserByID(applicant.ID).IsAffiliated() {
			t.Error("rejected applicant must stay unaffiliated")
		}
		if len(snap.GuildByID(guild.ID).Applicants) != 0 {
			t.Error("expected application removed")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestResolveApplicant_BelowDecidingThreshold(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuildWithRanks(t, "Night Watch", leader, []model.Rank{
		{ID: "r-leader", Name: "Leader", Level: model.RankLevelLeader, Permissions: []string{model.PermissionAll}},
		{ID: "r-officer", Name: "Officer", Level: 89, Permissions: []string{model.PermissionView, model.PermissionRecruit}},
	})
	officer := f.CreateUser(t, "officer@example.com")
	f.AddMember(t, officer, guild, "r-officer")
	applicant := f.CreateUser(t, "applicant@example.com")
	app := f.AddApplicant(t, applicant, guild)

	// Level 89 may view the queue but may not decide.
	if _, err := svc.ListApplicants(ctx, officer.ID); err != nil {
		t.Fatalf("ListApplicants() error = %v", err)
	}
	_, err := svc.ResolveApplicant(ctx, ResolveRequest{
		RequesterID:   officer.ID,
		ApplicationID: app.ID,
		Decision:      model.DecisionAccept,
	})
	if !errors.Is(err, ErrInsufficientRank) {
		t.Fatalf("expected ErrInsufficientRank, got %v", err)
	}
}

func TestResolveApplicant_CrossGuildApplication(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, _ := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leaderA := f.CreateUser(t, "leader-a@example.com")
	f.CreateGuild(t, "Guild A", leaderA)
	leaderB := f.CreateUser(t, "leader-b@example.com")
	guildB := f.CreateGuild(t, "Guild B", leaderB)
	applicant := f.CreateUser(t, "applicant@example.com")
	app := f.AddApplicant(t, applicant, guildB)

	// Leader of guild A cannot address an application in guild B.
	_, err := svc.ResolveApplicant(ctx, ResolveRequest{
		RequesterID:   leaderA.ID,
		ApplicationID: app.ID,
		Decision:      model.DecisionAccept,
	})
	if !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestResolveApplicant_InvalidDecision(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newTestGuildService(t)

	_, err := svc.ResolveApplicant(ctx, ResolveRequest{
		RequesterID:   "whoever",
		ApplicationID: "whatever",
		Decision:      model.ApplicationDecision("maybe"),
	})
	if !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestResolveApplicant_SaveFailureLeavesQueueIntact(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, snapshots, mem := newTestGuildService(t)
	f := fixtures.New(t, snapshots)
	leader := f.CreateUser(t, "leader@example.com")
	guild := f.CreateGuild(t, "Night Watch", leader)
	applicant := f.CreateUser(t, "applicant@example.com")
	app := f.AddApplicant(t, applicant, guild)

	mem.FailNextSave = true
	_, err := svc.ResolveApplicant(ctx, ResolveRequest{
		RequesterID:   leader.ID,
		ApplicationID: app.ID,
		Decision:      model.DecisionAccept,
	})
	if !errors.Is(err, store.ErrSave) {
		t.Fatalf("expected ErrSave, got %v", err)
	}

	err = snapshots.View(ctx, func(snap *store.Snapshot) error {
		if snap.UserByID(applicant.ID).IsAffiliated() {
			t.Error("failed save must not affiliate the applicant")
		}
		if len(snap.GuildByID(guild.ID).Applicants) != 1 {
			t.Error("failed save must keep the application queued")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}
