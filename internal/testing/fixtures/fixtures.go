// Package fixtures provides test data factories for snapshot-backed tests.
//
// Each factory method seeds entities into a snapshot Manager with sensible
// defaults while allowing field overrides at the call site. Factories
// persist through the Manager so tests observe the same load-mutate-save
// path as production code.
//
// Usage:
//
//	f := fixtures.New(t, snapshots)
//	user := f.CreateUser(t, "ada@example.com")
//	guild := f.CreateGuild(t, "Night Watch", user)
package fixtures

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lacupula/imperium/internal/model"
	"github.com/lacupula/imperium/internal/store"
)

// Password is the plaintext password all fixture users share.
const Password = "correct-horse-battery"

// Factory seeds test data through a snapshot manager.
type Factory struct {
	snapshots *store.Manager
	hash      string
}

// New creates a factory. The shared bcrypt hash is computed once at the
// lowest cost since fixture credentials carry no secrets.
func New(t *testing.T, snapshots *store.Manager) *Factory {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash fixture password: %v", err)
	}
	return &Factory{snapshots: snapshots, hash: string(hash)}
}

// CreateUser seeds an unaffiliated user with the shared password.
func (f *Factory) CreateUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{
		ID:            uuid.New().String(),
		Name:          fmt.Sprintf("user-%s", uuid.New().String()[:8]),
		Email:         email,
		Hash:          f.hash,
		Influence:     model.InitialInfluence,
		Contributions: model.InitialContributions,
		JoinedAt:      time.Now().UTC(),
	}
	f.mutate(t, func(snap *store.Snapshot) {
		snap.Users = append(snap.Users, *user)
	})
	return user
}

// CreateUserWithEvidence seeds an unaffiliated user carrying an
// evidence reference from registration.
func (f *Factory) CreateUserWithEvidence(t *testing.T, email, evidenceRef string) *model.User {
	t.Helper()
	user := f.CreateUser(t, email)
	user.EvidenceRef = evidenceRef
	f.mutate(t, func(snap *store.Snapshot) {
		snap.UserByID(user.ID).EvidenceRef = evidenceRef
	})
	return user
}

// CreateGuild seeds a guild with the standard two-rank ladder and
// installs the leader at the top rank.
func (f *Factory) CreateGuild(t *testing.T, name string, leader *model.User) *model.Guild {
	t.Helper()
	return f.CreateGuildWithRanks(t, name, leader, []model.Rank{
		{ID: uuid.New().String(), Name: "Leader", Level: model.RankLevelLeader, Permissions: []string{model.PermissionAll}},
		{ID: uuid.New().String(), Name: "Member", Level: model.RankLevelMember, Permissions: []string{model.PermissionView}},
	})
}

// CreateGuildWithRanks seeds a guild with a custom rank ladder. The
// leader is assigned the first rank in the list.
func (f *Factory) CreateGuildWithRanks(t *testing.T, name string, leader *model.User, ranks []model.Rank) *model.Guild {
	t.Helper()
	guild := &model.Guild{
		ID:         uuid.New().String(),
		Name:       name,
		LeaderID:   leader.ID,
		Ranks:      ranks,
		Applicants: []model.Application{},
		FoundedAt:  time.Now().UTC(),
	}
	f.mutate(t, func(snap *store.Snapshot) {
		snap.Guilds = append(snap.Guilds, *guild)
		u := snap.UserByID(leader.ID)
		u.GuildID = &guild.ID
		u.RankID = &ranks[0].ID
	})
	leader.GuildID = &guild.ID
	leader.RankID = &ranks[0].ID
	return guild
}

// AddMember assigns an existing user to a guild at the given rank.
func (f *Factory) AddMember(t *testing.T, user *model.User, guild *model.Guild, rankID string) {
	t.Helper()
	f.mutate(t, func(snap *store.Snapshot) {
		u := snap.UserByID(user.ID)
		u.GuildID = &guild.ID
		u.RankID = &rankID
	})
	user.GuildID = &guild.ID
	user.RankID = &rankID
}

// AddApplicant files a pending application for the user on the guild.
func (f *Factory) AddApplicant(t *testing.T, user *model.User, guild *model.Guild) *model.Application {
	t.Helper()
	app := &model.Application{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		EvidenceRef: "evidence-" + user.ID[:8],
		AppliedAt:   time.Now().UTC(),
	}
	f.mutate(t, func(snap *store.Snapshot) {
		g := snap.GuildByID(guild.ID)
		g.Applicants = append(g.Applicants, *app)
	})
	return app
}

// AddNews seeds a news item. A nil guildID makes it global.
func (f *Factory) AddNews(t *testing.T, guildID *string, title string, date time.Time) *model.News {
	t.Helper()
	item := &model.News{
		ID:      uuid.New().String(),
		GuildID: guildID,
		Title:   title,
		Content: "content of " + title,
		Date:    date,
		Author:  "fixture",
	}
	f.mutate(t, func(snap *store.Snapshot) {
		snap.News = append(snap.News, *item)
	})
	return item
}

// AddSession seeds a session for the user and returns the raw token.
func (f *Factory) AddSession(t *testing.T, user *model.User) string {
	t.Helper()
	token := uuid.New().String()
	sum := sha256.Sum256([]byte(token))
	f.mutate(t, func(snap *store.Snapshot) {
		snap.Sessions = append(snap.Sessions, model.Session{
			TokenHash: hex.EncodeToString(sum[:]),
			UserID:    user.ID,
			CreatedAt: time.Now().UTC(),
		})
	})
	return token
}

func (f *Factory) mutate(t *testing.T, fn func(snap *store.Snapshot)) {
	t.Helper()
	err := f.snapshots.Update(context.Background(), func(snap *store.Snapshot) error {
		fn(snap)
		return nil
	})
	if err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
}
