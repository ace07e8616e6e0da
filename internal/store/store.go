// Package store provides snapshot persistence for Imperium.
//
// All application state (users, guilds, news, sessions) lives in a single
// Snapshot value that is loaded and saved wholesale. A Store implementation
// handles durability (JSON file, SurrealDB record, or in-memory for tests),
// and the Manager serializes access so that every mutation sees a fresh
// snapshot and commits it atomically with respect to other mutations.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/lacupula/imperium/internal/model"
)

// Standard errors for store operations.
var (
	// ErrLoad indicates the snapshot could not be read from the backend.
	ErrLoad = errors.New("snapshot load failed")

	// ErrSave indicates the snapshot could not be written to the backend.
	// A failed save aborts the operation; no partial state is kept.
	ErrSave = errors.New("snapshot save failed")
)

// Snapshot is the complete application state.
type Snapshot struct {
	Users    []model.User    `json:"users"`
	Guilds   []model.Guild   `json:"guilds"`
	News     []model.News    `json:"news"`
	Sessions []model.Session `json:"sessions"`
}

// NewSnapshot returns an empty snapshot with initialized collections.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:    []model.User{},
		Guilds:   []model.Guild{},
		News:     []model.News{},
		Sessions: []model.Session{},
	}
}

// UserByID returns a pointer into the snapshot's user slice, or nil.
func (s *Snapshot) UserByID(id string) *model.User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// UserByEmail looks up a user by email, case-insensitively.
func (s *Snapshot) UserByEmail(email string) *model.User {
	for i := range s.Users {
		if strings.EqualFold(s.Users[i].Email, email) {
			return &s.Users[i]
		}
	}
	return nil
}

// GuildByID returns a pointer into the snapshot's guild slice, or nil.
func (s *Snapshot) GuildByID(id string) *model.Guild {
	for i := range s.Guilds {
		if s.Guilds[i].ID == id {
			return &s.Guilds[i]
		}
	}
	return nil
}

// GuildByName looks up a guild by name, case-insensitively.
func (s *Snapshot) GuildByName(name string) *model.Guild {
	for i := range s.Guilds {
		if strings.EqualFold(s.Guilds[i].Name, name) {
			return &s.Guilds[i]
		}
	}
	return nil
}

// SessionByTokenHash looks up a session by its hashed token.
func (s *Snapshot) SessionByTokenHash(hash string) *model.Session {
	for i := range s.Sessions {
		if s.Sessions[i].TokenHash == hash {
			return &s.Sessions[i]
		}
	}
	return nil
}

// GuildMemberCount counts users whose GuildID matches the given guild.
func (s *Snapshot) GuildMemberCount(guildID string) int {
	count := 0
	for i := range s.Users {
		if s.Users[i].MemberOf(guildID) {
			count++
		}
	}
	return count
}

// Store abstracts snapshot durability.
type Store interface {
	// Load reads the current snapshot. Backends with no stored state
	// return an empty snapshot, not an error.
	Load(ctx context.Context) (*Snapshot, error)

	// Save writes the snapshot wholesale, replacing any previous state.
	Save(ctx context.Context, snap *Snapshot) error
}
