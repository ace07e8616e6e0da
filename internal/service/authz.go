package service

import "github.com/lacupula/imperium/internal/model"

// requirement is what an operation demands of the caller's rank: a
// minimum level, a capability token, or either one when both are set.
type requirement struct {
	minLevel   int
	capability string
}

// authorize reports whether rank satisfies req. Every rank-gated
// operation goes through here so the thresholds are enforced in one
// place. The ALL wildcard grants any requirement regardless of level.
func authorize(rank *model.Rank, req requirement) bool {
	if rank.HasPermission(model.PermissionAll) {
		return true
	}
	if req.minLevel > 0 && rank.Level >= req.minLevel {
		return true
	}
	return req.capability != "" && rank.HasPermission(req.capability)
}
