package progression

import (
	"context"
	"time"

	"github.com/financial-frontier/backend/internal/domain/topic"
)

// Waypoint is a lesson or challenge nested under a topic. Waypoints are
// populated by the progression-update flow on first access to a topic, not
// during onboarding.
type Waypoint struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Entry is the unlock state for one topic in a user's learning path.
type Entry struct {
	TopicID    string     `json:"topicId"`
	TopicTitle string     `json:"topicTitle"`
	IsUnlocked bool       `json:"isUnlocked"`
	Waypoints  []Waypoint `json:"waypoints"`
}

// Record is the per-user progression document. Topic order is fixed at
// onboarding and later mutations never re-rank it.
type Record struct {
	Topics      []Entry   `json:"topics"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ComposeInitial builds the initial path from a ranked topic list: one entry
// per topic in rank order, only the first unlocked, no waypoints yet. Pure;
// callers are expected to hand it a sanitized ranking (see topic.SanitizeRanking).
func ComposeInitial(rankedTopics []string) []Entry {
	entries := make([]Entry, len(rankedTopics))
	for i, id := range rankedTopics {
		entries[i] = Entry{
			TopicID:    id,
			TopicTitle: topic.Title(id),
			IsUnlocked: i == 0,
			Waypoints:  []Waypoint{},
		}
	}
	return entries
}

type Repository interface {
	// GetByUserID returns apperror.ErrNotFound (wrapped) when no record
	// exists for the user.
	GetByUserID(ctx context.Context, userID string) (*Record, error)
}
