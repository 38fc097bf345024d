// AngelaMos | 2026
// entity.go

package activity

import "time"

// Entry is one line of the recent-activity feed: who did what, with
// enough detail to render the feed row.
type Entry struct {
	ID        string    `db:"id"         json:"id"`
	Actor     string    `db:"actor"      json:"actor"`
	Action    string    `db:"action"     json:"action"`
	Detail    string    `db:"detail"     json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
