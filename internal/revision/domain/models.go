package domain

import "time"

// Revision marks one committed logical change. AuthorID is nil only for the
// seed revision, the single write that predates every user.
type Revision struct {
	ID          int64     `gorm:"column:id" json:"id"`
	CommittedAt time.Time `gorm:"column:committed_at" json:"committed_at"`
	AuthorID    *int64    `gorm:"column:author_id" json:"author_id,omitempty"`
}
