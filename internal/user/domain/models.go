package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tracera/tracera/internal/revstore"
)

// Snapshot is one row of user_history: the user's attributes as of one
// revision. Rows are append-only; changing a user means inserting a new
// snapshot under a newer revision.
type Snapshot struct {
	RowID        snowflake.ID `gorm:"column:row_id" json:"-"`
	UserID       int64        `gorm:"column:user_id" json:"id"`
	UserName     string       `gorm:"column:user_name" json:"user_name"`
	RealName     string       `gorm:"column:real_name" json:"real_name"`
	Email        string       `gorm:"column:email" json:"email"`
	PasswordHash string       `gorm:"column:password_hash" json:"-"`
	Active       bool         `gorm:"column:active" json:"active"`
	RevisionID   int64        `gorm:"column:revision_id" json:"revision_id"`
}

// Table binds the kind to its identity and history storage.
var Table = revstore.Table{
	Identity: "users",
	History:  "user_history",
	IDColumn: "user_id",
	Columns: []string{
		"row_id", "user_id", "user_name", "real_name", "email",
		"password_hash", "active", "revision_id",
	},
	Searchable: []string{"user_name", "email"},
}
