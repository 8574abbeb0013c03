package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tracera/tracera/internal/revstore"
)

// Snapshot is one row of project_history.
type Snapshot struct {
	RowID       snowflake.ID `gorm:"column:row_id" json:"-"`
	ProjectID   int64        `gorm:"column:project_id" json:"id"`
	ShortName   string       `gorm:"column:short_name" json:"short_name"`
	FullName    string       `gorm:"column:full_name" json:"full_name"`
	Description string       `gorm:"column:description" json:"description"`
	Active      bool         `gorm:"column:active" json:"active"`
	RevisionID  int64        `gorm:"column:revision_id" json:"revision_id"`
}

var Table = revstore.Table{
	Identity: "projects",
	History:  "project_history",
	IDColumn: "project_id",
	Columns: []string{
		"row_id", "project_id", "short_name", "full_name", "description",
		"active", "revision_id",
	},
	Searchable: []string{"short_name", "full_name"},
}
