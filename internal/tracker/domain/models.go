package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tracera/tracera/internal/revstore"
)

// Snapshot is one row of tracker_history. A tracker is one issue type inside
// a project; its short name is unique among the project's active trackers.
type Snapshot struct {
	RowID       snowflake.ID `gorm:"column:row_id" json:"-"`
	TrackerID   int64        `gorm:"column:tracker_id" json:"id"`
	ProjectID   int64        `gorm:"column:project_id" json:"project_id"`
	ShortName   string       `gorm:"column:short_name" json:"short_name"`
	Name        string       `gorm:"column:name" json:"name"`
	Description string       `gorm:"column:description" json:"description"`
	Active      bool         `gorm:"column:active" json:"active"`
	RevisionID  int64        `gorm:"column:revision_id" json:"revision_id"`
}

var Table = revstore.Table{
	Identity: "trackers",
	History:  "tracker_history",
	IDColumn: "tracker_id",
	Columns: []string{
		"row_id", "tracker_id", "project_id", "short_name", "name",
		"description", "active", "revision_id",
	},
	Searchable: []string{"short_name", "name", "project_id"},
}

// ProjectScope restricts a search to one project's trackers.
func ProjectScope(projectID int64) *revstore.Scope {
	return &revstore.Scope{Column: "project_id", ID: projectID}
}
