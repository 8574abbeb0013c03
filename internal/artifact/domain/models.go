package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tracera/tracera/internal/revstore"
)

// Snapshot is one row of artifact_history. Artifacts carry no
// uniqueness-constrained attribute; two active artifacts may share a summary.
type Snapshot struct {
	RowID       snowflake.ID `gorm:"column:row_id" json:"-"`
	ArtifactID  int64        `gorm:"column:artifact_id" json:"id"`
	TrackerID   int64        `gorm:"column:tracker_id" json:"tracker_id"`
	Summary     string       `gorm:"column:summary" json:"summary"`
	Description string       `gorm:"column:description" json:"description"`
	Active      bool         `gorm:"column:active" json:"active"`
	RevisionID  int64        `gorm:"column:revision_id" json:"revision_id"`
}

var Table = revstore.Table{
	Identity: "artifacts",
	History:  "artifact_history",
	IDColumn: "artifact_id",
	Columns: []string{
		"row_id", "artifact_id", "tracker_id", "summary", "description",
		"active", "revision_id",
	},
	Searchable: []string{"summary", "tracker_id"},
}

// TrackerScope restricts a search to one tracker's artifacts.
func TrackerScope(trackerID int64) *revstore.Scope {
	return &revstore.Scope{Column: "tracker_id", ID: trackerID}
}
