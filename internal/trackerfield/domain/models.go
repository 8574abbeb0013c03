package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tracera/tracera/internal/revstore"
	"gorm.io/datatypes"
)

// FieldType is the closed set of value types a tracker field can carry.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeText    FieldType = "text"
	FieldTypeInt     FieldType = "int"
	FieldTypeFloat   FieldType = "float"
	FieldTypeDate    FieldType = "date"
	FieldTypeUserRef FieldType = "user_ref"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeString, FieldTypeText, FieldTypeInt, FieldTypeFloat, FieldTypeDate, FieldTypeUserRef:
		return true
	default:
		return false
	}
}

// Snapshot is one row of tracker_field_history. Settings carries per-type
// options (list values, ranges) and is versioned like every other attribute.
type Snapshot struct {
	RowID      snowflake.ID      `gorm:"column:row_id" json:"-"`
	FieldID    int64             `gorm:"column:field_id" json:"id"`
	TrackerID  int64             `gorm:"column:tracker_id" json:"tracker_id"`
	ShortName  string            `gorm:"column:short_name" json:"short_name"`
	Label      string            `gorm:"column:label" json:"label"`
	FieldType  FieldType         `gorm:"column:field_type" json:"field_type"`
	Settings   datatypes.JSONMap `gorm:"column:settings" json:"settings,omitempty"`
	Active     bool              `gorm:"column:active" json:"active"`
	RevisionID int64             `gorm:"column:revision_id" json:"revision_id"`
}

var Table = revstore.Table{
	Identity: "tracker_fields",
	History:  "tracker_field_history",
	IDColumn: "field_id",
	Columns: []string{
		"row_id", "field_id", "tracker_id", "short_name", "label",
		"field_type", "settings", "active", "revision_id",
	},
	Searchable: []string{"short_name", "label", "field_type", "tracker_id"},
}

// TrackerScope restricts a search to one tracker's fields.
func TrackerScope(trackerID int64) *revstore.Scope {
	return &revstore.Scope{Column: "tracker_id", ID: trackerID}
}
