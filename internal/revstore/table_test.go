package revstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// widgets is a minimal revisioned kind used to exercise the resolver without
// dragging in a real entity package.
var widgetTable = Table{
	Identity: "widgets",
	History:  "widget_history",
	IDColumn: "widget_id",
	Columns: []string{
		"row_id", "widget_id", "parent_id", "name", "active", "revision_id",
	},
	Searchable: []string{"name"},
}

type widgetSnapshot struct {
	RowID      int64  `gorm:"column:row_id"`
	WidgetID   int64  `gorm:"column:widget_id"`
	ParentID   int64  `gorm:"column:parent_id"`
	Name       string `gorm:"column:name"`
	Active     bool   `gorm:"column:active"`
	RevisionID int64  `gorm:"column:revision_id"`
}

func openWidgetDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(`CREATE TABLE widgets (id INTEGER PRIMARY KEY)`).Error)
	require.NoError(t, conn.Exec(`CREATE TABLE widget_history (
		row_id INTEGER PRIMARY KEY,
		widget_id INTEGER NOT NULL,
		parent_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		active BOOLEAN NOT NULL,
		revision_id INTEGER NOT NULL,
		UNIQUE (widget_id, revision_id)
	)`).Error)
	return conn
}

func insertWidget(t *testing.T, db *gorm.DB, rowID, widgetID, parentID int64, name string, active bool, rev int64) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO widget_history (row_id, widget_id, parent_id, name, active, revision_id) VALUES (?, ?, ?, ?, ?, ?)`,
		rowID, widgetID, parentID, name, active, rev,
	).Error)
}

func TestAllocateIDIsSequential(t *testing.T) {
	db := openWidgetDB(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := AllocateID(ctx, db, widgetTable)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	exists, err := IdentityExists(ctx, db, widgetTable, 2)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = IdentityExists(ctx, db, widgetTable, 99)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestResolveByIDReadsAsOfRevision(t *testing.T) {
	db := openWidgetDB(t)
	ctx := context.Background()

	insertWidget(t, db, 100, 1, 0, "first", true, 1)
	insertWidget(t, db, 101, 1, 0, "renamed", true, 3)

	var snap widgetSnapshot
	err := ResolveByID(ctx, db, widgetTable, &snap, 1, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, ResolveByID(ctx, db, widgetTable, &snap, 1, 1))
	assert.Equal(t, "first", snap.Name)

	// Revision 2 touched other kinds; the widget still resolves to its
	// latest snapshot at or before that point.
	require.NoError(t, ResolveByID(ctx, db, widgetTable, &snap, 1, 2))
	assert.Equal(t, "first", snap.Name)

	require.NoError(t, ResolveByID(ctx, db, widgetTable, &snap, 1, 3))
	assert.Equal(t, "renamed", snap.Name)
	assert.EqualValues(t, 3, snap.RevisionID)
}

func TestResolveByAttributeRejectsUnknownColumn(t *testing.T) {
	db := openWidgetDB(t)

	var snaps []*widgetSnapshot
	err := ResolveByAttribute(context.Background(), db, widgetTable, &snaps, "color", "red", SelectionActive, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidAttribute)
}

func TestResolveByAttributeAppliesSelection(t *testing.T) {
	db := openWidgetDB(t)
	ctx := context.Background()

	insertWidget(t, db, 100, 1, 0, "gadget", true, 1)
	insertWidget(t, db, 101, 2, 0, "gadget", false, 2)

	var snaps []*widgetSnapshot
	require.NoError(t, ResolveByAttribute(ctx, db, widgetTable, &snaps, "name", "gadget", SelectionActive, 5, nil))
	require.Len(t, snaps, 1)
	assert.EqualValues(t, 1, snaps[0].WidgetID)

	snaps = nil
	require.NoError(t, ResolveByAttribute(ctx, db, widgetTable, &snaps, "name", "gadget", SelectionInactive, 5, nil))
	require.Len(t, snaps, 1)
	assert.EqualValues(t, 2, snaps[0].WidgetID)

	snaps = nil
	require.NoError(t, ResolveByAttribute(ctx, db, widgetTable, &snaps, "name", "gadget", SelectionAll, 5, nil))
	assert.Len(t, snaps, 2)
}

func TestResolveByAttributeSeesOnlyLatestSnapshot(t *testing.T) {
	db := openWidgetDB(t)
	ctx := context.Background()

	// The widget was named gadget at revision 1 and renamed at revision 2.
	// Searching for the old name must not match the superseded snapshot.
	insertWidget(t, db, 100, 1, 0, "gadget", true, 1)
	insertWidget(t, db, 101, 1, 0, "gizmo", true, 2)

	var snaps []*widgetSnapshot
	require.NoError(t, ResolveByAttribute(ctx, db, widgetTable, &snaps, "name", "gadget", SelectionAll, 5, nil))
	assert.Empty(t, snaps)

	require.NoError(t, ResolveByAttribute(ctx, db, widgetTable, &snaps, "name", "gadget", SelectionAll, 1, nil))
	assert.Len(t, snaps, 1)
}

func TestResolveByAttributeHonorsScope(t *testing.T) {
	db := openWidgetDB(t)
	ctx := context.Background()

	insertWidget(t, db, 100, 1, 10, "gadget", true, 1)
	insertWidget(t, db, 101, 2, 20, "gadget", true, 2)

	var snaps []*widgetSnapshot
	scope := &Scope{Column: "parent_id", ID: 20}
	require.NoError(t, ResolveByAttribute(ctx, db, widgetTable, &snaps, "name", "gadget", SelectionActive, 5, scope))
	require.Len(t, snaps, 1)
	assert.EqualValues(t, 2, snaps[0].WidgetID)
}

func TestResolveIDs(t *testing.T) {
	db := openWidgetDB(t)
	ctx := context.Background()

	insertWidget(t, db, 100, 1, 10, "a", true, 1)
	insertWidget(t, db, 101, 2, 10, "b", false, 2)
	insertWidget(t, db, 102, 3, 20, "c", true, 3)

	ids, err := ResolveIDs(ctx, db, widgetTable, SelectionActive, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)

	ids, err = ResolveIDs(ctx, db, widgetTable, SelectionAll, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	ids, err = ResolveIDs(ctx, db, widgetTable, SelectionActive, 5, &Scope{Column: "parent_id", ID: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)

	// Before the third widget existed.
	ids, err = ResolveIDs(ctx, db, widgetTable, SelectionAll, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)
}
