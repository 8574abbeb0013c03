package revstore

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Table describes how one entity kind is stored: an identity table holding
// nothing but the surrogate id, and an append-only history table holding one
// attribute snapshot per (entity, revision).
type Table struct {
	// Identity is the identity table; its single column is named id.
	Identity string
	// History is the attribute history table.
	History string
	// IDColumn is the entity id column in the history table.
	IDColumn string
	// Columns are the attribute columns selected into snapshots, including
	// IDColumn, active and revision_id.
	Columns []string
	// Searchable is the allow-list of columns usable as search keys.
	Searchable []string
}

func (t Table) searchable(name string) bool {
	for _, col := range t.Searchable {
		if col == name {
			return true
		}
	}
	return false
}

func (t Table) columnList() string {
	cols := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		cols = append(cols, "h."+col)
	}
	return strings.Join(cols, ", ")
}

// latestJoin is the core as-of reduction: for every entity of the kind, keep
// the history row with the greatest revision at or before maxRevision.
func (t Table) latestJoin() string {
	return fmt.Sprintf(
		`%s h JOIN (SELECT %s, MAX(revision_id) AS revision_id FROM %s WHERE revision_id <= ? GROUP BY %s) latest
		 ON latest.%s = h.%s AND latest.revision_id = h.revision_id`,
		t.History, t.IDColumn, t.History, t.IDColumn, t.IDColumn, t.IDColumn,
	)
}

// Scope optionally restricts an attribute search to entities under one parent
// (e.g. tracker fields of a single tracker).
type Scope struct {
	Column string
	ID     int64
}

// AllocateID hands out the next identity id for the kind and records it in
// the identity table. Must run inside the write transaction; writers are
// already serialized by revision allocation.
func AllocateID(ctx context.Context, tx *gorm.DB, t Table) (int64, error) {
	var next int64
	if err := tx.WithContext(ctx).
		Raw(fmt.Sprintf(`SELECT COALESCE(MAX(id), 0) + 1 FROM %s`, t.Identity)).
		Scan(&next).Error; err != nil {
		return 0, err
	}
	if err := tx.WithContext(ctx).
		Exec(fmt.Sprintf(`INSERT INTO %s (id) VALUES (?)`, t.Identity), next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

// IdentityExists reports whether an identity id was ever allocated.
func IdentityExists(ctx context.Context, db *gorm.DB, t Table, id int64) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Raw(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ?`, t.Identity), id).
		Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ResolveByID scans the history row for id with the greatest revision at or
// before maxRevision into dest, a pointer to a struct with gorm column tags
// matching t.Columns. Returns ErrNotFound when the entity is undefined at
// that revision.
func ResolveByID(ctx context.Context, db *gorm.DB, t Table, dest any, id, maxRevision int64) error {
	res := db.WithContext(ctx).Raw(fmt.Sprintf(
		`SELECT %s FROM %s h WHERE h.%s = ? AND h.revision_id <= ? ORDER BY h.revision_id DESC LIMIT 1`,
		t.columnList(), t.History, t.IDColumn,
	), id, maxRevision).Scan(dest)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ResolveByAttribute resolves every entity of the kind at maxRevision, then
// filters by attribute equality, selection and optional scope. dest must be a
// pointer to a slice of snapshot structs. Only allow-listed columns may be
// searched; anything else is a contract violation, not an empty result.
func ResolveByAttribute(ctx context.Context, db *gorm.DB, t Table, dest any, name string, value any, sel Selection, maxRevision int64, scope *Scope) error {
	if !t.searchable(name) {
		return fmt.Errorf("%w: %s.%s", ErrInvalidAttribute, t.History, name)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE h.%s = ?`, t.columnList(), t.latestJoin(), name)
	args := []any{maxRevision, value}

	if scope != nil {
		query += fmt.Sprintf(` AND h.%s = ?`, scope.Column)
		args = append(args, scope.ID)
	}
	if active, apply := sel.activeFilter(); apply {
		query += ` AND h.active = ?`
		args = append(args, active)
	}
	query += fmt.Sprintf(` ORDER BY h.%s`, t.IDColumn)

	return db.WithContext(ctx).Raw(query, args...).Scan(dest).Error
}

// ResolveIDs lists the ids of every entity of the kind matching the selection
// at maxRevision, optionally scoped to one parent.
func ResolveIDs(ctx context.Context, db *gorm.DB, t Table, sel Selection, maxRevision int64, scope *Scope) ([]int64, error) {
	query := fmt.Sprintf(`SELECT h.%s FROM %s`, t.IDColumn, t.latestJoin())
	args := []any{maxRevision}

	conds := []string{}
	if scope != nil {
		conds = append(conds, fmt.Sprintf(`h.%s = ?`, scope.Column))
		args = append(args, scope.ID)
	}
	if active, apply := sel.activeFilter(); apply {
		conds = append(conds, `h.active = ?`)
		args = append(args, active)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += fmt.Sprintf(` ORDER BY h.%s`, t.IDColumn)

	var ids []int64
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
