package repository

import (
	"context"

	"github.com/tracera/tracera/internal/revstore"
	"github.com/tracera/tracera/internal/tracker/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) AllocateID(ctx context.Context, tx *gorm.DB) (int64, error) {
	return revstore.AllocateID(ctx, tx, domain.Table)
}

func (r *repo) InsertSnapshot(ctx context.Context, tx *gorm.DB, snap *domain.Snapshot) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO tracker_history (row_id, tracker_id, project_id, short_name, name, description, active, revision_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.RowID,
		snap.TrackerID,
		snap.ProjectID,
		snap.ShortName,
		snap.Name,
		snap.Description,
		snap.Active,
		snap.RevisionID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id, maxRevision int64) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := revstore.ResolveByID(ctx, db, domain.Table, &snap, id, maxRevision); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *repo) FindByAttribute(ctx context.Context, db *gorm.DB, name string, value any, sel revstore.Selection, maxRevision int64, scope *revstore.Scope) ([]*domain.Snapshot, error) {
	var snaps []*domain.Snapshot
	if err := revstore.ResolveByAttribute(ctx, db, domain.Table, &snaps, name, value, sel, maxRevision, scope); err != nil {
		return nil, err
	}
	return snaps, nil
}

func (r *repo) ListIDs(ctx context.Context, db *gorm.DB, sel revstore.Selection, maxRevision int64, scope *revstore.Scope) ([]int64, error) {
	return revstore.ResolveIDs(ctx, db, domain.Table, sel, maxRevision, scope)
}
