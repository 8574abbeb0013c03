package repository

import (
	"context"

	"github.com/tracera/tracera/internal/project/domain"
	"github.com/tracera/tracera/internal/revstore"
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
		`INSERT INTO project_history (row_id, project_id, short_name, full_name, description, active, revision_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.RowID,
		snap.ProjectID,
		snap.ShortName,
		snap.FullName,
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

func (r *repo) FindByAttribute(ctx context.Context, db *gorm.DB, name string, value any, sel revstore.Selection, maxRevision int64) ([]*domain.Snapshot, error) {
	var snaps []*domain.Snapshot
	if err := revstore.ResolveByAttribute(ctx, db, domain.Table, &snaps, name, value, sel, maxRevision, nil); err != nil {
		return nil, err
	}
	return snaps, nil
}

func (r *repo) ListIDs(ctx context.Context, db *gorm.DB, sel revstore.Selection, maxRevision int64) ([]int64, error) {
	return revstore.ResolveIDs(ctx, db, domain.Table, sel, maxRevision, nil)
}
