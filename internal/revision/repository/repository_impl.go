package repository

import (
	"context"
	"fmt"

	"github.com/tracera/tracera/internal/revision/domain"
	"github.com/tracera/tracera/internal/revstore"
	"github.com/tracera/tracera/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) NextID(ctx context.Context, tx *gorm.DB) (int64, error) {
	var next int64
	err := tx.WithContext(ctx).
		Raw(`SELECT COALESCE(MAX(id), 0) + 1 FROM revisions`).
		Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *repo) Insert(ctx context.Context, tx *gorm.DB, rev *domain.Revision) error {
	err := tx.WithContext(ctx).Exec(
		`INSERT INTO revisions (id, committed_at, author_id) VALUES (?, ?, ?)`,
		rev.ID,
		rev.CommittedAt,
		rev.AuthorID,
	).Error
	if db.IsDuplicateKeyErr(err) {
		return fmt.Errorf("revision %d: %w", rev.ID, revstore.ErrRevisionCollision)
	}
	return err
}

func (r *repo) Current(ctx context.Context, conn *gorm.DB) (int64, error) {
	var current int64
	err := conn.WithContext(ctx).
		Raw(`SELECT COALESCE(MAX(id), 0) FROM revisions`).
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current, nil
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id int64) (*domain.Revision, error) {
	var rev domain.Revision
	res := conn.WithContext(ctx).Raw(
		`SELECT id, committed_at, author_id FROM revisions WHERE id = ?`,
		id,
	).Scan(&rev)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, revstore.ErrNotFound
	}
	return &rev, nil
}
