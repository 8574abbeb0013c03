package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// NextID computes the next gapless revision id. Must run inside the
	// write transaction.
	NextID(ctx context.Context, tx *gorm.DB) (int64, error)
	// Insert appends the revision row. A duplicate id is reported as
	// revstore.ErrRevisionCollision so the caller can retry the transaction.
	Insert(ctx context.Context, tx *gorm.DB, rev *Revision) error
	Current(ctx context.Context, db *gorm.DB) (int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Revision, error)
}
