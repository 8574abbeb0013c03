package domain

import (
	"context"

	"github.com/tracera/tracera/internal/revstore"
	"gorm.io/gorm"
)

type Repository interface {
	AllocateID(ctx context.Context, tx *gorm.DB) (int64, error)
	InsertSnapshot(ctx context.Context, tx *gorm.DB, snap *Snapshot) error
	FindByID(ctx context.Context, db *gorm.DB, id, maxRevision int64) (*Snapshot, error)
	FindByAttribute(ctx context.Context, db *gorm.DB, name string, value any, sel revstore.Selection, maxRevision int64) ([]*Snapshot, error)
	ListIDs(ctx context.Context, db *gorm.DB, sel revstore.Selection, maxRevision int64) ([]int64, error)
}
