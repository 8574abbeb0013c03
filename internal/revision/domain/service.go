package domain

import (
	"context"

	"gorm.io/gorm"
)

// Service is the revision ledger. Begin runs inside an already-open write
// transaction; Current and GetByID are plain reads.
type Service interface {
	// Begin allocates a strictly increasing revision id bound to the acting
	// user and the ledger clock. Returns revstore.ErrInvalidReference when
	// the actor does not resolve at the revision being written.
	Begin(ctx context.Context, tx *gorm.DB, actorID int64) (int64, error)
	Current(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (Revision, error)
}
