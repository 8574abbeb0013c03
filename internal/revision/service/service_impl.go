package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tracera/tracera/internal/clock"
	"github.com/tracera/tracera/internal/revision/domain"
	"github.com/tracera/tracera/internal/revstore"
	userdomain "github.com/tracera/tracera/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Store *revstore.Store
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	store *revstore.Store
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		store: p.Store,
		log:   p.Log.Named("revision.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Begin allocates the next revision inside tx. The acting user must resolve
// at the revision being written; the snapshot used for that check cannot see
// the new revision because its rows do not exist yet.
func (s *Service) Begin(ctx context.Context, tx *gorm.DB, actorID int64) (int64, error) {
	next, err := s.repo.NextID(ctx, tx)
	if err != nil {
		return 0, err
	}

	var actor userdomain.Snapshot
	if err := revstore.ResolveByID(ctx, tx, userdomain.Table, &actor, actorID, next); err != nil {
		if errors.Is(err, revstore.ErrNotFound) {
			return 0, fmt.Errorf("acting user %d: %w", actorID, revstore.ErrInvalidReference)
		}
		return 0, err
	}

	rev := domain.Revision{
		ID:          next,
		CommittedAt: s.clock.Now().UTC(),
		AuthorID:    &actorID,
	}
	if err := s.repo.Insert(ctx, tx, &rev); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *Service) Current(ctx context.Context) (int64, error) {
	return s.repo.Current(ctx, s.store.DB())
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Revision, error) {
	rev, err := s.repo.FindByID(ctx, s.store.DB(), id)
	if err != nil {
		return domain.Revision{}, err
	}
	return *rev, nil
}
