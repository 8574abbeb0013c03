package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tracera/tracera/internal/artifact/domain"
	revisiondomain "github.com/tracera/tracera/internal/revision/domain"
	"github.com/tracera/tracera/internal/revstore"
	trackerdomain "github.com/tracera/tracera/internal/tracker/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Store  *revstore.Store
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Ledger revisiondomain.Service
}

type Service struct {
	store  *revstore.Store
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	ledger revisiondomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		store:  p.Store,
		log:    p.Log.Named("artifact.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		ledger: p.Ledger,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateArtifactRequest) (domain.Snapshot, error) {
	summary := strings.TrimSpace(req.Summary)
	if summary == "" {
		return domain.Snapshot{}, domain.ErrInvalidSummary
	}
	if req.TrackerID <= 0 {
		return domain.Snapshot{}, domain.ErrInvalidTracker
	}

	var created domain.Snapshot
	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		rev, err := s.ledger.Begin(ctx, tx, req.ActorID)
		if err != nil {
			return err
		}
		if err := s.ensureTracker(ctx, tx, req.TrackerID, rev); err != nil {
			return err
		}
		id, err := s.repo.AllocateID(ctx, tx)
		if err != nil {
			return err
		}
		created = domain.Snapshot{
			RowID:       s.genID.Generate(),
			ArtifactID:  id,
			TrackerID:   req.TrackerID,
			Summary:     summary,
			Description: strings.TrimSpace(req.Description),
			Active:      true,
			RevisionID:  rev,
		}
		return s.repo.InsertSnapshot(ctx, tx, &created)
	})
	if err != nil {
		return domain.Snapshot{}, err
	}

	s.log.Info("artifact created",
		zap.Int64("artifact_id", created.ArtifactID),
		zap.Int64("tracker_id", created.TrackerID),
		zap.Int64("revision", created.RevisionID),
	)
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetArtifactRequest) (domain.Snapshot, error) {
	maxRev, err := s.asOf(ctx, req.AsOf)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap, err := s.repo.FindByID(ctx, s.store.DB(), req.ID, maxRev)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return *snap, nil
}

func (s *Service) ListByAttribute(ctx context.Context, req domain.FindArtifactRequest) ([]domain.Snapshot, error) {
	maxRev, err := s.asOf(ctx, req.AsOf)
	if err != nil {
		return nil, err
	}
	sel := req.Selection
	if sel == "" {
		sel = revstore.SelectionActive
	}
	snaps, err := s.repo.FindByAttribute(ctx, s.store.DB(), req.Attribute, req.Value, sel, maxRev, scopeOf(req.TrackerID))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Snapshot, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, *snap)
	}
	return out, nil
}

func (s *Service) ListIDs(ctx context.Context, req domain.ListArtifactIDsRequest) ([]int64, error) {
	maxRev, err := s.asOf(ctx, req.AsOf)
	if err != nil {
		return nil, err
	}
	sel := req.Selection
	if sel == "" {
		sel = revstore.SelectionActive
	}
	return s.repo.ListIDs(ctx, s.store.DB(), sel, maxRev, scopeOf(req.TrackerID))
}

func (s *Service) Update(ctx context.Context, req domain.UpdateArtifactRequest) (domain.Snapshot, error) {
	summary := strings.TrimSpace(req.Summary)
	if summary == "" {
		return domain.Snapshot{}, domain.ErrInvalidSummary
	}

	var updated domain.Snapshot
	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		rev, err := s.ledger.Begin(ctx, tx, req.ActorID)
		if err != nil {
			return err
		}
		current, err := s.repo.FindByID(ctx, tx, req.ID, rev)
		if err != nil {
			return err
		}
		updated = domain.Snapshot{
			RowID:       s.genID.Generate(),
			ArtifactID:  req.ID,
			TrackerID:   current.TrackerID,
			Summary:     summary,
			Description: strings.TrimSpace(req.Description),
			Active:      req.Active,
			RevisionID:  rev,
		}
		return s.repo.InsertSnapshot(ctx, tx, &updated)
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return updated, nil
}

func (s *Service) Activate(ctx context.Context, actorID, id int64) (domain.Snapshot, error) {
	return s.setActive(ctx, actorID, id, true)
}

func (s *Service) Deactivate(ctx context.Context, actorID, id int64) (domain.Snapshot, error) {
	return s.setActive(ctx, actorID, id, false)
}

func (s *Service) setActive(ctx context.Context, actorID, id int64, active bool) (domain.Snapshot, error) {
	var flipped domain.Snapshot
	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		rev, err := s.ledger.Begin(ctx, tx, actorID)
		if err != nil {
			return err
		}
		current, err := s.repo.FindByID(ctx, tx, id, rev)
		if err != nil {
			return err
		}
		if current.Active == active {
			return revstore.ErrNoStateChange
		}
		flipped = *current
		flipped.RowID = s.genID.Generate()
		flipped.Active = active
		flipped.RevisionID = rev
		return s.repo.InsertSnapshot(ctx, tx, &flipped)
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return flipped, nil
}

func (s *Service) ensureTracker(ctx context.Context, tx *gorm.DB, trackerID, rev int64) error {
	var tracker trackerdomain.Snapshot
	if err := revstore.ResolveByID(ctx, tx, trackerdomain.Table, &tracker, trackerID, rev); err != nil {
		if errors.Is(err, revstore.ErrNotFound) {
			return fmt.Errorf("tracker %d: %w", trackerID, revstore.ErrInvalidReference)
		}
		return err
	}
	return nil
}

func (s *Service) asOf(ctx context.Context, asOf *int64) (int64, error) {
	if asOf != nil {
		return *asOf, nil
	}
	return s.ledger.Current(ctx)
}

func scopeOf(trackerID int64) *revstore.Scope {
	if trackerID <= 0 {
		return nil
	}
	return domain.TrackerScope(trackerID)
}
