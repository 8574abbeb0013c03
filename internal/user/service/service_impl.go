package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tracera/tracera/internal/auth/password"
	revisiondomain "github.com/tracera/tracera/internal/revision/domain"
	"github.com/tracera/tracera/internal/revstore"
	"github.com/tracera/tracera/internal/user/domain"
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
		log:    p.Log.Named("user.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		ledger: p.Ledger,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateUserRequest) (domain.Snapshot, error) {
	userName := strings.ToLower(strings.TrimSpace(req.UserName))
	if userName == "" {
		return domain.Snapshot{}, domain.ErrInvalidUserName
	}
	realName := strings.TrimSpace(req.RealName)
	if realName == "" {
		return domain.Snapshot{}, domain.ErrInvalidRealName
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Snapshot{}, domain.ErrInvalidEmail
	}
	if req.Password == "" {
		return domain.Snapshot{}, domain.ErrInvalidPassword
	}
	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.Snapshot{}, err
	}

	var created domain.Snapshot
	err = s.store.WithTx(ctx, func(tx *gorm.DB) error {
		rev, err := s.ledger.Begin(ctx, tx, req.ActorID)
		if err != nil {
			return err
		}
		if err := s.ensureUnique(ctx, tx, "user_name", userName, 0, rev); err != nil {
			return err
		}
		id, err := s.repo.AllocateID(ctx, tx)
		if err != nil {
			return err
		}
		created = domain.Snapshot{
			RowID:        s.genID.Generate(),
			UserID:       id,
			UserName:     userName,
			RealName:     realName,
			Email:        email,
			PasswordHash: hash,
			Active:       true,
			RevisionID:   rev,
		}
		return s.repo.InsertSnapshot(ctx, tx, &created)
	})
	if err != nil {
		return domain.Snapshot{}, err
	}

	s.log.Info("user created",
		zap.Int64("user_id", created.UserID),
		zap.Int64("revision", created.RevisionID),
	)
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetUserRequest) (domain.Snapshot, error) {
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

func (s *Service) GetByUniqueAttribute(ctx context.Context, req domain.FindUserRequest) (domain.Snapshot, error) {
	maxRev, err := s.asOf(ctx, req.AsOf)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snaps, err := s.repo.FindByAttribute(ctx, s.store.DB(), req.Attribute, req.Value, revstore.SelectionActive, maxRev)
	if err != nil {
		return domain.Snapshot{}, err
	}
	switch len(snaps) {
	case 0:
		return domain.Snapshot{}, revstore.ErrNotFound
	case 1:
		return *snaps[0], nil
	default:
		return domain.Snapshot{}, revstore.ErrAmbiguousMatch
	}
}

func (s *Service) ListByAttribute(ctx context.Context, req domain.FindUserRequest) ([]domain.Snapshot, error) {
	maxRev, err := s.asOf(ctx, req.AsOf)
	if err != nil {
		return nil, err
	}
	sel := req.Selection
	if sel == "" {
		sel = revstore.SelectionActive
	}
	snaps, err := s.repo.FindByAttribute(ctx, s.store.DB(), req.Attribute, req.Value, sel, maxRev)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Snapshot, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, *snap)
	}
	return out, nil
}

func (s *Service) ListIDs(ctx context.Context, req domain.ListUserIDsRequest) ([]int64, error) {
	maxRev, err := s.asOf(ctx, req.AsOf)
	if err != nil {
		return nil, err
	}
	sel := req.Selection
	if sel == "" {
		sel = revstore.SelectionActive
	}
	return s.repo.ListIDs(ctx, s.store.DB(), sel, maxRev)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateUserRequest) (domain.Snapshot, error) {
	userName := strings.ToLower(strings.TrimSpace(req.UserName))
	if userName == "" {
		return domain.Snapshot{}, domain.ErrInvalidUserName
	}
	realName := strings.TrimSpace(req.RealName)
	if realName == "" {
		return domain.Snapshot{}, domain.ErrInvalidRealName
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Snapshot{}, domain.ErrInvalidEmail
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
		if err := s.ensureUnique(ctx, tx, "user_name", userName, req.ID, rev); err != nil {
			return err
		}
		hash := current.PasswordHash
		if req.Password != "" {
			if hash, err = password.Hash(req.Password); err != nil {
				return err
			}
		}
		updated = domain.Snapshot{
			RowID:        s.genID.Generate(),
			UserID:       req.ID,
			UserName:     userName,
			RealName:     realName,
			Email:        email,
			PasswordHash: hash,
			Active:       req.Active,
			RevisionID:   rev,
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

// setActive copies the current attributes under a new revision with the flag
// flipped. Requesting the state the user is already in is a failure, not a
// silent no-op.
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

func (s *Service) ensureUnique(ctx context.Context, tx *gorm.DB, name string, value any, selfID, rev int64) error {
	snaps, err := s.repo.FindByAttribute(ctx, tx, name, value, revstore.SelectionActive, rev)
	if err != nil {
		return err
	}
	for _, snap := range snaps {
		if snap.UserID != selfID {
			return revstore.ErrConflict
		}
	}
	return nil
}

func (s *Service) asOf(ctx context.Context, asOf *int64) (int64, error) {
	if asOf != nil {
		return *asOf, nil
	}
	return s.ledger.Current(ctx)
}
