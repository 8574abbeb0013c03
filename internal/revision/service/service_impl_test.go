package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"github.com/tracera/tracera/internal/clock"
	"github.com/tracera/tracera/internal/revision/domain"
	"github.com/tracera/tracera/internal/revision/repository"
	"github.com/tracera/tracera/internal/revstore"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const ledgerDDL = `
CREATE TABLE users (id INTEGER PRIMARY KEY);
CREATE TABLE revisions (
	id INTEGER PRIMARY KEY,
	committed_at TIMESTAMP NOT NULL,
	author_id INTEGER
);
CREATE TABLE user_history (
	row_id INTEGER PRIMARY KEY,
	user_id INTEGER NOT NULL,
	user_name TEXT NOT NULL,
	real_name TEXT NOT NULL,
	email TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	active BOOLEAN NOT NULL,
	revision_id INTEGER NOT NULL,
	UNIQUE (user_id, revision_id)
);
`

type LedgerSuite struct {
	suite.Suite

	store *revstore.Store
	clock *clock.FakeClock
	svc   domain.Service
}

func (s *LedgerSuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", s.T().Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(conn.Exec(ledgerDDL).Error)

	// Seed revision 1 and the bootstrap user the way startup does.
	s.Require().NoError(conn.Exec(
		`INSERT INTO revisions (id, committed_at, author_id) VALUES (1, ?, NULL)`,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	).Error)
	s.Require().NoError(conn.Exec(`INSERT INTO users (id) VALUES (1)`).Error)
	s.Require().NoError(conn.Exec(
		`INSERT INTO user_history (row_id, user_id, user_name, real_name, email, password_hash, active, revision_id)
		 VALUES (1, 1, 'admin', 'Administrator', 'admin@example.com', 'x', 1, 1)`,
	).Error)

	s.store = revstore.New(conn)
	s.clock = clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.svc = New(Params{
		Store: s.store,
		Log:   zap.NewNop(),
		Clock: s.clock,
		Repo:  repository.Provide(),
	})
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) TestBeginAllocatesGaplessIDs() {
	ctx := context.Background()

	for want := int64(2); want <= 4; want++ {
		var got int64
		err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
			var err error
			got, err = s.svc.Begin(ctx, tx, 1)
			return err
		})
		s.Require().NoError(err)
		s.Equal(want, got)
	}

	current, err := s.svc.Current(ctx)
	s.Require().NoError(err)
	s.EqualValues(4, current)
}

func (s *LedgerSuite) TestBeginRecordsAuthorAndTimestamp() {
	ctx := context.Background()

	var rev int64
	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		rev, err = s.svc.Begin(ctx, tx, 1)
		return err
	})
	s.Require().NoError(err)

	got, err := s.svc.GetByID(ctx, rev)
	s.Require().NoError(err)
	s.Require().NotNil(got.AuthorID)
	s.EqualValues(1, *got.AuthorID)
	s.True(got.CommittedAt.Equal(s.clock.Now()))
}

func (s *LedgerSuite) TestBeginRejectsUnknownActor() {
	ctx := context.Background()

	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.svc.Begin(ctx, tx, 42)
		return err
	})
	s.ErrorIs(err, revstore.ErrInvalidReference)

	// The failed transaction must not burn a revision id.
	current, err := s.svc.Current(ctx)
	s.Require().NoError(err)
	s.EqualValues(1, current)
}

func (s *LedgerSuite) TestFailedTransactionLeavesNoGap() {
	ctx := context.Background()

	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.svc.Begin(ctx, tx, 1); err != nil {
			return err
		}
		return revstore.ErrConflict
	})
	s.ErrorIs(err, revstore.ErrConflict)

	var rev int64
	err = s.store.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		rev, err = s.svc.Begin(ctx, tx, 1)
		return err
	})
	s.Require().NoError(err)
	s.EqualValues(2, rev)
}

func (s *LedgerSuite) TestInsertCollisionIsRetryable() {
	ctx := context.Background()
	repo := repository.Provide()

	err := s.store.WithTx(ctx, func(tx *gorm.DB) error {
		now := s.clock.Now()
		author := int64(1)
		return repo.Insert(ctx, tx, &domain.Revision{ID: 1, CommittedAt: now, AuthorID: &author})
	})
	s.ErrorIs(err, revstore.ErrRevisionCollision)
}

func (s *LedgerSuite) TestGetByIDUnknownRevision() {
	_, err := s.svc.GetByID(context.Background(), 99)
	s.ErrorIs(err, revstore.ErrNotFound)
}
