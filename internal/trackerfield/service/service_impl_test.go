package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"github.com/tracera/tracera/internal/clock"
	revisionrepo "github.com/tracera/tracera/internal/revision/repository"
	revisionservice "github.com/tracera/tracera/internal/revision/service"
	"github.com/tracera/tracera/internal/revstore"
	"github.com/tracera/tracera/internal/trackerfield/domain"
	"github.com/tracera/tracera/internal/trackerfield/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const fieldDDL = `
CREATE TABLE users (id INTEGER PRIMARY KEY);
CREATE TABLE trackers (id INTEGER PRIMARY KEY);
CREATE TABLE tracker_fields (id INTEGER PRIMARY KEY);
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
CREATE TABLE tracker_history (
	row_id INTEGER PRIMARY KEY,
	tracker_id INTEGER NOT NULL,
	project_id INTEGER NOT NULL,
	short_name TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	active BOOLEAN NOT NULL,
	revision_id INTEGER NOT NULL,
	UNIQUE (tracker_id, revision_id)
);
CREATE TABLE tracker_field_history (
	row_id INTEGER PRIMARY KEY,
	field_id INTEGER NOT NULL,
	tracker_id INTEGER NOT NULL,
	short_name TEXT NOT NULL,
	label TEXT NOT NULL,
	field_type TEXT NOT NULL,
	settings TEXT,
	active BOOLEAN NOT NULL,
	revision_id INTEGER NOT NULL,
	UNIQUE (field_id, revision_id)
);
`

const adminID = int64(1)

type TrackerFieldServiceSuite struct {
	suite.Suite

	store *revstore.Store
	svc   domain.Service

	trackerID int64
}

func (s *TrackerFieldServiceSuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", s.T().Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(conn.Exec(fieldDDL).Error)

	s.Require().NoError(conn.Exec(
		`INSERT INTO revisions (id, committed_at, author_id) VALUES (1, ?, NULL)`,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	).Error)
	s.Require().NoError(conn.Exec(`INSERT INTO users (id) VALUES (1)`).Error)
	s.Require().NoError(conn.Exec(
		`INSERT INTO user_history (row_id, user_id, user_name, real_name, email, password_hash, active, revision_id)
		 VALUES (1, 1, 'admin', 'Administrator', 'admin@example.com', 'x', 1, 1)`,
	).Error)

	// One tracker to hang fields off, written at revision 2.
	s.Require().NoError(conn.Exec(
		`INSERT INTO revisions (id, committed_at, author_id) VALUES (2, ?, 1)`,
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	).Error)
	s.Require().NoError(conn.Exec(`INSERT INTO trackers (id) VALUES (1)`).Error)
	s.Require().NoError(conn.Exec(
		`INSERT INTO tracker_history (row_id, tracker_id, project_id, short_name, name, description, active, revision_id)
		 VALUES (2, 1, 1, 'bug', 'Bugs', '', 1, 2)`,
	).Error)
	s.trackerID = 1

	node, err := snowflake.NewNode(1)
	s.Require().NoError(err)

	s.store = revstore.New(conn)
	ledger := revisionservice.New(revisionservice.Params{
		Store: s.store,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  revisionrepo.Provide(),
	})
	s.svc = New(Params{
		Store:  s.store,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   repository.Provide(),
		Ledger: ledger,
	})
}

func TestTrackerFieldServiceSuite(t *testing.T) {
	suite.Run(t, new(TrackerFieldServiceSuite))
}

func (s *TrackerFieldServiceSuite) create(shortName string, fieldType domain.FieldType, active bool) domain.Snapshot {
	snap, err := s.svc.Create(context.Background(), domain.CreateTrackerFieldRequest{
		ActorID:   adminID,
		TrackerID: s.trackerID,
		ShortName: shortName,
		Label:     "Field " + shortName,
		FieldType: fieldType,
		Active:    active,
	})
	s.Require().NoError(err)
	return snap
}

func (s *TrackerFieldServiceSuite) TestCreateWithSettings() {
	snap, err := s.svc.Create(context.Background(), domain.CreateTrackerFieldRequest{
		ActorID:   adminID,
		TrackerID: s.trackerID,
		ShortName: "severity",
		Label:     "Severity",
		FieldType: domain.FieldTypeString,
		Settings:  datatypes.JSONMap{"values": []any{"low", "high"}},
		Active:    true,
	})
	s.Require().NoError(err)
	s.EqualValues(3, snap.RevisionID)

	got, err := s.svc.GetByID(context.Background(), domain.GetTrackerFieldRequest{ID: snap.FieldID})
	s.Require().NoError(err)
	s.Equal(domain.FieldTypeString, got.FieldType)
	s.Contains(got.Settings, "values")
}

func (s *TrackerFieldServiceSuite) TestCreateValidation() {
	ctx := context.Background()

	_, err := s.svc.Create(ctx, domain.CreateTrackerFieldRequest{
		ActorID:   adminID,
		TrackerID: s.trackerID,
		ShortName: "x",
		Label:     "X",
		FieldType: "timestamp",
	})
	s.ErrorIs(err, domain.ErrInvalidFieldType)

	_, err = s.svc.Create(ctx, domain.CreateTrackerFieldRequest{
		ActorID:   adminID,
		TrackerID: 99,
		ShortName: "x",
		Label:     "X",
		FieldType: domain.FieldTypeInt,
	})
	s.ErrorIs(err, revstore.ErrInvalidReference)
}

func (s *TrackerFieldServiceSuite) TestFieldsMayStartInactive() {
	ctx := context.Background()
	staged := s.create("staged", domain.FieldTypeText, false)
	live := s.create("live", domain.FieldTypeInt, true)

	ids, err := s.svc.ListIDs(ctx, domain.ListTrackerFieldIDsRequest{TrackerID: s.trackerID})
	s.Require().NoError(err)
	s.Equal([]int64{live.FieldID}, ids)

	ids, err = s.svc.ListIDs(ctx, domain.ListTrackerFieldIDsRequest{
		TrackerID: s.trackerID,
		Selection: revstore.SelectionInactive,
	})
	s.Require().NoError(err)
	s.Equal([]int64{staged.FieldID}, ids)

	activated, err := s.svc.Activate(ctx, adminID, staged.FieldID)
	s.Require().NoError(err)
	s.True(activated.Active)
}

func (s *TrackerFieldServiceSuite) TestShortNameUniquePerTracker() {
	s.create("severity", domain.FieldTypeString, true)

	_, err := s.svc.Create(context.Background(), domain.CreateTrackerFieldRequest{
		ActorID:   adminID,
		TrackerID: s.trackerID,
		ShortName: "severity",
		Label:     "Another Severity",
		FieldType: domain.FieldTypeString,
		Active:    true,
	})
	s.ErrorIs(err, revstore.ErrConflict)
}

func (s *TrackerFieldServiceSuite) TestUpdateRetypesField() {
	ctx := context.Background()
	created := s.create("estimate", domain.FieldTypeInt, true)

	updated, err := s.svc.Update(ctx, domain.UpdateTrackerFieldRequest{
		ActorID:   adminID,
		ID:        created.FieldID,
		ShortName: "estimate",
		Label:     "Estimate (days)",
		FieldType: domain.FieldTypeFloat,
		Active:    true,
	})
	s.Require().NoError(err)
	s.Equal(domain.FieldTypeFloat, updated.FieldType)
	s.Equal(created.TrackerID, updated.TrackerID)

	// The integer incarnation is still on record.
	asOf := created.RevisionID
	then, err := s.svc.GetByID(ctx, domain.GetTrackerFieldRequest{ID: created.FieldID, AsOf: &asOf})
	s.Require().NoError(err)
	s.Equal(domain.FieldTypeInt, then.FieldType)
}
