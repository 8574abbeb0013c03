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
	projectdomain "github.com/tracera/tracera/internal/project/domain"
	projectrepo "github.com/tracera/tracera/internal/project/repository"
	projectservice "github.com/tracera/tracera/internal/project/service"
	revisionrepo "github.com/tracera/tracera/internal/revision/repository"
	revisionservice "github.com/tracera/tracera/internal/revision/service"
	"github.com/tracera/tracera/internal/revstore"
	"github.com/tracera/tracera/internal/tracker/domain"
	"github.com/tracera/tracera/internal/tracker/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const trackerDDL = `
CREATE TABLE users (id INTEGER PRIMARY KEY);
CREATE TABLE projects (id INTEGER PRIMARY KEY);
CREATE TABLE trackers (id INTEGER PRIMARY KEY);
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
CREATE TABLE project_history (
	row_id INTEGER PRIMARY KEY,
	project_id INTEGER NOT NULL,
	short_name TEXT NOT NULL,
	full_name TEXT NOT NULL,
	description TEXT NOT NULL,
	active BOOLEAN NOT NULL,
	revision_id INTEGER NOT NULL,
	UNIQUE (project_id, revision_id)
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
`

const adminID = int64(1)

type TrackerServiceSuite struct {
	suite.Suite

	store    *revstore.Store
	projects projectdomain.Service
	svc      domain.Service

	alpha projectdomain.Snapshot
	beta  projectdomain.Snapshot
}

func (s *TrackerServiceSuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", s.T().Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(conn.Exec(trackerDDL).Error)

	s.Require().NoError(conn.Exec(
		`INSERT INTO revisions (id, committed_at, author_id) VALUES (1, ?, NULL)`,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	).Error)
	s.Require().NoError(conn.Exec(`INSERT INTO users (id) VALUES (1)`).Error)
	s.Require().NoError(conn.Exec(
		`INSERT INTO user_history (row_id, user_id, user_name, real_name, email, password_hash, active, revision_id)
		 VALUES (1, 1, 'admin', 'Administrator', 'admin@example.com', 'x', 1, 1)`,
	).Error)

	node, err := snowflake.NewNode(1)
	s.Require().NoError(err)

	s.store = revstore.New(conn)
	ledger := revisionservice.New(revisionservice.Params{
		Store: s.store,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  revisionrepo.Provide(),
	})
	s.projects = projectservice.New(projectservice.Params{
		Store:  s.store,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   projectrepo.Provide(),
		Ledger: ledger,
	})
	s.svc = New(Params{
		Store:  s.store,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   repository.Provide(),
		Ledger: ledger,
	})

	ctx := context.Background()
	s.alpha, err = s.projects.Create(ctx, projectdomain.CreateProjectRequest{ActorID: adminID, ShortName: "alpha", FullName: "Alpha"})
	s.Require().NoError(err)
	s.beta, err = s.projects.Create(ctx, projectdomain.CreateProjectRequest{ActorID: adminID, ShortName: "beta", FullName: "Beta"})
	s.Require().NoError(err)
}

func TestTrackerServiceSuite(t *testing.T) {
	suite.Run(t, new(TrackerServiceSuite))
}

func (s *TrackerServiceSuite) create(projectID int64, shortName string) domain.Snapshot {
	snap, err := s.svc.Create(context.Background(), domain.CreateTrackerRequest{
		ActorID:   adminID,
		ProjectID: projectID,
		ShortName: shortName,
		Name:      "Tracker " + shortName,
	})
	s.Require().NoError(err)
	return snap
}

func (s *TrackerServiceSuite) TestCreateRequiresExistingProject() {
	_, err := s.svc.Create(context.Background(), domain.CreateTrackerRequest{
		ActorID:   adminID,
		ProjectID: 99,
		ShortName: "bug",
		Name:      "Bugs",
	})
	s.ErrorIs(err, revstore.ErrInvalidReference)
}

func (s *TrackerServiceSuite) TestShortNameUniquePerProject() {
	ctx := context.Background()
	s.create(s.alpha.ProjectID, "bug")

	// The same short name in a different project is fine.
	other := s.create(s.beta.ProjectID, "bug")
	s.Equal(s.beta.ProjectID, other.ProjectID)

	_, err := s.svc.Create(ctx, domain.CreateTrackerRequest{
		ActorID:   adminID,
		ProjectID: s.alpha.ProjectID,
		ShortName: "bug",
		Name:      "More Bugs",
	})
	s.ErrorIs(err, revstore.ErrConflict)
}

func (s *TrackerServiceSuite) TestUpdateKeepsProject() {
	ctx := context.Background()
	created := s.create(s.alpha.ProjectID, "bug")

	updated, err := s.svc.Update(ctx, domain.UpdateTrackerRequest{
		ActorID:   adminID,
		ID:        created.TrackerID,
		ShortName: "defect",
		Name:      "Defects",
		Active:    true,
	})
	s.Require().NoError(err)
	s.Equal(s.alpha.ProjectID, updated.ProjectID)
	s.Equal("defect", updated.ShortName)
}

func (s *TrackerServiceSuite) TestListIDsScopedToProject() {
	ctx := context.Background()
	bug := s.create(s.alpha.ProjectID, "bug")
	task := s.create(s.alpha.ProjectID, "task")
	s.create(s.beta.ProjectID, "bug")

	ids, err := s.svc.ListIDs(ctx, domain.ListTrackerIDsRequest{ProjectID: s.alpha.ProjectID})
	s.Require().NoError(err)
	s.Equal([]int64{bug.TrackerID, task.TrackerID}, ids)

	ids, err = s.svc.ListIDs(ctx, domain.ListTrackerIDsRequest{})
	s.Require().NoError(err)
	s.Len(ids, 3)
}

func (s *TrackerServiceSuite) TestFindScopedByProject() {
	ctx := context.Background()
	s.create(s.alpha.ProjectID, "bug")
	s.create(s.beta.ProjectID, "bug")

	found, err := s.svc.GetByUniqueAttribute(ctx, domain.FindTrackerRequest{
		Attribute: "short_name",
		Value:     "bug",
		ProjectID: s.beta.ProjectID,
	})
	s.Require().NoError(err)
	s.Equal(s.beta.ProjectID, found.ProjectID)

	// Unscoped, the same name matches in both projects.
	_, err = s.svc.GetByUniqueAttribute(ctx, domain.FindTrackerRequest{
		Attribute: "short_name",
		Value:     "bug",
	})
	s.ErrorIs(err, revstore.ErrAmbiguousMatch)
}
