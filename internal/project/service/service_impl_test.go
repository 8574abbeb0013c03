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
	"github.com/tracera/tracera/internal/project/domain"
	"github.com/tracera/tracera/internal/project/repository"
	revisionrepo "github.com/tracera/tracera/internal/revision/repository"
	revisionservice "github.com/tracera/tracera/internal/revision/service"
	"github.com/tracera/tracera/internal/revstore"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const projectDDL = `
CREATE TABLE users (id INTEGER PRIMARY KEY);
CREATE TABLE projects (id INTEGER PRIMARY KEY);
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
`

const adminID = int64(1)

type ProjectServiceSuite struct {
	suite.Suite

	store *revstore.Store
	svc   domain.Service
}

func (s *ProjectServiceSuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", s.T().Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(conn.Exec(projectDDL).Error)

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
	s.svc = New(Params{
		Store:  s.store,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   repository.Provide(),
		Ledger: ledger,
	})
}

func TestProjectServiceSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceSuite))
}

func (s *ProjectServiceSuite) create(shortName string) domain.Snapshot {
	snap, err := s.svc.Create(context.Background(), domain.CreateProjectRequest{
		ActorID:   adminID,
		ShortName: shortName,
		FullName:  "Project " + shortName,
	})
	s.Require().NoError(err)
	return snap
}

func (s *ProjectServiceSuite) TestCreateAndReadAsOf() {
	ctx := context.Background()
	created := s.create("alpha")
	s.EqualValues(1, created.ProjectID)
	s.EqualValues(2, created.RevisionID)

	updated, err := s.svc.Update(ctx, domain.UpdateProjectRequest{
		ActorID:   adminID,
		ID:        created.ProjectID,
		ShortName: "alpha",
		FullName:  "Project Alpha, renamed",
		Active:    true,
	})
	s.Require().NoError(err)
	s.EqualValues(3, updated.RevisionID)

	asOf := int64(2)
	then, err := s.svc.GetByID(ctx, domain.GetProjectRequest{ID: created.ProjectID, AsOf: &asOf})
	s.Require().NoError(err)
	s.Equal("Project alpha", then.FullName)

	before := int64(1)
	_, err = s.svc.GetByID(ctx, domain.GetProjectRequest{ID: created.ProjectID, AsOf: &before})
	s.ErrorIs(err, revstore.ErrNotFound)
}

func (s *ProjectServiceSuite) TestShortNameUniqueAmongActive() {
	ctx := context.Background()
	created := s.create("alpha")

	_, err := s.svc.Create(ctx, domain.CreateProjectRequest{
		ActorID:   adminID,
		ShortName: "ALPHA",
		FullName:  "Shouting Alpha",
	})
	s.ErrorIs(err, revstore.ErrConflict)

	_, err = s.svc.Deactivate(ctx, adminID, created.ProjectID)
	s.Require().NoError(err)

	revived := s.create("alpha")
	s.NotEqual(created.ProjectID, revived.ProjectID)
}

func (s *ProjectServiceSuite) TestUpdateCannotTakeAnotherShortName() {
	ctx := context.Background()
	s.create("alpha")
	beta := s.create("beta")

	_, err := s.svc.Update(ctx, domain.UpdateProjectRequest{
		ActorID:   adminID,
		ID:        beta.ProjectID,
		ShortName: "alpha",
		FullName:  "Beta in disguise",
		Active:    true,
	})
	s.ErrorIs(err, revstore.ErrConflict)

	// Keeping its own short name is not a conflict with itself.
	_, err = s.svc.Update(ctx, domain.UpdateProjectRequest{
		ActorID:   adminID,
		ID:        beta.ProjectID,
		ShortName: "beta",
		FullName:  "Still Beta",
		Active:    true,
	})
	s.NoError(err)
}

func (s *ProjectServiceSuite) TestValidation() {
	ctx := context.Background()

	_, err := s.svc.Create(ctx, domain.CreateProjectRequest{ActorID: adminID, FullName: "No Short Name"})
	s.ErrorIs(err, domain.ErrInvalidShortName)

	_, err = s.svc.Create(ctx, domain.CreateProjectRequest{ActorID: adminID, ShortName: "x"})
	s.ErrorIs(err, domain.ErrInvalidFullName)
}
