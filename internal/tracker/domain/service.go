package domain

import (
	"context"
	"errors"

	"github.com/tracera/tracera/internal/revstore"
)

type CreateTrackerRequest struct {
	ActorID     int64
	ProjectID   int64
	ShortName   string
	Name        string
	Description string
}

type UpdateTrackerRequest struct {
	ActorID     int64
	ID          int64
	ShortName   string
	Name        string
	Description string
	Active      bool
}

type GetTrackerRequest struct {
	ID   int64
	AsOf *int64
}

type FindTrackerRequest struct {
	Attribute string
	Value     string
	// ProjectID scopes the search to one project; zero searches all.
	ProjectID int64
	Selection revstore.Selection
	AsOf      *int64
}

type ListTrackerIDsRequest struct {
	// ProjectID scopes the listing to one project; zero lists all.
	ProjectID int64
	Selection revstore.Selection
	AsOf      *int64
}

type Service interface {
	Create(context.Context, CreateTrackerRequest) (Snapshot, error)
	GetByID(context.Context, GetTrackerRequest) (Snapshot, error)
	GetByUniqueAttribute(context.Context, FindTrackerRequest) (Snapshot, error)
	ListByAttribute(context.Context, FindTrackerRequest) ([]Snapshot, error)
	ListIDs(context.Context, ListTrackerIDsRequest) ([]int64, error)
	Update(context.Context, UpdateTrackerRequest) (Snapshot, error)
	Activate(ctx context.Context, actorID, id int64) (Snapshot, error)
	Deactivate(ctx context.Context, actorID, id int64) (Snapshot, error)
}

var (
	ErrInvalidShortName = errors.New("invalid_short_name")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidProject   = errors.New("invalid_project")
)
