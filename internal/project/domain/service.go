package domain

import (
	"context"
	"errors"

	"github.com/tracera/tracera/internal/revstore"
)

type CreateProjectRequest struct {
	ActorID     int64
	ShortName   string
	FullName    string
	Description string
}

type UpdateProjectRequest struct {
	ActorID     int64
	ID          int64
	ShortName   string
	FullName    string
	Description string
	Active      bool
}

type GetProjectRequest struct {
	ID   int64
	AsOf *int64
}

type FindProjectRequest struct {
	Attribute string
	Value     string
	Selection revstore.Selection
	AsOf      *int64
}

type ListProjectIDsRequest struct {
	Selection revstore.Selection
	AsOf      *int64
}

type Service interface {
	Create(context.Context, CreateProjectRequest) (Snapshot, error)
	GetByID(context.Context, GetProjectRequest) (Snapshot, error)
	GetByUniqueAttribute(context.Context, FindProjectRequest) (Snapshot, error)
	ListByAttribute(context.Context, FindProjectRequest) ([]Snapshot, error)
	ListIDs(context.Context, ListProjectIDsRequest) ([]int64, error)
	Update(context.Context, UpdateProjectRequest) (Snapshot, error)
	Activate(ctx context.Context, actorID, id int64) (Snapshot, error)
	Deactivate(ctx context.Context, actorID, id int64) (Snapshot, error)
}

var (
	ErrInvalidShortName = errors.New("invalid_short_name")
	ErrInvalidFullName  = errors.New("invalid_full_name")
)
