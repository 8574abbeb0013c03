package domain

import (
	"context"
	"errors"

	"github.com/tracera/tracera/internal/revstore"
)

type CreateArtifactRequest struct {
	ActorID     int64
	TrackerID   int64
	Summary     string
	Description string
}

type UpdateArtifactRequest struct {
	ActorID     int64
	ID          int64
	Summary     string
	Description string
	Active      bool
}

type GetArtifactRequest struct {
	ID   int64
	AsOf *int64
}

type FindArtifactRequest struct {
	Attribute string
	Value     string
	TrackerID int64
	Selection revstore.Selection
	AsOf      *int64
}

type ListArtifactIDsRequest struct {
	TrackerID int64
	Selection revstore.Selection
	AsOf      *int64
}

type Service interface {
	Create(context.Context, CreateArtifactRequest) (Snapshot, error)
	GetByID(context.Context, GetArtifactRequest) (Snapshot, error)
	ListByAttribute(context.Context, FindArtifactRequest) ([]Snapshot, error)
	ListIDs(context.Context, ListArtifactIDsRequest) ([]int64, error)
	Update(context.Context, UpdateArtifactRequest) (Snapshot, error)
	Activate(ctx context.Context, actorID, id int64) (Snapshot, error)
	Deactivate(ctx context.Context, actorID, id int64) (Snapshot, error)
}

var (
	ErrInvalidSummary = errors.New("invalid_summary")
	ErrInvalidTracker = errors.New("invalid_tracker")
)
