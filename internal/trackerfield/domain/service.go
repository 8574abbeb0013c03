package domain

import (
	"context"
	"errors"

	"github.com/tracera/tracera/internal/revstore"
	"gorm.io/datatypes"
)

type CreateTrackerFieldRequest struct {
	ActorID   int64
	TrackerID int64
	ShortName string
	Label     string
	FieldType FieldType
	Settings  datatypes.JSONMap
	// Active lets a field be created disabled, e.g. staged configuration.
	Active bool
}

type UpdateTrackerFieldRequest struct {
	ActorID   int64
	ID        int64
	ShortName string
	Label     string
	FieldType FieldType
	Settings  datatypes.JSONMap
	Active    bool
}

type GetTrackerFieldRequest struct {
	ID   int64
	AsOf *int64
}

type FindTrackerFieldRequest struct {
	Attribute string
	Value     string
	// TrackerID scopes the search to one tracker; zero searches all.
	TrackerID int64
	Selection revstore.Selection
	AsOf      *int64
}

type ListTrackerFieldIDsRequest struct {
	TrackerID int64
	Selection revstore.Selection
	AsOf      *int64
}

type Service interface {
	Create(context.Context, CreateTrackerFieldRequest) (Snapshot, error)
	GetByID(context.Context, GetTrackerFieldRequest) (Snapshot, error)
	GetByUniqueAttribute(context.Context, FindTrackerFieldRequest) (Snapshot, error)
	ListByAttribute(context.Context, FindTrackerFieldRequest) ([]Snapshot, error)
	ListIDs(context.Context, ListTrackerFieldIDsRequest) ([]int64, error)
	Update(context.Context, UpdateTrackerFieldRequest) (Snapshot, error)
	Activate(ctx context.Context, actorID, id int64) (Snapshot, error)
	Deactivate(ctx context.Context, actorID, id int64) (Snapshot, error)
}

var (
	ErrInvalidShortName = errors.New("invalid_short_name")
	ErrInvalidLabel     = errors.New("invalid_label")
	ErrInvalidFieldType = errors.New("invalid_field_type")
	ErrInvalidTracker   = errors.New("invalid_tracker")
)
