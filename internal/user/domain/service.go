package domain

import (
	"context"
	"errors"

	"github.com/tracera/tracera/internal/revstore"
)

type CreateUserRequest struct {
	ActorID  int64
	UserName string
	RealName string
	Email    string
	Password string
}

type UpdateUserRequest struct {
	ActorID  int64
	ID       int64
	UserName string
	RealName string
	Email    string
	// Password is optional; empty keeps the current hash.
	Password string
	Active   bool
}

type GetUserRequest struct {
	ID int64
	// AsOf reads the snapshot at that revision; nil means current.
	AsOf *int64
}

type FindUserRequest struct {
	Attribute string
	Value     string
	Selection revstore.Selection
	AsOf      *int64
}

type ListUserIDsRequest struct {
	Selection revstore.Selection
	AsOf      *int64
}

type Service interface {
	Create(context.Context, CreateUserRequest) (Snapshot, error)
	GetByID(context.Context, GetUserRequest) (Snapshot, error)
	// GetByUniqueAttribute requires exactly one active match; multiple active
	// matches are a data-integrity violation reported as ambiguous.
	GetByUniqueAttribute(context.Context, FindUserRequest) (Snapshot, error)
	ListByAttribute(context.Context, FindUserRequest) ([]Snapshot, error)
	ListIDs(context.Context, ListUserIDsRequest) ([]int64, error)
	Update(context.Context, UpdateUserRequest) (Snapshot, error)
	Activate(ctx context.Context, actorID, id int64) (Snapshot, error)
	Deactivate(ctx context.Context, actorID, id int64) (Snapshot, error)
}

var (
	ErrInvalidUserName = errors.New("invalid_user_name")
	ErrInvalidRealName = errors.New("invalid_real_name")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidPassword = errors.New("invalid_password")
)
