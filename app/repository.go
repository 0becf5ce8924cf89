package app

import (
	"context"
	"errors"

	"fixcycle/domain"
)

// Sentinel errors surfaced by Repository implementations so handlers can map
// them onto the HTTP error taxonomy.
var (
	// ErrDuplicateEmail is returned when a registration collides with an
	// existing account (email match is case-insensitive).
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrStaleStatus is returned when a guarded item update finds the status
	// moved between read and write. The transition is revalidated at
	// persistence time, never silently overwritten.
	ErrStaleStatus = errors.New("item status changed concurrently")

	// ErrImageLimit is returned when appending an image would exceed the
	// per-item bound.
	ErrImageLimit = errors.New("item image limit reached")
)

// ItemFilter narrows a listing. Nil fields impose no constraint; all supplied
// fields are conjunctive. City matches the owner's city, resolved through the
// read-side join.
type ItemFilter struct {
	Category *string
	Mode     *string
	Status   *string
	City     *string
}

type Repository interface {
	Close() error

	CreateUser(ctx context.Context, req *RegisterRequest, passwordHash string) (domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	CreateItem(ctx context.Context, req *CreateItemRequest) (domain.Item, error)
	GetItem(ctx context.Context, id string) (domain.Item, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item, prevStatus string) (domain.Item, error)
	AppendItemImage(ctx context.Context, itemID, imageURL string) (domain.Item, error)

	CreateComment(ctx context.Context, itemID, authorID, text string) (domain.Comment, error)
	GetItemComments(ctx context.Context, itemID string) ([]domain.Comment, error)
}
