package app

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"fixcycle/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// fakeRepository is an in-memory Repository used by handler tests.
type fakeRepository struct {
	users    map[string]domain.User
	items    map[string]domain.Item
	comments []domain.Comment
	now      time.Time
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users: make(map[string]domain.User),
		items: make(map[string]domain.Item),
		now:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so ordering assertions are
// deterministic.
func (r *fakeRepository) tick() time.Time {
	r.now = r.now.Add(time.Second)
	return r.now
}

func (r *fakeRepository) Close() error { return nil }

func (r *fakeRepository) CreateUser(_ context.Context, req *RegisterRequest, passwordHash string) (domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, req.Email) {
			return domain.User{}, ErrDuplicateEmail
		}
	}

	now := r.tick()
	u := domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		UserType:     req.UserType,
		City:         req.City,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeRepository) GetUser(_ context.Context, id string) (domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (r *fakeRepository) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, sql.ErrNoRows
}

func (r *fakeRepository) projectOwner(item domain.Item) domain.Item {
	if owner, ok := r.users[item.OwnerID]; ok {
		item.OwnerName = owner.Name
		item.OwnerCity = owner.City
	}
	return item
}

func (r *fakeRepository) CreateItem(_ context.Context, req *CreateItemRequest) (domain.Item, error) {
	now := r.tick()
	item := domain.Item{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		Mode:        req.Mode,
		Images:      pq.StringArray(req.Images),
		OwnerID:     req.OwnerID,
		Status:      domain.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.items[item.ID] = item
	return r.projectOwner(item), nil
}

func (r *fakeRepository) GetItem(_ context.Context, id string) (domain.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return domain.Item{}, sql.ErrNoRows
	}
	return r.projectOwner(item), nil
}

func (r *fakeRepository) ListItems(_ context.Context, filter ItemFilter) ([]domain.Item, error) {
	matched := make([]domain.Item, 0)
	for _, item := range r.items {
		item = r.projectOwner(item)

		if filter.Category != nil && (item.Category == nil || *item.Category != *filter.Category) {
			continue
		}
		if filter.Mode != nil && item.Mode != *filter.Mode {
			continue
		}
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		if filter.City != nil && (item.OwnerCity == nil || *item.OwnerCity != *filter.City) {
			continue
		}
		matched = append(matched, item)
	}

	// Most recent first.
	for i := 0; i < len(matched); i++ {
		for j := i + 1; j < len(matched); j++ {
			if matched[j].CreatedAt.After(matched[i].CreatedAt) {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}
	}
	return matched, nil
}

func (r *fakeRepository) UpdateItem(_ context.Context, item domain.Item, prevStatus string) (domain.Item, error) {
	stored, ok := r.items[item.ID]
	if !ok {
		return domain.Item{}, sql.ErrNoRows
	}
	if stored.Status != prevStatus {
		return domain.Item{}, ErrStaleStatus
	}

	stored.Title = item.Title
	stored.Description = item.Description
	stored.Category = item.Category
	stored.Condition = item.Condition
	stored.Images = item.Images
	stored.Status = item.Status
	stored.UpdatedAt = r.tick()
	r.items[item.ID] = stored
	return r.projectOwner(stored), nil
}

func (r *fakeRepository) AppendItemImage(_ context.Context, itemID, imageURL string) (domain.Item, error) {
	stored, ok := r.items[itemID]
	if !ok {
		return domain.Item{}, sql.ErrNoRows
	}
	if len(stored.Images) >= domain.MaxItemImages {
		return domain.Item{}, ErrImageLimit
	}

	stored.Images = append(stored.Images, imageURL)
	stored.UpdatedAt = r.tick()
	r.items[itemID] = stored
	return r.projectOwner(stored), nil
}

func (r *fakeRepository) CreateComment(_ context.Context, itemID, authorID, text string) (domain.Comment, error) {
	c := domain.Comment{
		ID:        uuid.New().String(),
		ItemID:    itemID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: r.tick(),
	}
	if author, ok := r.users[authorID]; ok {
		c.AuthorName = author.Name
	}
	r.comments = append(r.comments, c)
	return c, nil
}

func (r *fakeRepository) GetItemComments(_ context.Context, itemID string) ([]domain.Comment, error) {
	out := make([]domain.Comment, 0)
	for _, c := range r.comments {
		if c.ItemID == itemID {
			out = append(out, c)
		}
	}
	return out, nil
}
