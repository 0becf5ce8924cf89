package events

import "time"

// Domain constants
const (
	ItemDomain   = "item"
	ItemExchange = "fixcycle.item"
	UserExchange = "fixcycle.user"
)

// Event names
const (
	UserRegisteredEvent     = "user.registered"
	ItemCreatedEvent        = "item.created"
	ItemUpdatedEvent        = "item.updated"
	ItemStatusChangedEvent  = "item.status.changed"
	ItemCommentCreatedEvent = "item.comment.created"
	ItemImageUploadedEvent  = "item.image.uploaded"
)

// Event versions
const (
	EventVersionV1 = "v1"
)

type UserRegisteredPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserType  string    `json:"userType"`
	City      *string   `json:"city"`
	CreatedAt time.Time `json:"createdAt"`
}

type ItemCreatedPayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  *string   `json:"category"`
	Mode      string    `json:"mode"`
	OwnerID   string    `json:"ownerId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type ItemUpdatedPayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  *string   `json:"category"`
	Condition *string   `json:"condition"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ItemStatusChangedPayload struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"ownerId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ChangedAt  time.Time `json:"changedAt"`
}

type ItemCommentCreatedPayload struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type ItemImageUploadedPayload struct {
	ItemID    string    `json:"itemId"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
