package domain

import (
	"time"

	"github.com/lib/pq"
)

// Item modes, fixed at creation.
const (
	ModeRepairRequest = "repair-request"
	ModeOfferFree     = "offer-free"
)

// Item lifecycle statuses.
const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusFixed      = "fixed"
	StatusTaken      = "taken"
)

// MaxItemImages bounds the image list per item.
const MaxItemImages = 5

type Item struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description *string        `db:"description" json:"description"`
	Category    *string        `db:"category" json:"category"`
	Condition   *string        `db:"condition" json:"condition"`
	Mode        string         `db:"mode" json:"mode"`
	Images      pq.StringArray `db:"images" json:"images"`
	OwnerID     string         `db:"owner_id" json:"ownerID"`
	Status      string         `db:"status" json:"status"`
	EcoScore    int            `db:"eco_score" json:"ecoScore"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`

	// Owner projection resolved by the repository at read time.
	OwnerName string  `db:"owner_name" json:"ownerName"`
	OwnerCity *string `db:"owner_city" json:"ownerCity"`
}

// statusTransitions holds the allowed forward transitions.
// fixed and taken are terminal.
var statusTransitions = map[string][]string{
	StatusOpen:       {StatusInProgress, StatusTaken},
	StatusInProgress: {StatusFixed, StatusTaken},
}

// CanTransition reports whether an item may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusFixed, StatusTaken:
		return true
	}
	return false
}
