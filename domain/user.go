package domain

import "time"

// User types.
const (
	UserTypeRegular  = "regular"
	UserTypeRepairer = "repairer"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	UserType     string    `db:"user_type" json:"userType"`
	City         *string   `db:"city" json:"city"`
	EcoPoints    int       `db:"eco_points" json:"ecoPoints"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// ValidUserType reports whether t is a known account type.
func ValidUserType(t string) bool {
	return t == UserTypeRegular || t == UserTypeRepairer
}
