// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var validate = validator.New()

// User represents an account that owns tweets.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username" validate:"required,min=3,max=50"`
	Name      string    `gorm:"not null" json:"name" validate:"required,max=150"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email" validate:"required,email,max=200"`
	Password  string    `gorm:"not null" json:"-" validate:"required,min=5"`
	Role      string    `gorm:"type:varchar(20);not null;default:user" json:"role" validate:"oneof=user admin"`
	Tweets    []Tweet   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"tweets,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the struct tags of the user.
func (u *User) Validate() error {
	return validate.Struct(u)
}
