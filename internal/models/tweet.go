package models

import "time"

// Tweet is a short post owned by a user. Comments reference it by TweetID.
type Tweet struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Text        string    `gorm:"type:text;not null" json:"text" validate:"required,max=280"`
	LikeCounter int       `gorm:"not null;default:0;check:like_counter >= 0" json:"likeCounter" validate:"gte=0"`
	UserID      uint      `gorm:"not null;index" json:"userId" validate:"required"`
	Comments    []Comment `gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks the struct tags of the tweet.
func (t *Tweet) Validate() error {
	return validate.Struct(t)
}
