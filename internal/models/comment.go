package models

import "time"

// Comment is a reply to a tweet. Comments are hard deleted.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	LikeCounter int       `gorm:"not null;default:0;check:like_counter >= 0" json:"likeCounter"`
	TweetID     uint      `gorm:"not null;index" json:"tweetId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DeletedComment is the response body of a successful comment delete.
type DeletedComment struct {
	CommentID uint      `json:"commentId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LikedComment is the response body of a successful comment like.
type LikedComment struct {
	CommentID   uint      `json:"commentId"`
	LikeCounter int       `json:"likeCounter"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
