package model

import "time"

// UserPostModel is the User→Posts back-reference set. Rows are maintained
// explicitly when posts are created and deleted; posts.creator_id stays the
// source of truth for authorship.
type UserPostModel struct {
	UserID    string    `gorm:"type:uuid;primaryKey"`
	PostID    string    `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

func (UserPostModel) TableName() string {
	return "user_posts"
}
