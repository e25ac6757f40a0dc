package entity

import "time"

type Post struct {
	ID        string    `json:"id"`
	CreatorID string    `json:"creator_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageKey  string    `json:"image_key,omitempty"`
	Creator   *Creator  `json:"creator,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Creator is the denormalized slice of the owning user attached to post
// reads and broadcast events.
type Creator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
