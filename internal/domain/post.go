package domain

import "time"

type Post struct {
	ID        int64    `json:"id"`
	ClubID    int64    `json:"club_id"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags,omitempty"`
	Content   string   `json:"content"`
	Images    []string `json:"images,omitempty"`
	LikeCount int32    `json:"like_count"`

	IsActive  bool       `json:"is_active"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// IsLiked is populated per requesting user on decorated reads.
	IsLiked bool `json:"is_liked,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostLike struct {
	PostID  int64     `json:"post_id"`
	UserID  int64     `json:"user_id"`
	LikedAt time.Time `json:"liked_at"`
}
