package models

import "time"

// Post is a dated publication. PubDate may be in the future (scheduled
// posting); such posts stay invisible to everyone but the author until the
// date passes. CategoryID and LocationID survive as NULL when the
// referenced row is removed.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	PubDate     time.Time `gorm:"index;not null" json:"pub_date"`
	AuthorID    uint      `gorm:"index;not null" json:"author_id"`
	LocationID  *uint     `gorm:"index" json:"location_id"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Image       string    `gorm:"size:512" json:"image"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author   User      `json:"author"`
	Location *Location `json:"location,omitempty"`
	Category *Category `json:"category,omitempty"`
	Comments []Comment `json:"-"`

	// CommentCount is filled by the comment-count subselect, never stored.
	CommentCount int64 `gorm:"->;-:migration" json:"comment_count"`
}
