package models

import (
	"time"

	"gorm.io/gorm"
)

// Visible restricts a posts query to publicly visible rows: the post is
// published, its publication date has passed, and its category (when set)
// is published too. The category check is an EXISTS subquery so the posts
// select list stays untouched. Author bypass is decided by the handlers,
// not here.
func Visible(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("posts.is_published = ?", true).
			Where("posts.pub_date <= ?", now).
			Where("posts.category_id IS NULL OR EXISTS (SELECT 1 FROM categories WHERE categories.id = posts.category_id AND categories.is_published = ?)", true)
	}
}

// OwnVisible is the profile-page variant for a non-owner viewer.
func OwnVisible(authorID uint, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return Visible(now)(db).Where("posts.author_id = ?", authorID)
	}
}

// Ordered applies the canonical post ordering: newest publication first,
// title as tie-breaker.
func Ordered(db *gorm.DB) *gorm.DB {
	return db.Order("posts.pub_date DESC").Order("posts.title ASC")
}

// WithCommentCount selects posts together with their live comment count.
func WithCommentCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count")
}
