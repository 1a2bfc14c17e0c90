package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gorm.io/gorm"
)

func TestUserRelationsResolve(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	author := User{Username: "alice"}
	mustCreate(t, db, &author)
	post := Post{Title: "p", PubDate: now.Add(-time.Hour), AuthorID: author.ID, IsPublished: true}
	mustCreate(t, db, &post)
	mustCreate(t, db, &Comment{Text: "hi", PostID: post.ID, AuthorID: author.ID})

	var loaded User
	if err := db.Preload("Posts").Preload("Comments").First(&loaded, author.ID).Error; err != nil {
		t.Fatalf("load user with relations: %v", err)
	}
	if got := len(loaded.Posts); got != 1 {
		t.Errorf("preloaded posts = %d, want 1", got)
	}
	if got := len(loaded.Comments); got != 1 {
		t.Errorf("preloaded comments = %d, want 1", got)
	}
}

// Unpublished rows must be stored as written; a create with the flag set
// to false may not silently surface as published.
func TestUnpublishedFlagPersists(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	author := User{Username: "alice"}
	mustCreate(t, db, &author)

	cat := Category{Title: "Drafts", Slug: "drafts", IsPublished: false}
	mustCreate(t, db, &cat)
	loc := Location{Name: "Nowhere", IsPublished: false}
	mustCreate(t, db, &loc)
	post := Post{Title: "draft", PubDate: now.Add(-time.Hour), AuthorID: author.ID, IsPublished: false}
	mustCreate(t, db, &post)

	var gotCat Category
	if err := db.First(&gotCat, cat.ID).Error; err != nil {
		t.Fatalf("load category: %v", err)
	}
	var gotLoc Location
	if err := db.First(&gotLoc, loc.ID).Error; err != nil {
		t.Fatalf("load location: %v", err)
	}
	var gotPost Post
	if err := db.First(&gotPost, post.ID).Error; err != nil {
		t.Fatalf("load post: %v", err)
	}

	got := []bool{gotCat.IsPublished, gotLoc.IsPublished, gotPost.IsPublished}
	if diff := cmp.Diff([]bool{false, false, false}, got); diff != "" {
		t.Errorf("is_published flags mismatch (-want +got):\n%s", diff)
	}

	if titles := postTitles(t, db.Model(&Post{}).Scopes(Visible(now))); len(titles) != 0 {
		t.Errorf("draft leaked into visible set: %v", titles)
	}
}

func TestDuplicateUsernameTranslated(t *testing.T) {
	db := newTestDB(t)

	mustCreate(t, db, &User{Username: "alice"})
	err := db.Create(&User{Username: "alice"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate username error = %v, want gorm.ErrDuplicatedKey", err)
	}
}
