package models

import (
	"testing"
	"time"
)

func TestDeletePostCascadesComments(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	author := User{Username: "alice"}
	mustCreate(t, db, &author)
	post := Post{Title: "p", PubDate: now, AuthorID: author.ID, IsPublished: true}
	keep := Post{Title: "q", PubDate: now, AuthorID: author.ID, IsPublished: true}
	mustCreate(t, db, &post)
	mustCreate(t, db, &keep)
	mustCreate(t, db, &Comment{Text: "a", PostID: post.ID, AuthorID: author.ID})
	mustCreate(t, db, &Comment{Text: "b", PostID: post.ID, AuthorID: author.ID})
	mustCreate(t, db, &Comment{Text: "c", PostID: keep.ID, AuthorID: author.ID})

	if err := DeletePost(db, post.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}

	var comments int64
	if err := db.Model(&Comment{}).Where("post_id = ?", post.ID).Count(&comments).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if comments != 0 {
		t.Errorf("comments left after post delete: %d", comments)
	}
	if err := db.Model(&Comment{}).Where("post_id = ?", keep.ID).Count(&comments).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if comments != 1 {
		t.Errorf("unrelated comments lost, have %d want 1", comments)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	alice := User{Username: "alice"}
	bob := User{Username: "bob"}
	mustCreate(t, db, &alice)
	mustCreate(t, db, &bob)

	alicePost := Post{Title: "a", PubDate: now, AuthorID: alice.ID, IsPublished: true}
	bobPost := Post{Title: "b", PubDate: now, AuthorID: bob.ID, IsPublished: true}
	mustCreate(t, db, &alicePost)
	mustCreate(t, db, &bobPost)

	// bob comments on alice's post, alice comments on bob's
	mustCreate(t, db, &Comment{Text: "x", PostID: alicePost.ID, AuthorID: bob.ID})
	mustCreate(t, db, &Comment{Text: "y", PostID: bobPost.ID, AuthorID: alice.ID})

	if err := DeleteUser(db, alice.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	var n int64
	db.Model(&User{}).Where("id = ?", alice.ID).Count(&n)
	if n != 0 {
		t.Errorf("user still present")
	}
	db.Model(&Post{}).Where("author_id = ?", alice.ID).Count(&n)
	if n != 0 {
		t.Errorf("posts of deleted user still present")
	}
	// comments on alice's posts are gone, as are alice's own comments
	db.Model(&Comment{}).Where("post_id = ?", alicePost.ID).Count(&n)
	if n != 0 {
		t.Errorf("comments on deleted user's post still present")
	}
	db.Model(&Comment{}).Where("author_id = ?", alice.ID).Count(&n)
	if n != 0 {
		t.Errorf("comments by deleted user still present")
	}
	// bob's post survives
	db.Model(&Post{}).Where("id = ?", bobPost.ID).Count(&n)
	if n != 1 {
		t.Errorf("unrelated post lost")
	}
}

func TestDeleteCategoryNullsPosts(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	author := User{Username: "alice"}
	mustCreate(t, db, &author)
	cat := Category{Title: "Go", Slug: "go", IsPublished: true}
	mustCreate(t, db, &cat)
	post := Post{Title: "p", PubDate: now, AuthorID: author.ID, IsPublished: true, CategoryID: &cat.ID}
	mustCreate(t, db, &post)

	if err := DeleteCategory(db, cat.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	var got Post
	if err := db.First(&got, post.ID).Error; err != nil {
		t.Fatalf("post should survive category deletion: %v", err)
	}
	if got.CategoryID != nil {
		t.Errorf("category reference not nulled: %v", *got.CategoryID)
	}
}

func TestDeleteLocationNullsPosts(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	author := User{Username: "alice"}
	mustCreate(t, db, &author)
	loc := Location{Name: "Riga", IsPublished: true}
	mustCreate(t, db, &loc)
	post := Post{Title: "p", PubDate: now, AuthorID: author.ID, IsPublished: true, LocationID: &loc.ID}
	mustCreate(t, db, &post)

	if err := DeleteLocation(db, loc.ID); err != nil {
		t.Fatalf("delete location: %v", err)
	}

	var got Post
	if err := db.First(&got, post.ID).Error; err != nil {
		t.Fatalf("post should survive location deletion: %v", err)
	}
	if got.LocationID != nil {
		t.Errorf("location reference not nulled: %v", *got.LocationID)
	}
}
