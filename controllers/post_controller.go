package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/config"
	"github.com/blogicum/blogicum/models"
	"github.com/blogicum/blogicum/utils"
)

// PostController manages the post listing and CRUD endpoints.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// postRequest is the shared payload for create and edit. PubDate accepts
// RFC 3339; a future date schedules the post.
type postRequest struct {
	Title       string    `json:"title" binding:"required,max=256"`
	Text        string    `json:"text" binding:"required"`
	PubDate     time.Time `json:"pub_date" binding:"required"`
	LocationID  *uint     `json:"location_id"`
	CategoryID  *uint     `json:"category_id"`
	Image       string    `json:"image"`
	IsPublished *bool     `json:"is_published"`
}

// listBase shapes a posts query the way every listing needs it: comment
// counts, canonical ordering, related rows preloaded. Scopes are applied
// up front, not via Scopes(), so Paginate's count can swap the select
// clause without the scope re-adding it.
func (p *PostController) listBase() *gorm.DB {
	q := p.db.Model(&models.Post{}).
		Preload("Author").
		Preload("Category").
		Preload("Location")
	return models.WithCommentCount(models.Ordered(q))
}

// Index returns the paginated home listing of publicly visible posts.
func (p *PostController) Index(ctx *gin.Context) {
	page := utils.ParsePage(ctx.Query("page"))
	pageSize := config.Get().PageSize

	var posts []models.Post
	q := models.Visible(time.Now())(p.listBase())
	pagination, err := utils.Paginate(q, page, pageSize, &posts)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list posts")
		return
	}

	utils.Success(ctx, gin.H{"items": posts, "pagination": pagination})
}

// GetPost returns a single post with its comments. The author sees the
// post unconditionally, including unpublished and future-dated ones;
// everyone else gets 404 when the visibility predicate fails, so hidden
// posts are indistinguishable from absent ones.
func (p *PostController) GetPost(ctx *gin.Context) {
	var post models.Post
	err := models.WithCommentCount(p.db).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		First(&post, "posts.id = ?", ctx.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load post")
		return
	}

	if viewerID(ctx) != post.AuthorID && !visibleNow(&post, time.Now()) {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	var comments []models.Comment
	if err := p.db.Where("post_id = ?", post.ID).Order("created_at ASC").Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load comments")
		return
	}
	p.attachCommentAuthors(comments)

	utils.Success(ctx, gin.H{"post": post, "comments": comments})
}

// visibleNow is the single-row form of the listing predicate.
func visibleNow(post *models.Post, now time.Time) bool {
	if !post.IsPublished || post.PubDate.After(now) {
		return false
	}
	return post.CategoryID == nil || (post.Category != nil && post.Category.IsPublished)
}

// attachCommentAuthors batch-loads authors for a comment set.
func (p *PostController) attachCommentAuthors(comments []models.Comment) {
	if len(comments) == 0 {
		return
	}
	var ids []uint
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	ids = utils.UniqueUint(ids)

	var users []models.User
	if err := p.db.Find(&users, ids).Error; err != nil {
		utils.Sugar.Warnf("failed to load comment authors: %v", err)
		return
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range comments {
		if u, ok := byID[comments[i].AuthorID]; ok {
			comments[i].Author = u
		}
	}
}

// CreatePost creates a post owned by the caller. The author is always the
// authenticated user; any author value in the payload is ignored.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40020, err)
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Respond(ctx, http.StatusBadRequest, 40021, "validation failed",
			gin.H{"fields": gin.H{"title": "cannot be empty"}})
		return
	}

	if !p.checkRefs(ctx, req.CategoryID, req.LocationID) {
		return
	}

	post := models.Post{
		Title:       title,
		Text:        utils.Sanitize(req.Text),
		PubDate:     req.PubDate,
		AuthorID:    userID,
		LocationID:  req.LocationID,
		CategoryID:  req.CategoryID,
		Image:       strings.TrimSpace(req.Image),
		IsPublished: true,
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to create post")
		return
	}

	utils.Success(ctx, gin.H{
		"post":     post,
		"redirect": fmt.Sprintf("/profile/%s/", ownerUsername(p.db, userID, currentUsername(ctx))),
	})
}

// UpdatePost lets the author edit their post.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40022, err)
		return
	}

	var post models.Post
	if err := p.db.First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	if !requireOwner(ctx, 40301, userID, post.AuthorID) {
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Respond(ctx, http.StatusBadRequest, 40023, "validation failed",
			gin.H{"fields": gin.H{"title": "cannot be empty"}})
		return
	}

	if !p.checkRefs(ctx, req.CategoryID, req.LocationID) {
		return
	}

	post.Title = title
	post.Text = utils.Sanitize(req.Text)
	post.PubDate = req.PubDate
	post.LocationID = req.LocationID
	post.CategoryID = req.CategoryID
	post.Image = strings.TrimSpace(req.Image)
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	if err := p.db.Save(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to update post")
		return
	}

	utils.Success(ctx, gin.H{
		"post":     post,
		"redirect": fmt.Sprintf("/posts/%d/", post.ID),
	})
}

// DeletePost lets the author delete their post; its comments go with it.
func (p *PostController) DeletePost(ctx *gin.Context) {
	var post models.Post
	if err := p.db.First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}
	if !requireOwner(ctx, 40302, userID, post.AuthorID) {
		return
	}

	if err := models.DeletePost(p.db, post.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to delete post")
		return
	}

	utils.Success(ctx, gin.H{
		"message":  "post deleted",
		"redirect": fmt.Sprintf("/profile/%s/", ownerUsername(p.db, userID, currentUsername(ctx))),
	})
}

// checkRefs verifies that an assigned category or location exists and is
// published; unpublished ones cannot be attached to a post.
func (p *PostController) checkRefs(ctx *gin.Context, categoryID, locationID *uint) bool {
	if categoryID != nil {
		var category models.Category
		if err := p.db.Where("id = ? AND is_published = ?", *categoryID, true).First(&category).Error; err != nil {
			utils.Respond(ctx, http.StatusBadRequest, 40024, "validation failed",
				gin.H{"fields": gin.H{"category_id": "unknown or unpublished category"}})
			return false
		}
	}
	if locationID != nil {
		var location models.Location
		if err := p.db.Where("id = ? AND is_published = ?", *locationID, true).First(&location).Error; err != nil {
			utils.Respond(ctx, http.StatusBadRequest, 40025, "validation failed",
				gin.H{"fields": gin.H{"location_id": "unknown or unpublished location"}})
			return false
		}
	}
	return true
}

// UploadImage stores an image blob and returns its public URL. The blob is
// opaque to the server; no processing happens beyond a size cap.
func (p *PostController) UploadImage(ctx *gin.Context) {
	if _, ok := getUserID(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
		return
	}
	defer file.Close()

	cfg := config.Get()
	maxSize := int64(cfg.MaxUploadMB) << 20
	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40031, fmt.Sprintf("file size exceeds %dMB", cfg.MaxUploadMB))
		return
	}

	now := time.Now()
	baseDir := filepath.Join(cfg.UploadDir, now.Format("2006"), now.Format("01"))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create upload directory")
		return
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	dstPath := filepath.Join(baseDir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to save file")
		return
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(file, maxSize+1))
	if err != nil || written > maxSize {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusBadRequest, 40031, fmt.Sprintf("file size exceeds %dMB", cfg.MaxUploadMB))
		return
	}

	utils.Success(ctx, gin.H{
		"url": fmt.Sprintf("/static/uploads/%s/%s/%s", now.Format("2006"), now.Format("01"), name),
	})
}
