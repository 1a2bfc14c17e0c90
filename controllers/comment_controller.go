package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/models"
	"github.com/blogicum/blogicum/utils"
)

// CommentController manages comments under posts.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateComment adds a comment to the post named by the path. The parent
// post and the author both come from the request context, never from the
// payload, and the post must be visible to the caller.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req commentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40040, err)
		return
	}

	text := utils.Sanitize(req.Text)
	if text == "" {
		utils.Respond(ctx, http.StatusBadRequest, 40041, "validation failed",
			gin.H{"fields": gin.H{"text": "cannot be empty"}})
		return
	}

	var post models.Post
	if err := c.db.Preload("Category").First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40404, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40115, "unauthorized")
		return
	}

	if userID != post.AuthorID && !visibleNow(&post, time.Now()) {
		utils.Error(ctx, http.StatusNotFound, 40404, "post not found")
		return
	}

	comment := models.Comment{
		Text:     text,
		PostID:   post.ID,
		AuthorID: userID,
	}

	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to create comment")
		return
	}

	if err := c.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load comment")
		return
	}

	utils.Success(ctx, gin.H{
		"comment":  comment,
		"redirect": fmt.Sprintf("/posts/%d/", post.ID),
	})
}

// UpdateComment lets the comment's author edit its text.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	var req commentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40042, err)
		return
	}

	text := utils.Sanitize(req.Text)
	if text == "" {
		utils.Respond(ctx, http.StatusBadRequest, 40043, "validation failed",
			gin.H{"fields": gin.H{"text": "cannot be empty"}})
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40405, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load comment")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40116, "unauthorized")
		return
	}
	if !requireOwner(ctx, 40303, userID, comment.AuthorID) {
		return
	}

	comment.Text = text
	if err := c.db.Save(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to update comment")
		return
	}

	utils.Success(ctx, gin.H{
		"comment":  comment,
		"redirect": fmt.Sprintf("/posts/%d/", comment.PostID),
	})
}

// DeleteComment lets the comment's author remove it.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	var comment models.Comment
	if err := c.db.First(&comment, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40406, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to load comment")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40117, "unauthorized")
		return
	}
	if !requireOwner(ctx, 40304, userID, comment.AuthorID) {
		return
	}

	if err := c.db.Delete(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to delete comment")
		return
	}

	utils.Success(ctx, gin.H{
		"message":  "comment deleted",
		"redirect": fmt.Sprintf("/posts/%d/", comment.PostID),
	})
}
