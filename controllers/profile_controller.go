package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/config"
	"github.com/blogicum/blogicum/models"
	"github.com/blogicum/blogicum/utils"
)

// ProfileController serves user pages and profile mutations.
type ProfileController struct {
	db *gorm.DB
}

// NewProfileController creates a new ProfileController instance.
func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{db: db}
}

func (p *ProfileController) findByUsername(ctx *gin.Context) (*models.User, bool) {
	var user models.User
	err := p.db.Where("username = ?", ctx.Param("username")).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40408, "user not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load user")
		}
		return nil, false
	}
	return &user, true
}

// GetProfile returns a user page with their paginated posts. The owner
// sees every post they wrote, unpublished and future-dated included;
// other viewers get only the publicly visible subset.
func (p *ProfileController) GetProfile(ctx *gin.Context) {
	user, ok := p.findByUsername(ctx)
	if !ok {
		return
	}

	q := p.db.Model(&models.Post{}).
		Preload("Author").
		Preload("Category").
		Preload("Location")
	q = models.WithCommentCount(models.Ordered(q))
	if viewerID(ctx) == user.ID {
		q = q.Where("posts.author_id = ?", user.ID)
	} else {
		q = models.OwnVisible(user.ID, time.Now())(q)
	}

	page := utils.ParsePage(ctx.Query("page"))
	var posts []models.Post
	pagination, err := utils.Paginate(q, page, config.Get().PageSize, &posts)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to list profile posts")
		return
	}

	utils.Success(ctx, gin.H{
		"profile":    user,
		"items":      posts,
		"pagination": pagination,
	})
}

// UpdateProfile lets a user edit their own identity fields.
func (p *ProfileController) UpdateProfile(ctx *gin.Context) {
	user, ok := p.findByUsername(ctx)
	if !ok {
		return
	}

	userID, authed := getUserID(ctx)
	if !authed {
		utils.Error(ctx, http.StatusUnauthorized, 40118, "unauthorized")
		return
	}
	if !requireOwner(ctx, 40305, userID, user.ID) {
		return
	}

	var req struct {
		Username  string `json:"username" binding:"omitempty,min=3,max=150"`
		Email     string `json:"email" binding:"omitempty,email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40060, err)
		return
	}

	if name := strings.TrimSpace(req.Username); name != "" && name != user.Username {
		if !usernameRe.MatchString(name) {
			utils.Respond(ctx, http.StatusBadRequest, 40061, "validation failed",
				gin.H{"fields": gin.H{"username": "letters, digits and @.+-_ only"}})
			return
		}
		var existing models.User
		if err := p.db.Where("username = ?", name).First(&existing).Error; err == nil {
			utils.Error(ctx, http.StatusConflict, 40902, "username already exists")
			return
		}
		user.Username = name
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		user.Email = v
	}
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)

	if err := p.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40902, "username already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to update profile")
		return
	}

	utils.Success(ctx, gin.H{
		"user":     user,
		"redirect": fmt.Sprintf("/profile/%s/", user.Username),
	})
}

// DeleteProfile removes the account and everything it owns: the user's
// posts, the comments on those posts, and their comments elsewhere.
func (p *ProfileController) DeleteProfile(ctx *gin.Context) {
	user, ok := p.findByUsername(ctx)
	if !ok {
		return
	}

	userID, authed := getUserID(ctx)
	if !authed {
		utils.Error(ctx, http.StatusUnauthorized, 40119, "unauthorized")
		return
	}
	if !requireOwner(ctx, 40306, userID, user.ID) {
		return
	}

	if err := models.DeleteUser(p.db, user.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to delete account")
		return
	}

	utils.Success(ctx, gin.H{"message": "account deleted", "redirect": "/"})
}
