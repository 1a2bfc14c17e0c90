package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/config"
	"github.com/blogicum/blogicum/models"
	"github.com/blogicum/blogicum/utils"
)

// CategoryController serves the category pages. Categories themselves are
// admin-managed and rarely change; only reads are exposed here.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

// ListCategories returns all published categories.
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	var categories []models.Category
	if err := c.db.Where("is_published = ?", true).Order("title ASC").Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list categories")
		return
	}
	utils.Success(ctx, gin.H{"items": categories})
}

// CategoryPosts returns the paginated visible posts of one category. An
// unpublished category 404s outright, whether or not it has visible posts.
func (c *CategoryController) CategoryPosts(ctx *gin.Context) {
	var category models.Category
	err := c.db.Where("slug = ? AND is_published = ?", ctx.Param("slug"), true).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40407, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load category")
		return
	}

	page := utils.ParsePage(ctx.Query("page"))
	pageSize := config.Get().PageSize

	var posts []models.Post
	q := c.db.Model(&models.Post{}).
		Where("posts.category_id = ?", category.ID).
		Preload("Author").
		Preload("Category").
		Preload("Location")
	q = models.Visible(time.Now())(models.WithCommentCount(models.Ordered(q)))
	pagination, err := utils.Paginate(q, page, pageSize, &posts)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to list category posts")
		return
	}

	utils.Success(ctx, gin.H{
		"category":   category,
		"items":      posts,
		"pagination": pagination,
	})
}
