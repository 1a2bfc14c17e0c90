package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/middleware"
	"github.com/blogicum/blogicum/models"
	"github.com/blogicum/blogicum/utils"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// viewerID returns the authenticated user's ID, or 0 for anonymous viewers.
func viewerID(ctx *gin.Context) uint {
	id, _ := getUserID(ctx)
	return id
}

func currentUsername(ctx *gin.Context) string {
	value, _ := ctx.Get(middleware.ContextUsernameKey)
	name, _ := value.(string)
	return name
}

// ownerUsername resolves a user's current username for redirect targets.
// The claim inside the token goes stale after a profile rename, so the
// database wins; the token value is only a fallback.
func ownerUsername(db *gorm.DB, userID uint, fallback string) string {
	var name string
	err := db.Model(&models.User{}).Where("id = ?", userID).Pluck("username", &name).Error
	if err != nil || name == "" {
		return fallback
	}
	return name
}

// requireOwner gates a mutation to the resource's author. Writes a 403 and
// returns false for anyone else.
func requireOwner(ctx *gin.Context, code int, actorID, ownerID uint) bool {
	if actorID == ownerID {
		return true
	}
	utils.Error(ctx, http.StatusForbidden, code, "you do not own this resource")
	return false
}
