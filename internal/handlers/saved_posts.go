package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/logger"
	"github.com/nafishahmed/blogspace/internal/metrics"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/nafishahmed/blogspace/internal/util"
)

// ToggleSave bookmarks a post for the current user, or removes the bookmark
// POST /api/v1/posts/:id/save
func (h *Handlers) ToggleSave(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	result, err := h.engagement.ToggleSave(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	direction := "off"
	if result.Saved {
		direction = "on"
	}
	metrics.RecordEngagement("save", direction)

	c.JSON(http.StatusOK, result)
}

// GetSavedPosts returns the current user's saved posts, most recently
// saved first
// GET /api/v1/users/me/saved
func (h *Handlers) GetSavedPosts(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 20, 50)

	var savedPosts []models.SavedPost
	err := database.DB.
		Preload("Post").
		Preload("Post.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&savedPosts).Error
	if err != nil {
		util.RespondInternalError(c, "failed to get saved posts")
		return
	}

	var totalCount int64
	if err := database.DB.Model(&models.SavedPost{}).Where("user_id = ?", userID).Count(&totalCount).Error; err != nil {
		logger.Warn("Failed to count saved posts", logger.WithUserID(userID))
		totalCount = int64(len(savedPosts))
	}

	posts := make([]gin.H, len(savedPosts))
	for i, sp := range savedPosts {
		posts[i] = gin.H{
			"post":     sp.Post,
			"saved_at": sp.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       posts,
		"total_count": totalCount,
		"limit":       limit,
		"offset":      offset,
		"has_more":    offset+len(posts) < int(totalCount),
	})
}

// IsPostSaved checks if the current user has saved a specific post
// GET /api/v1/posts/:id/saved
func (h *Handlers) IsPostSaved(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var savedPost models.SavedPost
	err := database.DB.Where("user_id = ? AND post_id = ?", userID, c.Param("id")).First(&savedPost).Error

	c.JSON(http.StatusOK, gin.H{
		"saved": err == nil,
	})
}
