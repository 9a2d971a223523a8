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

// ToggleLike likes or unlikes a post for the current user
// POST /api/v1/posts/:id/like
func (h *Handlers) ToggleLike(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	result, err := h.engagement.ToggleLike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	direction := "off"
	if result.Liked {
		direction = "on"
	}
	metrics.RecordEngagement("like", direction)

	c.JSON(http.StatusOK, result)
}

// ToggleShare re-shares or un-shares a post into the user's timeline
// POST /api/v1/posts/:id/share
func (h *Handlers) ToggleShare(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	result, err := h.engagement.ToggleShare(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	direction := "off"
	if result.Shared {
		direction = "on"
	}
	metrics.RecordEngagement("share", direction)

	c.JSON(http.StatusOK, result)
}

// FollowUser makes the current user follow the target user
// POST /api/v1/users/:id/follow
func (h *Handlers) FollowUser(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	targetID := c.Param("id")
	if err := h.engagement.Follow(c.Request.Context(), userID, targetID); err != nil {
		respondServiceError(c, err)
		return
	}

	metrics.RecordEngagement("follow", "on")
	logger.InfoWithFields("User followed",
		logger.WithUserID(userID),
	)

	c.JSON(http.StatusOK, gin.H{"following": true})
}

// UnfollowUser removes the current user's follow of the target user
// DELETE /api/v1/users/:id/follow
func (h *Handlers) UnfollowUser(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	targetID := c.Param("id")
	if err := h.engagement.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		respondServiceError(c, err)
		return
	}

	metrics.RecordEngagement("follow", "off")
	c.JSON(http.StatusOK, gin.H{"following": false})
}

// GetFollowers lists the users following the target user
// GET /api/v1/users/:id/followers
func (h *Handlers) GetFollowers(c *gin.Context) {
	targetID := c.Param("id")

	var user models.User
	err := database.DB.First(&user, "id = ?", targetID).Error
	if util.HandleDBError(c, err, "user") {
		return
	}

	var follows []models.Follow
	err = database.DB.
		Preload("Follower").
		Where("followee_id = ?", targetID).
		Order("created_at DESC").
		Find(&follows).Error
	if err != nil {
		util.RespondInternalError(c, "failed to get followers")
		return
	}

	users := make([]gin.H, len(follows))
	for i, follow := range follows {
		users[i] = formatUserSummary(&follow.Follower)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GetFollowing lists the users the target user follows
// GET /api/v1/users/:id/following
func (h *Handlers) GetFollowing(c *gin.Context) {
	targetID := c.Param("id")

	var user models.User
	err := database.DB.First(&user, "id = ?", targetID).Error
	if util.HandleDBError(c, err, "user") {
		return
	}

	var follows []models.Follow
	err = database.DB.
		Preload("Followee").
		Where("follower_id = ?", targetID).
		Order("created_at DESC").
		Find(&follows).Error
	if err != nil {
		util.RespondInternalError(c, "failed to get following")
		return
	}

	users := make([]gin.H, len(follows))
	for i, follow := range follows {
		users[i] = formatUserSummary(&follow.Followee)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}
