package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/logger"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/nafishahmed/blogspace/internal/search"
	"github.com/nafishahmed/blogspace/internal/util"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GetUser returns a user's public profile
// GET /api/v1/users/:id
func (h *Handlers) GetUser(c *gin.Context) {
	var user models.User
	err := database.DB.First(&user, "id = ?", c.Param("id")).Error
	if util.HandleDBError(c, err, "user") {
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListUsers returns all users, newest first
// GET /api/v1/users
func (h *Handlers) ListUsers(c *gin.Context) {
	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 20, 100)

	var total int64
	if err := database.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		util.RespondInternalError(c, "failed to count users")
		return
	}

	var users []models.User
	err := database.DB.
		Order("created_at DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		util.RespondInternalError(c, "failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"meta": gin.H{
			"limit":  limit,
			"offset": offset,
			"count":  len(users),
			"total":  total,
		},
	})
}

// UpdateProfileRequest is the payload for profile edits
type UpdateProfileRequest struct {
	DisplayName       string `json:"display_name"`
	Bio               string `json:"bio"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// UpdateProfile edits the current user's own profile fields
// PUT /api/v1/users/me
func (h *Handlers) UpdateProfile(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	h.applyProfileUpdate(user, req)

	if err := database.DB.Save(user).Error; err != nil {
		logger.ErrorWithFields("Failed to update profile", err)
		util.RespondInternalError(c, "failed to update profile")
		return
	}

	h.indexUser(c.Request.Context(), *user)

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser edits another user's profile fields. The target themselves or
// an admin may edit; anyone else is rejected.
// PUT /api/v1/users/:id
func (h *Handlers) UpdateUser(c *gin.Context) {
	caller, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	targetID := c.Param("id")
	if caller.ID != targetID && !caller.IsAdmin {
		util.RespondUnauthorized(c, "you can only update your own account")
		return
	}

	var target models.User
	err := database.DB.First(&target, "id = ?", targetID).Error
	if util.HandleDBError(c, err, "user") {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	h.applyProfileUpdate(&target, req)

	if err := database.DB.Save(&target).Error; err != nil {
		logger.ErrorWithFields("Failed to update user", err)
		util.RespondInternalError(c, "failed to update user")
		return
	}

	h.indexUser(c.Request.Context(), target)

	c.JSON(http.StatusOK, gin.H{"user": target})
}

func (h *Handlers) applyProfileUpdate(user *models.User, req UpdateProfileRequest) {
	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	user.Bio = req.Bio
	if req.ProfilePictureURL != "" {
		user.ProfilePictureURL = req.ProfilePictureURL
	}
}

// DeleteAccount removes the current user's account and everything tied to
// it: posts with their engagement, the user's own engagement on other posts
// (with counter adjustments), follows in both directions, and notifications.
// DELETE /api/v1/users/me
func (h *Handlers) DeleteAccount(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var postIDs []string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("user_id = ?", userID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}

		// Engagement left on the user's own posts goes with the posts.
		if len(postIDs) > 0 {
			for _, model := range []interface{}{
				&models.Comment{}, &models.PostLike{}, &models.PostShare{}, &models.SavedPost{},
			} {
				if err := tx.Where("post_id IN (?)", postIDs).Delete(model).Error; err != nil {
					return err
				}
			}
		}

		// Engagement the user left on other authors' posts, adjusting the
		// cached counters on those posts.
		if err := removeUserEngagement(tx, userID, "like_count", &models.PostLike{}); err != nil {
			return err
		}
		if err := removeUserEngagement(tx, userID, "comment_count", &models.Comment{}); err != nil {
			return err
		}
		if err := removeUserEngagement(tx, userID, "share_count", &models.PostShare{}); err != nil {
			return err
		}
		if err := removeUserEngagement(tx, userID, "save_count", &models.SavedPost{}); err != nil {
			return err
		}

		if err := removeUserFollows(tx, userID); err != nil {
			return err
		}

		if err := tx.Where("recipient_id = ? OR sender_id = ?", userID, userID).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
	if err != nil {
		logger.ErrorWithFields("Failed to delete account", err)
		util.RespondInternalError(c, "failed to delete account")
		return
	}

	if h.search != nil {
		ctx := c.Request.Context()
		if err := h.search.DeleteUser(ctx, userID); err != nil {
			logger.Warn("Failed to remove user from search index", zap.String("user_id", userID), zap.Error(err))
		}
		for _, postID := range postIDs {
			if err := h.search.DeletePost(ctx, postID); err != nil {
				logger.Warn("Failed to remove post from search index", zap.String("post_id", postID), zap.Error(err))
			}
		}
	}

	logger.InfoWithFields("Account deleted", logger.WithUserID(userID))

	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

// removeUserEngagement deletes a user's rows from one engagement table and
// decrements the matching cached counter on each affected post.
func removeUserEngagement(tx *gorm.DB, userID, counter string, model interface{}) error {
	var postIDs []string
	if err := tx.Model(model).Where("user_id = ?", userID).
		Pluck("post_id", &postIDs).Error; err != nil {
		return err
	}
	if len(postIDs) == 0 {
		return nil
	}

	expr := fmt.Sprintf("CASE WHEN %s > 0 THEN %s - 1 ELSE 0 END", counter, counter)
	for _, postID := range postIDs {
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn(counter, gorm.Expr(expr)).Error; err != nil {
			return err
		}
	}

	return tx.Where("user_id = ?", userID).Delete(model).Error
}

// removeUserFollows drops the user's follow edges in both directions and
// rebalances the counters on the users at the other end.
func removeUserFollows(tx *gorm.DB, userID string) error {
	var followeeIDs []string
	if err := tx.Model(&models.Follow{}).Where("follower_id = ?", userID).
		Pluck("followee_id", &followeeIDs).Error; err != nil {
		return err
	}
	for _, followeeID := range followeeIDs {
		if err := tx.Model(&models.User{}).Where("id = ?", followeeID).
			UpdateColumn("follower_count", gorm.Expr("CASE WHEN follower_count > 0 THEN follower_count - 1 ELSE 0 END")).Error; err != nil {
			return err
		}
	}

	var followerIDs []string
	if err := tx.Model(&models.Follow{}).Where("followee_id = ?", userID).
		Pluck("follower_id", &followerIDs).Error; err != nil {
		return err
	}
	for _, followerID := range followerIDs {
		if err := tx.Model(&models.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("CASE WHEN following_count > 0 THEN following_count - 1 ELSE 0 END")).Error; err != nil {
			return err
		}
	}

	return tx.Where("follower_id = ? OR followee_id = ?", userID, userID).
		Delete(&models.Follow{}).Error
}

// indexUser pushes a user profile into the search index. Best effort.
func (h *Handlers) indexUser(ctx context.Context, user models.User) {
	if h.search == nil {
		return
	}
	if err := h.search.IndexUser(ctx, user.ID, search.UserToSearchDoc(user)); err != nil {
		logger.Warn("Failed to index user for search", zap.String("user_id", user.ID), zap.Error(err))
	}
}

// SearchUsers finds users by username or display name. Backed by
// Elasticsearch when a cluster is configured; otherwise a SQL LIKE.
// GET /api/v1/search/users?q=
func (h *Handlers) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		util.RespondBadRequest(c, "query parameter 'q' is required")
		return
	}

	limit, offset := util.ParsePagination(c.Query("limit"), c.Query("offset"), 20, 50)

	if h.search != nil {
		result, err := h.search.SearchUsers(c.Request.Context(), query, limit, offset)
		if err != nil {
			logger.Warn("User search query failed, falling back to SQL", zap.Error(err))
		} else {
			summaries := make([]gin.H, len(result.Users))
			for i, hit := range result.Users {
				summaries[i] = gin.H{
					"id":           hit.ID,
					"username":     hit.Username,
					"display_name": hit.DisplayName,
				}
			}
			c.JSON(http.StatusOK, gin.H{
				"users": summaries,
				"meta": gin.H{
					"limit":  limit,
					"offset": offset,
					"count":  len(summaries),
					"total":  result.Total,
				},
			})
			return
		}
	}

	pattern := "%" + query + "%"
	var users []models.User
	err := database.DB.
		Where("username LIKE ? OR display_name LIKE ?", pattern, pattern).
		Order("follower_count DESC, username ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		util.RespondInternalError(c, "failed to search users")
		return
	}

	summaries := make([]gin.H, len(users))
	for i := range users {
		summaries[i] = formatUserSummary(&users[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"users": summaries,
		"meta": gin.H{
			"limit":  limit,
			"offset": offset,
			"count":  len(summaries),
		},
	})
}
