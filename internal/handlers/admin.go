package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/nafishahmed/blogspace/internal/util"
)

// GetAdminStats returns platform-wide record counts for the admin dashboard
// GET /api/v1/admin/stats
func (h *Handlers) GetAdminStats(c *gin.Context) {
	stats := gin.H{}
	counts := []struct {
		name  string
		model interface{}
	}{
		{"users", &models.User{}},
		{"posts", &models.Post{}},
		{"comments", &models.Comment{}},
		{"follows", &models.Follow{}},
		{"likes", &models.PostLike{}},
		{"shares", &models.PostShare{}},
		{"saved_posts", &models.SavedPost{}},
		{"notifications", &models.Notification{}},
		{"newsletter_subscribers", &models.NewsletterSubscriber{}},
	}

	for _, entry := range counts {
		var n int64
		if err := database.DB.Model(entry.model).Count(&n).Error; err != nil {
			util.RespondInternalError(c, "failed to collect stats")
			return
		}
		stats[entry.name] = n
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
