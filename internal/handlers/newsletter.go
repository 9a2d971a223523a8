package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/logger"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/nafishahmed/blogspace/internal/util"
	"gorm.io/gorm"
)

// NewsletterSubscribeRequest is the newsletter signup payload
type NewsletterSubscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

// SubscribeNewsletter records a newsletter subscription and sends the
// welcome email when SES is configured. Repeat signups conflict.
// POST /api/v1/newsletter/subscribe
func (h *Handlers) SubscribeNewsletter(c *gin.Context) {
	var req NewsletterSubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !util.IsValidEmail(email) {
		util.RespondValidationError(c, "email", "invalid email address")
		return
	}

	var existing models.NewsletterSubscriber
	err := database.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		util.RespondConflict(c, "this email is already subscribed")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		util.RespondInternalError(c, "failed to check subscription")
		return
	}

	subscriber := models.NewsletterSubscriber{Email: email}
	if err := database.DB.Create(&subscriber).Error; err != nil {
		logger.ErrorWithFields("Failed to create newsletter subscriber", err)
		util.RespondInternalError(c, "failed to subscribe")
		return
	}

	// Welcome mail is best-effort; the subscription already stands
	if h.email != nil {
		go func(to string) {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := h.email.SendNewsletterWelcome(ctx, to); err != nil {
				logger.ErrorWithFields("Failed to send welcome email", err)
			}
		}(email)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "subscribed"})
}
