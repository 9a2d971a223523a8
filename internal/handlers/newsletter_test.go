package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNewsletterRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE newsletter_subscribers (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			created_at DATETIME
		)
	`).Error
	require.NoError(t, err)

	database.DB = db

	h := NewHandlers(nil, nil, nil, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/newsletter/subscribe", h.SubscribeNewsletter)
	return router, db
}

func subscribe(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/newsletter/subscribe", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubscribeNewsletter(t *testing.T) {
	router, db := setupNewsletterRouter(t)

	w := subscribe(router, `{"email": "Reader@Example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var subscriber models.NewsletterSubscriber
	require.NoError(t, db.First(&subscriber).Error)
	assert.Equal(t, "reader@example.com", subscriber.Email, "email is normalized to lowercase")
}

func TestSubscribeNewsletterRepeatConflicts(t *testing.T) {
	router, _ := setupNewsletterRouter(t)

	w := subscribe(router, `{"email": "reader@example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// same address again, different casing
	w = subscribe(router, `{"email": "READER@example.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubscribeNewsletterInvalidEmail(t *testing.T) {
	router, _ := setupNewsletterRouter(t)

	w := subscribe(router, `{"email": "not-an-email"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSubscribeNewsletterMissingEmail(t *testing.T) {
	router, _ := setupNewsletterRouter(t)

	w := subscribe(router, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
