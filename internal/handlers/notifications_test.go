package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nafishahmed/blogspace/internal/database"
	"github.com/nafishahmed/blogspace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NotificationTestSuite covers the notification inbox endpoints
type NotificationTestSuite struct {
	suite.Suite
	db        *gorm.DB
	router    *gin.Engine
	handlers  *Handlers
	recipient *models.User
	sender    *models.User
}

func (suite *NotificationTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(suite.T(), err)

	// Hand-written DDL because AutoMigrate emits PostgreSQL-specific
	// column types that SQLite rejects.
	statements := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			username TEXT NOT NULL,
			display_name TEXT NOT NULL,
			bio TEXT,
			password_hash TEXT,
			profile_picture_url TEXT,
			is_admin INTEGER DEFAULT 0,
			follower_count INTEGER DEFAULT 0,
			following_count INTEGER DEFAULT 0,
			post_count INTEGER DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			recipient_id TEXT NOT NULL,
			sender_id TEXT NOT NULL,
			type TEXT NOT NULL,
			post_id TEXT,
			read INTEGER DEFAULT 0,
			created_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(suite.T(), db.Exec(stmt).Error)
	}

	database.DB = db
	suite.db = db
	suite.handlers = NewHandlers(nil, nil, nil, nil)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.setupRoutes()
}

func (suite *NotificationTestSuite) setupRoutes() {
	api := suite.router.Group("/api/v1")

	// Mock auth middleware that sets user_id from header
	authMiddleware := func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}

	notifications := api.Group("/notifications")
	notifications.Use(authMiddleware)
	notifications.GET("", suite.handlers.GetNotifications)
	notifications.POST("/:id/read", suite.handlers.MarkNotificationRead)
	notifications.POST("/read-all", suite.handlers.MarkAllNotificationsRead)
	notifications.DELETE("", suite.handlers.DeleteAllNotifications)
	notifications.DELETE("/:id", suite.handlers.DeleteNotification)
}

func (suite *NotificationTestSuite) SetupTest() {
	// other tests in this package swap the global DB
	database.DB = suite.db
	suite.db.Exec("DELETE FROM notifications")
	suite.db.Exec("DELETE FROM users")

	suite.recipient = &models.User{
		Email:       "recipient@example.com",
		Username:    "recipient",
		DisplayName: "Recipient",
	}
	require.NoError(suite.T(), suite.db.Create(suite.recipient).Error)

	suite.sender = &models.User{
		Email:       "sender@example.com",
		Username:    "sender",
		DisplayName: "Sender",
	}
	require.NoError(suite.T(), suite.db.Create(suite.sender).Error)
}

func (suite *NotificationTestSuite) createNotification(notificationType models.NotificationType, read bool) *models.Notification {
	n := &models.Notification{
		RecipientID: suite.recipient.ID,
		SenderID:    suite.sender.ID,
		Type:        notificationType,
		Read:        read,
	}
	require.NoError(suite.T(), suite.db.Create(n).Error)
	return n
}

func (suite *NotificationTestSuite) request(method, path, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *NotificationTestSuite) TestListNotificationsWithUnreadCount() {
	suite.createNotification(models.NotificationFollow, false)
	suite.createNotification(models.NotificationLike, false)
	suite.createNotification(models.NotificationComment, true)

	w := suite.request(http.MethodGet, "/api/v1/notifications", suite.recipient.ID)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var body struct {
		Notifications []models.Notification `json:"notifications"`
		Unread        int64                 `json:"unread"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(suite.T(), body.Notifications, 3)
	assert.Equal(suite.T(), int64(2), body.Unread)
}

func (suite *NotificationTestSuite) TestListOnlyOwnNotifications() {
	suite.createNotification(models.NotificationFollow, false)

	w := suite.request(http.MethodGet, "/api/v1/notifications", suite.sender.ID)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var body struct {
		Notifications []models.Notification `json:"notifications"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(suite.T(), body.Notifications)
}

func (suite *NotificationTestSuite) TestListRequiresAuth() {
	w := suite.request(http.MethodGet, "/api/v1/notifications", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *NotificationTestSuite) TestMarkNotificationRead() {
	n := suite.createNotification(models.NotificationLike, false)

	w := suite.request(http.MethodPost, fmt.Sprintf("/api/v1/notifications/%s/read", n.ID), suite.recipient.ID)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var reloaded models.Notification
	require.NoError(suite.T(), suite.db.First(&reloaded, "id = ?", n.ID).Error)
	assert.True(suite.T(), reloaded.Read)
}

func (suite *NotificationTestSuite) TestMarkReadOtherUsersNotification() {
	n := suite.createNotification(models.NotificationLike, false)

	w := suite.request(http.MethodPost, fmt.Sprintf("/api/v1/notifications/%s/read", n.ID), suite.sender.ID)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *NotificationTestSuite) TestMarkAllRead() {
	suite.createNotification(models.NotificationFollow, false)
	suite.createNotification(models.NotificationLike, false)

	w := suite.request(http.MethodPost, "/api/v1/notifications/read-all", suite.recipient.ID)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var unread int64
	suite.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", suite.recipient.ID, false).
		Count(&unread)
	assert.Zero(suite.T(), unread)
}

func (suite *NotificationTestSuite) TestDeleteNotification() {
	n := suite.createNotification(models.NotificationComment, false)

	w := suite.request(http.MethodDelete, "/api/v1/notifications/"+n.ID, suite.recipient.ID)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Notification{}).Where("id = ?", n.ID).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *NotificationTestSuite) TestDeleteOtherUsersNotification() {
	n := suite.createNotification(models.NotificationComment, false)

	w := suite.request(http.MethodDelete, "/api/v1/notifications/"+n.ID, suite.sender.ID)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *NotificationTestSuite) TestDeleteAllNotifications() {
	suite.createNotification(models.NotificationFollow, false)
	suite.createNotification(models.NotificationLike, true)

	// a notification belonging to the other user stays untouched
	other := &models.Notification{
		RecipientID: suite.sender.ID,
		SenderID:    suite.recipient.ID,
		Type:        models.NotificationFollow,
	}
	require.NoError(suite.T(), suite.db.Create(other).Error)

	w := suite.request(http.MethodDelete, "/api/v1/notifications", suite.recipient.ID)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var body struct {
		Deleted int64 `json:"deleted"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(suite.T(), int64(2), body.Deleted)

	var remaining int64
	suite.db.Model(&models.Notification{}).Count(&remaining)
	assert.Equal(suite.T(), int64(1), remaining)
}

func TestNotificationTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationTestSuite))
}
