package handlers

import (
	"github.com/nafishahmed/blogspace/internal/auth"
	"github.com/nafishahmed/blogspace/internal/email"
	"github.com/nafishahmed/blogspace/internal/engagement"
	"github.com/nafishahmed/blogspace/internal/feed"
	"github.com/nafishahmed/blogspace/internal/hashtag"
	"github.com/nafishahmed/blogspace/internal/search"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	auth       *auth.Service
	feed       *feed.Service
	engagement *engagement.Service
	trending   *hashtag.Service
	email      *email.EmailService
	search     *search.Client
}

// NewHandlers creates a new handlers instance
func NewHandlers(authService *auth.Service, feedService *feed.Service, engagementService *engagement.Service, trendingService *hashtag.Service) *Handlers {
	return &Handlers{
		auth:       authService,
		feed:       feedService,
		engagement: engagementService,
		trending:   trendingService,
	}
}

// SetEmailService sets the SES email service. Without it, newsletter
// signups are recorded but no welcome mail goes out.
func (h *Handlers) SetEmailService(emailService *email.EmailService) {
	h.email = emailService
}

// SetSearchClient sets the Elasticsearch client. Without it, search
// endpoints fall back to SQL LIKE queries.
func (h *Handlers) SetSearchClient(searchClient *search.Client) {
	h.search = searchClient
}
