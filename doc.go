// Package blogspace provides the BlogSpace API server.

// This package contains the main application entry point. The actual API
// documentation is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/models: Data models and database schemas
// - internal/auth: Authentication and authorization services
// - internal/feed: Timeline and per-author feed assembly
// - internal/engagement: Likes, saves, shares, comments, follows
// - internal/hashtag: Hashtag extraction and trending rankings
// - internal/database: Database connection and migrations
// - internal/cache: Redis client wrapper
// - internal/email: Newsletter email delivery via SES
// - internal/middleware: HTTP middleware (rate limiting, metrics, logging)
// - internal/metrics: Prometheus metrics
// - internal/seed: Development and test data seeding

package blogspace
