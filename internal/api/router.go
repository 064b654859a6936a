package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sumodev/careboard/internal/models"
	"github.com/sumodev/careboard/internal/stats"
	"github.com/sumodev/careboard/internal/tweets"
	"github.com/sumodev/careboard/pkg/logging"
)

// ThreadFetcher reconstructs reply threads from storage.
type ThreadFetcher interface {
	FetchThread(ctx context.Context, limit int, maxID int64, replyTo *int64) ([]*tweets.ThreadNode, error)
}

// ReplySubmitter validates, posts and persists outbound replies.
type ReplySubmitter interface {
	SubmitReply(ctx context.Context, replyToRaw, content string) (*models.Tweet, error)
}

// CannedLister fetches the canned-response categories.
type CannedLister interface {
	ListCategories(ctx context.Context) ([]models.CannedCategory, error)
}

// SnapshotSource reads the cached statistics snapshots.
type SnapshotSource interface {
	Activity(ctx context.Context) (*stats.ActivitySnapshot, error)
	Contributors(ctx context.Context) (*stats.ContributorSnapshot, error)
}

// AuthChecker reports whether the posting capability has credentials.
type AuthChecker interface {
	Authed() bool
}

// Router sets up API routes
type Router struct {
	threads  ThreadFetcher
	replies  ReplySubmitter
	canned   CannedLister
	stats    SnapshotSource
	auth     AuthChecker
	pageSize int
	logger   *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(threads ThreadFetcher, replies ReplySubmitter, canned CannedLister, snapshots SnapshotSource, auth AuthChecker, pageSize int) *Router {
	return &Router{
		threads:  threads,
		replies:  replies,
		canned:   canned,
		stats:    snapshots,
		auth:     auth,
		pageSize: pageSize,
		logger:   logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	api := engine.Group("/api")
	api.GET("/dashboard", r.landing)
	api.GET("/tweets", r.moreTweets)
	api.POST("/tweets/reply", r.postReply)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "careboard-api",
	})
}
