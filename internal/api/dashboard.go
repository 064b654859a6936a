package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sumodev/careboard/internal/stats"
)

// landing returns the full dashboard: the top-level feed, both
// statistics tables, the canned responses and the auth flag the client
// uses to decide whether to show the reply form. Absent snapshots
// serialize as null, distinct from empty tables.
func (r *Router) landing(c *gin.Context) {
	ctx := c.Request.Context()

	nodes, err := r.threads.FetchThread(ctx, r.pageSize, 0, nil)
	if err != nil {
		r.logger.Error("Failed to build tweet feed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	canned, err := r.canned.ListCategories(ctx)
	if err != nil {
		r.logger.Error("Failed to load canned responses", zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	// A broken stats cache degrades to "unavailable" rather than
	// failing the whole page.
	activity, err := r.stats.Activity(ctx)
	if err != nil {
		r.logger.Warn("Failed to read activity snapshot", zap.Error(err))
	}
	contributors, err := r.stats.Contributors(ctx)
	if err != nil {
		r.logger.Warn("Failed to read contributor snapshot", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"tweets":            nodes,
		"activity_stats":    stats.FormatActivity(activity),
		"contributor_stats": stats.FormatContributors(contributors),
		"canned_responses":  canned,
		"authed":            r.auth.Authed(),
	})
}

// moreTweets returns an older page of the top-level feed. max_id pages
// backward: only tweets with ids strictly below it are returned.
func (r *Router) moreTweets(c *gin.Context) {
	var maxID int64
	if raw := c.Query("max_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.String(http.StatusBadRequest, "max_id is invalid")
			return
		}
		maxID = parsed
	}

	nodes, err := r.threads.FetchThread(c.Request.Context(), r.pageSize, maxID, nil)
	if err != nil {
		r.logger.Error("Failed to build tweet feed",
			zap.Int64("max_id", maxID),
			zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tweets": nodes})
}
