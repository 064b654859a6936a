package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// postReply submits a reply to an existing tweet. Validation failures
// and platform rejections come back as a 400 with the reason as plain
// text; storage failures are server errors.
func (r *Router) postReply(c *gin.Context) {
	if !r.auth.Authed() {
		c.String(http.StatusForbidden, "Authentication required")
		return
	}

	replyTo := c.PostForm("reply_to")
	content := c.PostForm("content")

	tweet, err := r.replies.SubmitReply(c.Request.Context(), replyTo, content)
	if err != nil {
		if isRejection(err) {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		r.logger.Error("Failed to store reply",
			zap.String("reply_to", replyTo),
			zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	r.logger.Info("Reply posted",
		zap.Int64("tweet_id", tweet.TweetID),
		zap.String("reply_to", replyTo))

	c.Status(http.StatusNoContent)
}
