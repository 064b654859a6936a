package tweets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sumodev/careboard/internal/models"
	"github.com/sumodev/careboard/internal/twitter"
	"github.com/sumodev/careboard/pkg/telemetry"
)

// MaxContentLength is the platform's hard limit on message length,
// counted in characters.
const MaxContentLength = 140

var (
	// ErrReplyToInvalid is returned for a missing or non-numeric reply target
	ErrReplyToInvalid = errors.New("Reply-to is empty or invalid")

	// ErrContentEmpty is returned for an empty message
	ErrContentEmpty = errors.New("Message is empty")

	// ErrContentTooLong is returned for a message over the platform limit
	ErrContentTooLong = errors.New("Message is too long")
)

// SubmissionError wraps a failure reported by the posting platform.
// The submission is not retried; the caller must re-submit.
type SubmissionError struct {
	Err error
}

// Error implements the error interface
func (e *SubmissionError) Error() string {
	return fmt.Sprintf("An error occurred: %s", submissionDetail(e.Err))
}

// Unwrap returns the underlying platform error
func (e *SubmissionError) Unwrap() error {
	return e.Err
}

func submissionDetail(err error) string {
	var apiErr *twitter.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// StatusPoster is the posting capability the service submits through.
type StatusPoster interface {
	PostStatus(ctx context.Context, content string, inReplyTo int64) (*twitter.Status, error)
}

// TweetWriter is the storage surface replies are persisted to.
type TweetWriter interface {
	Create(ctx context.Context, tweet *models.Tweet) error
}

// Service validates outbound replies, submits them to the platform and
// persists the result for future thread reconstruction.
type Service struct {
	poster StatusPoster
	store  TweetWriter
	logger *zap.Logger
}

// NewService creates a new reply service
func NewService(poster StatusPoster, store TweetWriter, logger *zap.Logger) *Service {
	return &Service{
		poster: poster,
		store:  store,
		logger: logger.With(zap.String("component", "reply-service")),
	}
}

// SubmitReply validates the reply, posts it to the platform and stores
// the resulting tweet. Validation failures and platform rejections
// come back as ErrReplyToInvalid, ErrContentEmpty, ErrContentTooLong
// or *SubmissionError; anything else is a storage failure.
//
// The platform call and the insert are not transactional: if the
// insert fails after a successful post, the platform carries a status
// this store does not. That window is accepted and logged.
func (s *Service) SubmitReply(ctx context.Context, replyToRaw, content string) (*models.Tweet, error) {
	ctx, span := telemetry.StartSpan(ctx, "tweets.submit_reply")
	defer span.End()

	replyTo, err := strconv.ParseInt(replyToRaw, 10, 64)
	if err != nil {
		return nil, ErrReplyToInvalid
	}
	if len(content) == 0 {
		return nil, ErrContentEmpty
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, ErrContentTooLong
	}

	status, err := s.poster.PostStatus(ctx, content, replyTo)
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}

	tweet, err := recordFromStatus(status, replyTo)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, tweet); err != nil {
		s.logger.Error("Reply posted but not stored; platform and store have diverged",
			zap.Int64("status_id", status.ID),
			zap.Int64("reply_to", replyTo),
			zap.Error(err))
		return nil, fmt.Errorf("failed to store reply %d: %w", status.ID, err)
	}

	s.logger.Info("Reply stored",
		zap.Int64("tweet_id", tweet.TweetID),
		zap.Int64("reply_to", replyTo))

	return tweet, nil
}

// recordFromStatus normalizes a platform status into a stored tweet.
// The payload keeps exactly the fields the dashboard renders; anything
// else the API returned is dropped.
func recordFromStatus(status *twitter.Status, replyTo int64) (*models.Tweet, error) {
	payload := rawPayload{
		ID:              status.ID,
		Text:            status.Text,
		CreatedAt:       status.CreatedAt.Format(time.RFC1123Z),
		ISOLanguageCode: status.User.Lang,
		FromUserID:      status.User.ID,
		FromUser:        status.User.ScreenName,
		ProfileImageURL: status.User.ProfileImageURL,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload for %d: %w", status.ID, err)
	}

	return &models.Tweet{
		TweetID: status.ID,
		Locale:  status.User.Lang,
		ReplyTo: sql.NullInt64{Int64: replyTo, Valid: true},
		RawJSON: string(raw),
		Created: status.CreatedAt,
	}, nil
}
