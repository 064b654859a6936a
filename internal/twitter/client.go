package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sumodev/careboard/pkg/config"
	"github.com/sumodev/careboard/pkg/logging"
	"github.com/sumodev/careboard/pkg/telemetry"
)

// rubyDateFormat is the created_at format the platform uses.
const rubyDateFormat = "Mon Jan 02 15:04:05 -0700 2006"

// User is the author half of a posted status.
type User struct {
	ID              int64  `json:"id"`
	ScreenName      string `json:"screen_name"`
	Name            string `json:"name"`
	Lang            string `json:"lang"`
	ProfileImageURL string `json:"profile_image_url"`
}

// Status is a posted status as returned by the platform. Only the
// fields this service persists are decoded; everything else the API
// returns is dropped.
type Status struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"-"`
	User      User      `json:"user"`
}

// UnmarshalJSON decodes a status, parsing the platform's created_at
// date format.
func (s *Status) UnmarshalJSON(data []byte) error {
	type alias Status
	aux := &struct {
		CreatedAt string `json:"created_at"`
		*alias
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if aux.CreatedAt != "" {
		t, err := time.Parse(rubyDateFormat, aux.CreatedAt)
		if err != nil {
			return fmt.Errorf("invalid created_at %q: %w", aux.CreatedAt, err)
		}
		s.CreatedAt = t
	}
	return nil
}

// Validate checks that the decoded status carries the fields the
// service relies on.
func (s *Status) Validate() error {
	if s.ID == 0 {
		return fmt.Errorf("status missing id")
	}
	if s.User.ID == 0 || s.User.ScreenName == "" {
		return fmt.Errorf("status %d missing author", s.ID)
	}
	if s.CreatedAt.IsZero() {
		return fmt.Errorf("status %d missing created_at", s.ID)
	}
	return nil
}

// APIError is a failure reported by the platform (rate limiting,
// duplicate status, expired credentials). Submissions that fail this
// way are never retried here.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("twitter API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// APIClient posts statuses over the platform's REST API.
type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a new API client
func New(cfg *config.TwitterConfig) (*APIClient, error) {
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("twitter_api_url is required")
	}

	logger := logging.GetLogger().With(zap.String("component", "twitter-client"))

	client := &APIClient{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		token:   cfg.AccessToken,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}

	logger.Info("Twitter client initialized",
		zap.String("url", cfg.APIURL),
		zap.Bool("authed", client.Authed()))

	return client, nil
}

// Authed reports whether posting credentials are configured. The
// dashboard reads this to decide whether to offer the reply form.
func (c *APIClient) Authed() bool {
	return c.token != ""
}

// PostStatus posts a reply to the given status id and returns the
// created status.
func (c *APIClient) PostStatus(ctx context.Context, content string, inReplyTo int64) (*Status, error) {
	ctx, span := telemetry.StartSpan(ctx, "twitter.post_status")
	defer span.End()

	if !c.Authed() {
		return nil, fmt.Errorf("twitter credentials not configured")
	}

	form := url.Values{}
	form.Set("status", content)
	form.Set("in_reply_to_status_id", strconv.FormatInt(inReplyTo, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/statuses/update.json", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to post status: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    apiErrorMessage(body),
		}
	}

	var status Status
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status: %w", err)
	}
	if err := status.Validate(); err != nil {
		return nil, fmt.Errorf("invalid status response: %w", err)
	}

	c.logger.Debug("Status posted",
		zap.Int64("id", status.ID),
		zap.Int64("in_reply_to", inReplyTo))

	return &status, nil
}

// apiErrorMessage extracts the first error description from a platform
// error body, falling back to the raw body.
func apiErrorMessage(body []byte) string {
	var parsed struct {
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		return parsed.Errors[0].Message
	}
	return strings.TrimSpace(string(body))
}
