package tweets

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/sumodev/careboard/internal/models"
	"github.com/sumodev/careboard/pkg/telemetry"
)

// DefaultLimit is the number of top-level tweets per feed page.
const DefaultLimit = 20

// ThreadStore is the storage surface the thread builder reads from.
type ThreadStore interface {
	ListThread(ctx context.Context, locale string, replyTo *int64, maxID int64, limit int) ([]models.Tweet, error)
	ListByParents(ctx context.Context, locale string, parentIDs []int64) ([]models.Tweet, error)
}

// ThreadNode is the sanitized, nested representation of a tweet plus
// its replies. Nodes are built fresh on every request and never
// persisted.
type ThreadNode struct {
	ID         int64         `json:"id"`
	User       string        `json:"user"`
	ProfileImg string        `json:"profile_img"`
	Text       string        `json:"text"`
	Date       time.Time     `json:"date"`
	ReplyTo    *int64        `json:"reply_to"`
	ReplyCount int           `json:"reply_count"`
	Replies    []*ThreadNode `json:"replies"`
}

// rawPayload is the stored shape of a tweet's raw_json column.
type rawPayload struct {
	ID              int64  `json:"id"`
	Text            string `json:"text"`
	CreatedAt       string `json:"created_at"`
	ISOLanguageCode string `json:"iso_language_code"`
	FromUserID      int64  `json:"from_user_id"`
	FromUser        string `json:"from_user"`
	ProfileImageURL string `json:"profile_image_url"`
}

// ThreadBuilder reconstructs reply trees from the flat tweet store.
type ThreadBuilder struct {
	store     ThreadStore
	sanitizer *Sanitizer
	locale    string
	logger    *zap.Logger
}

// NewThreadBuilder creates a new thread builder
func NewThreadBuilder(store ThreadStore, sanitizer *Sanitizer, locale string, logger *zap.Logger) *ThreadBuilder {
	return &ThreadBuilder{
		store:     store,
		sanitizer: sanitizer,
		locale:    locale,
		logger:    logger.With(zap.String("component", "thread-builder")),
	}
}

// FetchThread returns up to limit thread nodes at the requested level,
// newest first, each carrying its full reply subtree. maxID > 0 pages
// the top-level feed backward; limit of 0 means no bound. replyTo nil
// selects top-level tweets.
//
// Instead of re-querying per node, descendants are loaded level by
// level into a parent index and the tree is assembled in memory, so
// the query count is bounded by thread depth rather than tweet count.
func (b *ThreadBuilder) FetchThread(ctx context.Context, limit int, maxID int64, replyTo *int64) ([]*ThreadNode, error) {
	ctx, span := telemetry.StartSpan(ctx, "tweets.fetch_thread")
	defer span.End()

	roots, err := b.store.ListThread(ctx, b.locale, replyTo, maxID, limit)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return []*ThreadNode{}, nil
	}

	index, err := b.loadDescendants(ctx, roots)
	if err != nil {
		return nil, err
	}

	nodes := make([]*ThreadNode, 0, len(roots))
	for _, root := range roots {
		if node := b.assemble(root, index); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// loadDescendants batch-fetches the full reply subtrees under the
// given roots, one query per tree level, and returns a parent id →
// ordered children index.
func (b *ThreadBuilder) loadDescendants(ctx context.Context, roots []models.Tweet) (map[int64][]models.Tweet, error) {
	index := make(map[int64][]models.Tweet)
	seen := make(map[int64]bool, len(roots))

	frontier := make([]int64, 0, len(roots))
	for _, t := range roots {
		seen[t.TweetID] = true
		frontier = append(frontier, t.TweetID)
	}

	for len(frontier) > 0 {
		rows, err := b.store.ListByParents(ctx, b.locale, frontier)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, row := range rows {
			// Guards against reference cycles in bad data.
			if seen[row.TweetID] {
				continue
			}
			seen[row.TweetID] = true
			index[row.ReplyTo.Int64] = append(index[row.ReplyTo.Int64], row)
			frontier = append(frontier, row.TweetID)
		}
	}

	return index, nil
}

// assemble builds the node for one tweet and recurses over its
// children from the in-memory index. A tweet whose stored payload
// cannot be decoded is skipped with a warning rather than failing the
// whole feed.
func (b *ThreadBuilder) assemble(tweet models.Tweet, index map[int64][]models.Tweet) *ThreadNode {
	var payload rawPayload
	if err := json.Unmarshal([]byte(tweet.RawJSON), &payload); err != nil {
		b.logger.Warn("Skipping tweet with malformed payload",
			zap.Int64("tweet_id", tweet.TweetID),
			zap.Error(err))
		return nil
	}

	date := tweet.Created
	if parsed, err := parseTweetDate(payload.CreatedAt); err == nil {
		date = parsed
	}

	var replyTo *int64
	if tweet.ReplyTo.Valid {
		id := tweet.ReplyTo.Int64
		replyTo = &id
	}

	replies := make([]*ThreadNode, 0, len(index[tweet.TweetID]))
	for _, child := range index[tweet.TweetID] {
		if node := b.assemble(child, index); node != nil {
			replies = append(replies, node)
		}
	}

	return &ThreadNode{
		ID:         tweet.TweetID,
		User:       b.sanitizer.Clean(payload.FromUser),
		ProfileImg: b.sanitizer.Clean(payload.ProfileImageURL),
		Text:       b.sanitizer.Clean(payload.Text),
		Date:       date,
		ReplyTo:    replyTo,
		ReplyCount: len(replies),
		Replies:    replies,
	}
}

// parseTweetDate parses the RFC 1123 timestamps stored in payloads.
func parseTweetDate(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC1123Z, value)
	if err != nil {
		t, err = time.Parse(time.RFC1123, value)
	}
	return t, err
}
