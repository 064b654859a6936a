package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sumodev/careboard/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// TweetRepository provides tweet-related database operations
type TweetRepository struct {
	*Repository
}

// NewTweetRepository creates a new tweet repository
func NewTweetRepository(repo *Repository) *TweetRepository {
	return &TweetRepository{Repository: repo}
}

// ListThread retrieves tweets for one thread level, newest first.
// replyTo selects children of that tweet; nil selects top-level tweets.
// maxID > 0 restricts to tweets with an id strictly below it. limit of
// 0 means no bound.
func (r *TweetRepository) ListThread(ctx context.Context, locale string, replyTo *int64, maxID int64, limit int) ([]models.Tweet, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Tweet{}).
		Where("locale = ?", locale)

	if replyTo == nil {
		q = q.Where("reply_to IS NULL")
	} else {
		q = q.Where("reply_to = ?", *replyTo)
	}
	if maxID > 0 {
		q = q.Where("tweet_id < ?", maxID)
	}
	q = q.Order("tweet_id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var tweets []models.Tweet
	if err := q.Find(&tweets).Error; err != nil {
		return nil, err
	}
	return tweets, nil
}

// ListByParents retrieves all direct replies to the given parent ids in
// one query, newest first. Used for the level-at-a-time thread build.
func (r *TweetRepository) ListByParents(ctx context.Context, locale string, parentIDs []int64) ([]models.Tweet, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var tweets []models.Tweet
	if err := r.db.WithContext(ctx).
		Model(&models.Tweet{}).
		Where("locale = ? AND reply_to IN ?", locale, parentIDs).
		Order("tweet_id DESC").
		Find(&tweets).Error; err != nil {
		return nil, err
	}
	return tweets, nil
}

// ListSince retrieves all tweets in the locale created at or after the
// given time, oldest first. A zero time returns the full history.
func (r *TweetRepository) ListSince(ctx context.Context, locale string, since time.Time) ([]models.Tweet, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Tweet{}).
		Where("locale = ?", locale)
	if !since.IsZero() {
		q = q.Where("created >= ?", since)
	}

	var tweets []models.Tweet
	if err := q.Order("created ASC").Find(&tweets).Error; err != nil {
		return nil, err
	}
	return tweets, nil
}

// Create creates a new tweet
func (r *TweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	return r.db.WithContext(ctx).Create(tweet).Error
}

// CannedRepository provides canned-response database operations
type CannedRepository struct {
	*Repository
}

// NewCannedRepository creates a new canned-response repository
func NewCannedRepository(repo *Repository) *CannedRepository {
	return &CannedRepository{Repository: repo}
}

// ListCategories retrieves all canned-response categories with their
// responses, heaviest first.
func (r *CannedRepository) ListCategories(ctx context.Context) ([]models.CannedCategory, error) {
	var categories []models.CannedCategory
	if err := r.db.WithContext(ctx).
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("weight DESC")
		}).
		Order("weight DESC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
