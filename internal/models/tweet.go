package models

import (
	"database/sql"
	"time"
)

// Tweet is a single stored tweet. The tweet_id is assigned by the
// platform and never changes; reply_to points at another tweet's id or
// is NULL for a top-level tweet. A reply_to that matches no stored row
// is an orphan: valid, but never reachable from the feed.
type Tweet struct {
	TweetID int64         `gorm:"primaryKey;column:tweet_id"`
	Locale  string        `gorm:"type:varchar(10);not null;index;column:locale"`
	ReplyTo sql.NullInt64 `gorm:"index;column:reply_to"`
	RawJSON string        `gorm:"type:text;not null;column:raw_json"`
	Created time.Time     `gorm:"not null;column:created"`
}

// TableName specifies the table name for Tweet
func (Tweet) TableName() string {
	return "cc_tweets"
}
