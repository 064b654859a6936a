package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sumodev/careboard/internal/models"
	"github.com/sumodev/careboard/pkg/telemetry"
)

// activityWindow bounds the activity table to the trailing year.
const activityWindow = 52 * 7 * 24 * time.Hour

// contributorPeriods are computed newest-window first.
var contributorPeriods = []struct {
	label  string
	window time.Duration
}{
	{"1w", 7 * 24 * time.Hour},
	{"1m", 30 * 24 * time.Hour},
	{"all", 0},
}

// TweetLister is the storage surface the refresher aggregates over.
type TweetLister interface {
	ListSince(ctx context.Context, locale string, since time.Time) ([]models.Tweet, error)
}

// tweetPayload is the slice of raw_json the aggregates need.
type tweetPayload struct {
	FromUser        string `json:"from_user"`
	ProfileImageURL string `json:"profile_image_url"`
}

// Refresher recomputes the statistics snapshots from the tweet store
// and writes them to the cache. It owns the snapshots; everything else
// only reads them.
type Refresher struct {
	tweets TweetLister
	store  *Store
	locale string
	topN   int
	logger *zap.Logger
}

// NewRefresher creates a new statistics refresher
func NewRefresher(tweets TweetLister, store *Store, locale string, topN int, logger *zap.Logger) *Refresher {
	return &Refresher{
		tweets: tweets,
		store:  store,
		locale: locale,
		topN:   topN,
		logger: logger.With(zap.String("component", "stats-refresher")),
	}
}

// Refresh rebuilds both snapshots and stores them.
func (r *Refresher) Refresh(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "stats.refresh")
	defer span.End()

	rows, err := r.tweets.ListSince(ctx, r.locale, time.Time{})
	if err != nil {
		return fmt.Errorf("failed to load tweets: %w", err)
	}

	now := time.Now().UTC()

	activity := buildActivity(rows, now)
	if err := r.store.SetActivity(ctx, activity); err != nil {
		return fmt.Errorf("failed to store activity snapshot: %w", err)
	}

	contributors := buildContributors(rows, now, r.topN)
	if err := r.store.SetContributors(ctx, contributors); err != nil {
		return fmt.Errorf("failed to store contributor snapshot: %w", err)
	}

	r.logger.Info("Statistics snapshots refreshed",
		zap.Int("tweets", len(rows)),
		zap.Int("activity_periods", len(activity.Resultset)),
		zap.Int("contributor_rows", len(contributors.Resultset)))

	return nil
}

// buildActivity buckets the trailing year of tweets by calendar week:
// top-level tweets count as requests, the rest as replies.
func buildActivity(rows []models.Tweet, now time.Time) *ActivitySnapshot {
	cutoff := now.Add(-activityWindow)

	type counts struct {
		requests int64
		replies  int64
	}
	weeks := map[string]*counts{}
	var order []string

	for _, row := range rows {
		if row.Created.Before(cutoff) {
			continue
		}
		label := weekLabel(row.Created)
		c, ok := weeks[label]
		if !ok {
			c = &counts{}
			weeks[label] = c
			order = append(order, label)
		}
		if row.ReplyTo.Valid {
			c.replies++
		} else {
			c.requests++
		}
	}

	sort.Strings(order)

	snapshot := &ActivitySnapshot{Resultset: []ActivityRow{}}
	for _, label := range order {
		c := weeks[label]
		ratio := 0.0
		if c.requests > 0 {
			ratio = float64(c.replies) / float64(c.requests)
		}
		snapshot.Resultset = append(snapshot.Resultset, ActivityRow{
			Period:   label,
			Requests: c.requests,
			Replies:  c.replies,
			Ratio:    ratio,
		})
	}
	return snapshot
}

// weekLabel is the Monday of the week the time falls in, as a date.
func weekLabel(t time.Time) string {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format("2006-01-02")
}

// buildContributors counts replies per author for each period window
// and keeps the topN of each, with an avatar lookup on the side.
// Tweets whose payload cannot be decoded are left out of the counts.
func buildContributors(rows []models.Tweet, now time.Time, topN int) *ContributorSnapshot {
	snapshot := &ContributorSnapshot{
		Resultset: []ContributorRow{},
		Avatars:   map[string]string{},
	}

	type reply struct {
		created time.Time
		user    string
	}
	var replies []reply

	for _, row := range rows {
		if !row.ReplyTo.Valid {
			continue
		}
		var payload tweetPayload
		if err := json.Unmarshal([]byte(row.RawJSON), &payload); err != nil || payload.FromUser == "" {
			continue
		}
		replies = append(replies, reply{created: row.Created, user: payload.FromUser})
		if payload.ProfileImageURL != "" {
			snapshot.Avatars[payload.FromUser] = payload.ProfileImageURL
		}
	}

	for _, period := range contributorPeriods {
		cutoff := time.Time{}
		if period.window > 0 {
			cutoff = now.Add(-period.window)
		}

		totals := map[string]int64{}
		for _, rep := range replies {
			if !cutoff.IsZero() && rep.created.Before(cutoff) {
				continue
			}
			totals[rep.user]++
		}

		users := make([]string, 0, len(totals))
		for user := range totals {
			users = append(users, user)
		}
		sort.Slice(users, func(i, j int) bool {
			if totals[users[i]] != totals[users[j]] {
				return totals[users[i]] > totals[users[j]]
			}
			return users[i] < users[j]
		})
		if len(users) > topN {
			users = users[:topN]
		}

		for _, user := range users {
			snapshot.Resultset = append(snapshot.Resultset, ContributorRow{
				Period:   period.label,
				Name:     user,
				Username: user,
				Count:    totals[user],
			})
		}
	}

	return snapshot
}
