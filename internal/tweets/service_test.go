package tweets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sumodev/careboard/internal/models"
	"github.com/sumodev/careboard/internal/twitter"
)

type fakePoster struct {
	status *twitter.Status
	err    error
	calls  int
}

func (f *fakePoster) PostStatus(_ context.Context, content string, inReplyTo int64) (*twitter.Status, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.status, nil
}

type fakeWriter struct {
	created []*models.Tweet
	err     error
}

func (f *fakeWriter) Create(_ context.Context, tweet *models.Tweet) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, tweet)
	return nil
}

func testStatus() *twitter.Status {
	return &twitter.Status{
		ID:        1001,
		Text:      "we can help",
		CreatedAt: time.Date(2011, 8, 10, 15, 4, 5, 0, time.UTC),
		User: twitter.User{
			ID:              7,
			ScreenName:      "support",
			Name:            "Support Team",
			Lang:            "en",
			ProfileImageURL: "http://example.com/support.png",
		},
	}
}

func TestSubmitReply_Validation(t *testing.T) {
	tests := []struct {
		name    string
		replyTo string
		content string
		wantErr error
	}{
		{
			name:    "empty reply target",
			replyTo: "",
			content: "hello",
			wantErr: ErrReplyToInvalid,
		},
		{
			name:    "non-numeric reply target",
			replyTo: "abc",
			content: "hello",
			wantErr: ErrReplyToInvalid,
		},
		{
			name:    "empty content",
			replyTo: "99",
			content: "",
			wantErr: ErrContentEmpty,
		},
		{
			name:    "content one over the limit",
			replyTo: "99",
			content: strings.Repeat("a", MaxContentLength+1),
			wantErr: ErrContentTooLong,
		},
		{
			name:    "reply target checked before content",
			replyTo: "",
			content: "",
			wantErr: ErrReplyToInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poster := &fakePoster{status: testStatus()}
			writer := &fakeWriter{}
			svc := NewService(poster, writer, zap.NewNop())

			_, err := svc.SubmitReply(context.Background(), tt.replyTo, tt.content)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SubmitReply() error = %v, want %v", err, tt.wantErr)
			}
			if poster.calls != 0 {
				t.Error("poster should not be called on validation failure")
			}
			if len(writer.created) != 0 {
				t.Error("nothing should be stored on validation failure")
			}
		})
	}
}

func TestSubmitReply_Success(t *testing.T) {
	poster := &fakePoster{status: testStatus()}
	writer := &fakeWriter{}
	svc := NewService(poster, writer, zap.NewNop())

	content := strings.Repeat("a", MaxContentLength) // exactly at the limit
	tweet, err := svc.SubmitReply(context.Background(), "99", content)
	if err != nil {
		t.Fatalf("SubmitReply() error: %v", err)
	}

	if len(writer.created) != 1 {
		t.Fatalf("expected exactly one stored record, got %d", len(writer.created))
	}
	stored := writer.created[0]
	if stored != tweet {
		t.Error("returned tweet should be the stored record")
	}
	if stored.TweetID != 1001 {
		t.Errorf("TweetID = %d, want 1001", stored.TweetID)
	}
	if !stored.ReplyTo.Valid || stored.ReplyTo.Int64 != 99 {
		t.Errorf("ReplyTo = %+v, want 99", stored.ReplyTo)
	}
	if stored.Locale != "en" {
		t.Errorf("Locale = %q, want en", stored.Locale)
	}
	if !stored.Created.Equal(testStatus().CreatedAt) {
		t.Errorf("Created = %v, want original timestamp", stored.Created)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(stored.RawJSON), &payload); err != nil {
		t.Fatalf("stored payload is not valid JSON: %v", err)
	}
	wantKeys := []string{"id", "text", "created_at", "iso_language_code", "from_user_id", "from_user", "profile_image_url"}
	for _, key := range wantKeys {
		if _, ok := payload[key]; !ok {
			t.Errorf("payload missing %q", key)
		}
	}
	if len(payload) != len(wantKeys) {
		t.Errorf("payload has %d fields, want exactly %d", len(payload), len(wantKeys))
	}
	if payload["created_at"] != "Wed, 10 Aug 2011 15:04:05 +0000" {
		t.Errorf("payload created_at = %v", payload["created_at"])
	}
	if payload["from_user"] != "support" {
		t.Errorf("payload from_user = %v", payload["from_user"])
	}
}

func TestSubmitReply_PlatformFailure(t *testing.T) {
	poster := &fakePoster{err: &twitter.APIError{StatusCode: 403, Message: "Status is a duplicate."}}
	writer := &fakeWriter{}
	svc := NewService(poster, writer, zap.NewNop())

	_, err := svc.SubmitReply(context.Background(), "99", "hello")

	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected *SubmissionError, got %v", err)
	}
	if !strings.Contains(subErr.Error(), "Status is a duplicate.") {
		t.Errorf("error should carry the platform description: %q", subErr.Error())
	}
	if len(writer.created) != 0 {
		t.Error("nothing should be stored when the platform rejects")
	}
	if poster.calls != 1 {
		t.Errorf("poster calls = %d, want 1 (no retry)", poster.calls)
	}
}

func TestSubmitReply_StorageFailure(t *testing.T) {
	poster := &fakePoster{status: testStatus()}
	writer := &fakeWriter{err: fmt.Errorf("connection refused")}
	svc := NewService(poster, writer, zap.NewNop())

	_, err := svc.SubmitReply(context.Background(), "99", "hello")
	if err == nil {
		t.Fatal("expected storage failure to surface")
	}

	// Storage failures are server errors, not validation or submission
	// rejections.
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		t.Error("storage failure must not look like a platform rejection")
	}
	for _, sentinel := range []error{ErrReplyToInvalid, ErrContentEmpty, ErrContentTooLong} {
		if errors.Is(err, sentinel) {
			t.Errorf("storage failure must not map to %v", sentinel)
		}
	}
}

func TestSubmitReply_ConcurrentIdentical(t *testing.T) {
	poster := &fakePoster{status: testStatus()}
	writer := &fakeWriter{}
	svc := NewService(poster, writer, zap.NewNop())

	// Two identical submissions are independent: both persist, no dedup.
	for i := 0; i < 2; i++ {
		if _, err := svc.SubmitReply(context.Background(), "99", "same reply"); err != nil {
			t.Fatalf("SubmitReply() #%d error: %v", i, err)
		}
	}
	if len(writer.created) != 2 {
		t.Errorf("expected 2 independent records, got %d", len(writer.created))
	}
}
