package twitter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sumodev/careboard/pkg/config"
)

func TestStatus_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, s *Status)
	}{
		{
			name: "full status",
			input: `{
				"id": 12345,
				"text": "hello there",
				"created_at": "Wed Aug 10 15:04:05 +0000 2011",
				"user": {
					"id": 42,
					"screen_name": "helper",
					"name": "Helpful Helper",
					"lang": "en",
					"profile_image_url": "http://example.com/a.png"
				}
			}`,
			check: func(t *testing.T, s *Status) {
				if s.ID != 12345 {
					t.Errorf("ID = %d, want 12345", s.ID)
				}
				if s.User.ScreenName != "helper" {
					t.Errorf("ScreenName = %q, want helper", s.User.ScreenName)
				}
				want := time.Date(2011, 8, 10, 15, 4, 5, 0, time.UTC)
				if !s.CreatedAt.Equal(want) {
					t.Errorf("CreatedAt = %v, want %v", s.CreatedAt, want)
				}
			},
		},
		{
			name:    "bad created_at",
			input:   `{"id": 1, "created_at": "not a date", "user": {"id": 2, "screen_name": "x"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Status
			err := s.UnmarshalJSON([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && err == nil {
				tt.check(t, &s)
			}
		})
	}
}

func TestStatus_Validate(t *testing.T) {
	valid := Status{
		ID:        1,
		CreatedAt: time.Now(),
		User:      User{ID: 2, ScreenName: "x"},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid status should not error: %v", err)
	}

	missing := Status{ID: 1, CreatedAt: time.Now()}
	if err := missing.Validate(); err == nil {
		t.Error("expected error for status without author")
	}
}

func TestAPIClient_PostStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/statuses/update.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if got := r.PostFormValue("status"); got != "we can help" {
			t.Errorf("status form value = %q", got)
		}
		if got := r.PostFormValue("in_reply_to_status_id"); got != "99" {
			t.Errorf("in_reply_to_status_id form value = %q", got)
		}
		w.Write([]byte(`{
			"id": 1001,
			"text": "we can help",
			"created_at": "Wed Aug 10 15:04:05 +0000 2011",
			"user": {"id": 7, "screen_name": "support", "lang": "en", "profile_image_url": "http://x/a.png"}
		}`))
	}))
	defer srv.Close()

	client, err := New(&config.TwitterConfig{
		APIURL:      srv.URL,
		AccessToken: "token",
		Timeout:     5 * time.Second,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	status, err := client.PostStatus(context.Background(), "we can help", 99)
	if err != nil {
		t.Fatalf("PostStatus() error: %v", err)
	}
	if status.ID != 1001 {
		t.Errorf("status.ID = %d, want 1001", status.ID)
	}
	if status.User.ScreenName != "support" {
		t.Errorf("status.User.ScreenName = %q, want support", status.User.ScreenName)
	}
}

func TestAPIClient_PostStatus_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"code":187,"message":"Status is a duplicate."}]}`))
	}))
	defer srv.Close()

	client, err := New(&config.TwitterConfig{
		APIURL:      srv.URL,
		AccessToken: "token",
		Timeout:     5 * time.Second,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	_, err = client.PostStatus(context.Background(), "dup", 99)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "Status is a duplicate." {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
}

func TestAPIClient_Authed(t *testing.T) {
	client, err := New(&config.TwitterConfig{APIURL: "https://api.example.com"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if client.Authed() {
		t.Error("client without token should not be authed")
	}

	if _, err := client.PostStatus(context.Background(), "hi", 1); err == nil {
		t.Error("PostStatus without credentials should error")
	}
}
