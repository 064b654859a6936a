package stats

import (
	"fmt"
	"testing"
)

func TestFormatActivity(t *testing.T) {
	t.Run("absent snapshot", func(t *testing.T) {
		if got := FormatActivity(nil); got != nil {
			t.Errorf("FormatActivity(nil) = %v, want nil", got)
		}
	})

	t.Run("empty snapshot is not absent", func(t *testing.T) {
		got := FormatActivity(&ActivitySnapshot{Resultset: []ActivityRow{}})
		if got == nil {
			t.Error("empty snapshot should format to an empty slice, not nil")
		}
		if len(got) != 0 {
			t.Errorf("expected 0 rows, got %d", len(got))
		}
	})

	t.Run("formats counts and percentage", func(t *testing.T) {
		got := FormatActivity(&ActivitySnapshot{Resultset: []ActivityRow{
			{Period: "2011-08-01", Requests: 100, Replies: 50, Ratio: 0.5},
			{Period: "2011-08-08", Requests: 1234567, Replies: 0, Ratio: 0},
		}})

		if len(got) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(got))
		}
		if got[0].Perc != 50 {
			t.Errorf("Perc = %v, want 50", got[0].Perc)
		}
		if got[0].Requests != "100" {
			t.Errorf("Requests = %q, want 100", got[0].Requests)
		}
		if got[1].Requests != "1,234,567" {
			t.Errorf("Requests = %q, want 1,234,567", got[1].Requests)
		}
	})
}

func TestFormatContributors(t *testing.T) {
	t.Run("absent snapshot", func(t *testing.T) {
		if got := FormatContributors(nil); got != nil {
			t.Errorf("FormatContributors(nil) = %v, want nil", got)
		}
	})

	t.Run("groups by period in first-seen order", func(t *testing.T) {
		got := FormatContributors(&ContributorSnapshot{
			Resultset: []ContributorRow{
				{Period: "1w", Name: "Alice", Username: "alice", Count: 10},
				{Period: "1m", Name: "Bob", Username: "bob", Count: 30},
				{Period: "1w", Name: "Carol", Username: "carol", Count: 5},
			},
			Avatars: map[string]string{
				"alice": "http://example.com/alice.png",
			},
		})

		if len(got) != 2 {
			t.Fatalf("expected 2 buckets, got %d", len(got))
		}
		if got[0].Period != "1w" || got[1].Period != "1m" {
			t.Errorf("bucket order = [%s %s], want [1w 1m]", got[0].Period, got[1].Period)
		}
		if len(got[0].Contributors) != 2 {
			t.Fatalf("1w bucket has %d entries, want 2", len(got[0].Contributors))
		}
		if got[0].Contributors[0].Avatar != "http://example.com/alice.png" {
			t.Errorf("alice avatar missing: %q", got[0].Contributors[0].Avatar)
		}
		// No lookup entry: avatar stays empty, no error
		if got[0].Contributors[1].Avatar != "" {
			t.Errorf("carol avatar = %q, want empty", got[0].Contributors[1].Avatar)
		}
	})

	t.Run("caps buckets at 16 in arrival order", func(t *testing.T) {
		rows := make([]ContributorRow, 0, 20)
		for i := 0; i < 20; i++ {
			rows = append(rows, ContributorRow{
				Period:   "1w",
				Name:     fmt.Sprintf("User %d", i),
				Username: fmt.Sprintf("user%d", i),
				Count:    int64(100 - i),
			})
		}

		got := FormatContributors(&ContributorSnapshot{Resultset: rows})
		if len(got) != 1 {
			t.Fatalf("expected 1 bucket, got %d", len(got))
		}
		if len(got[0].Contributors) != 16 {
			t.Fatalf("bucket has %d entries, want 16", len(got[0].Contributors))
		}
		// The first 16 encountered survive, the rest are dropped
		for i, c := range got[0].Contributors {
			if c.Username != fmt.Sprintf("user%d", i) {
				t.Errorf("entry %d = %q, want user%d", i, c.Username, i)
			}
		}
	})
}
