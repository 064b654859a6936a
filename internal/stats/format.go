package stats

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numberPrinter renders counts with en_US digit grouping.
var numberPrinter = message.NewPrinter(language.AmericanEnglish)

// ActivityStat is one display row of the activity table.
type ActivityStat struct {
	Period   string  `json:"period"`
	Requests string  `json:"requests"`
	Replies  string  `json:"replies"`
	Perc     float64 `json:"perc"`
}

// ContributorStat is one display entry of a contributor bucket.
type ContributorStat struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Count    int64  `json:"count"`
	Avatar   string `json:"avatar,omitempty"`
}

// ContributorBucket groups contributors by period, in the order the
// periods first appear in the snapshot.
type ContributorBucket struct {
	Period       string            `json:"period"`
	Contributors []ContributorStat `json:"contributors"`
}

// FormatActivity reshapes the activity snapshot for display. A nil
// snapshot means the cache had nothing and returns nil, which is
// distinct from a present-but-empty snapshot. Perc is the reply ratio
// as a percentage; the display layer rounds it to the nearest integer.
func FormatActivity(snapshot *ActivitySnapshot) []ActivityStat {
	if snapshot == nil {
		return nil
	}

	out := make([]ActivityStat, 0, len(snapshot.Resultset))
	for _, row := range snapshot.Resultset {
		out = append(out, ActivityStat{
			Period:   row.Period,
			Requests: numberPrinter.Sprintf("%d", row.Requests),
			Replies:  numberPrinter.Sprintf("%d", row.Replies),
			Perc:     row.Ratio * 100,
		})
	}
	return out
}

// FormatContributors reshapes the contributor snapshot for display:
// rows are grouped into per-period buckets in first-seen order, each
// bucket capped at 16 entries. Rows past the cap are dropped as they
// arrive. A missing avatar lookup leaves the avatar empty.
func FormatContributors(snapshot *ContributorSnapshot) []ContributorBucket {
	if snapshot == nil {
		return nil
	}

	buckets := []ContributorBucket{}
	position := map[string]int{}

	for _, row := range snapshot.Resultset {
		idx, ok := position[row.Period]
		if !ok {
			idx = len(buckets)
			position[row.Period] = idx
			buckets = append(buckets, ContributorBucket{Period: row.Period})
		}
		if len(buckets[idx].Contributors) == maxContributorsPerPeriod {
			continue
		}

		buckets[idx].Contributors = append(buckets[idx].Contributors, ContributorStat{
			Name:     row.Name,
			Username: row.Username,
			Count:    row.Count,
			Avatar:   snapshot.Avatars[row.Username],
		})
	}
	return buckets
}
