package stats

// Cache keys for the two snapshots the refresher maintains.
const (
	ActivityKey     = "stats:activity"
	ContributorsKey = "stats:contributors"
)

// Contributor buckets are capped for display; entries past the cap are
// dropped in arrival order, not re-ranked.
const maxContributorsPerPeriod = 16

// ActivityRow is one period of request/reply activity.
type ActivityRow struct {
	Period   string  `json:"period"`
	Requests int64   `json:"requests"`
	Replies  int64   `json:"replies"`
	Ratio    float64 `json:"ratio"`
}

// ActivitySnapshot is the cached activity aggregate, produced by the
// refresher and read-only everywhere else.
type ActivitySnapshot struct {
	Resultset []ActivityRow `json:"resultset"`
}

// ContributorRow is one contributor's count within a period bucket.
type ContributorRow struct {
	Period   string `json:"period"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Count    int64  `json:"count"`
}

// ContributorSnapshot is the cached top-contributor aggregate, with a
// side lookup from username to avatar URL.
type ContributorSnapshot struct {
	Resultset []ContributorRow  `json:"resultset"`
	Avatars   map[string]string `json:"avatars"`
}
