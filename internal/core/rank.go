package core

import (
	"sort"
	"time"
)

// DefaultTopN is how many ads are forwarded to the analysis stage.
const DefaultTopN = 5

// Rank returns the n longest-running ads as of asOf, longest first.
// Ads with equal ActiveDays keep their input order. The input is not modified.
func Rank(records []AdRecord, n int, asOf time.Time) []RankedAd {
	if n <= 0 || len(records) == 0 {
		return []RankedAd{}
	}

	ranked := make([]RankedAd, len(records))
	for i, r := range records {
		ranked[i] = RankedAd{
			AdRecord:   r,
			ActiveDays: ActiveDays(r.StartDate, asOf),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ActiveDays > ranked[j].ActiveDays
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ActiveDays counts calendar days from start to asOf, ignoring time of day.
func ActiveDays(start, asOf time.Time) int {
	from := civilDate(start)
	to := civilDate(asOf)
	return int(to.Sub(from).Hours() / 24)
}

// Records strips the ranking annotation, e.g. to re-rank a snapshot.
func Records(ranked []RankedAd) []AdRecord {
	out := make([]AdRecord, len(ranked))
	for i, r := range ranked {
		out[i] = r.AdRecord
	}
	return out
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
