package classify

import "math"

// EngagementRate returns ((likes + comments) / views) * 100 rounded to four
// decimal places. Zero views yields exactly 0 — a policy choice so unviewed
// videos report no engagement rather than dividing by zero.
func EngagementRate(views, likes, comments int64) float64 {
	if views == 0 {
		return 0.0
	}
	rate := float64(likes+comments) / float64(views) * 100
	return math.Round(rate*10000) / 10000
}
