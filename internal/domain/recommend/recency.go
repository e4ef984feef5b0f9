package recommend

import "time"

const recencyWindowDays = 30.0

// RecencyScore decays linearly from 1.0 at publish time to 0.0 at 30 days,
// floored at zero beyond that. A vacancy without a publish timestamp scores
// 0.0.
func RecencyScore(publishedAt *time.Time, now time.Time) float64 {
	if publishedAt == nil || publishedAt.IsZero() {
		return 0.0
	}

	age := now.Sub(*publishedAt)
	if age < 0 {
		age = 0
	}
	days := age.Hours() / 24.0

	score := 1.0 - days/recencyWindowDays
	if score < 0 {
		return 0.0
	}
	return score
}
