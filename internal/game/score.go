package game

import "time"

const (
	// MaxAward is the score for an instantaneous correct answer.
	MaxAward = 1000
	// MinAward is the floor for any correct answer inside the window.
	MinAward = 100
)

// Score returns the points for a correct answer submitted after elapsed time
// against the question's budget. It decays linearly from MaxAward to MinAward
// and is monotonically non-increasing in elapsed. Incorrect and missing
// answers never reach this function; the session scores them 0.
func Score(elapsed, budget time.Duration) int {
	if budget <= 0 || elapsed >= budget {
		return MinAward
	}
	if elapsed < 0 {
		elapsed = 0
	}
	frac := float64(elapsed) / float64(budget)
	pts := MaxAward - int(frac*float64(MaxAward-MinAward))
	if pts > MaxAward {
		return MaxAward
	}
	if pts < MinAward {
		return MinAward
	}
	return pts
}
