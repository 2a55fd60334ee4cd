package ai

import "time"

const (
	// expected number of our moves still to play
	movesToGo = 30

	maxMoveTime = 10 * time.Second
	minMoveTime = 5 * time.Millisecond
)

// TimeBudget turns the remaining clock into a budget for one move. The
// budget is a share of self, capped at maxMoveTime, and never more than
// half of what is left, so that the search plus its overhead always
// returns inside self. The opponent's clock does not bound the budget.
func TimeBudget(self, opponent time.Duration) time.Duration {
	if self <= 0 {
		return 0
	}
	budget := self / movesToGo
	if budget > maxMoveTime {
		budget = maxMoveTime
	}
	if budget < minMoveTime {
		budget = minMoveTime
	}
	if half := self / 2; budget > half {
		budget = half
	}
	return budget
}
