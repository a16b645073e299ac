package engine

import (
	"time"
)

// Clock is the time source of a search. Tests freeze or step it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

type TimeHandler struct {
	clock       Clock
	startTime   time.Time
	timeForMove time.Time
	unbounded   bool
}

// StartTime starts the budget. A non-positive limit never runs out.
func (th *TimeHandler) StartTime(clock Clock, limit time.Duration) {
	if clock == nil {
		clock = SystemClock
	}
	th.clock = clock
	th.startTime = clock.Now()
	th.unbounded = limit <= 0
	th.timeForMove = th.startTime.Add(limit)
}

/*
  - True if we're out of time
  - False if we still got time, or the budget is unbounded
*/
func (th *TimeHandler) TimeStatus() bool {
	if th.unbounded || th.clock == nil {
		return false
	}
	return th.timeForMove.Before(th.clock.Now())
}

func (th *TimeHandler) Elapsed() time.Duration {
	if th.clock == nil {
		return 0
	}
	return th.clock.Now().Sub(th.startTime)
}

// AllocateMoveTime turns a UCI clock (remaining and increment, in
// milliseconds) into a budget for the next move.
func AllocateMoveTime(remainingMs, incrementMs, fullmoveNumber int) time.Duration {
	movesLeft := estimateMovesRemaining(fullmoveNumber) // 20..45

	// Engine-side safety knobs
	const overheadMs = 30      // reserve for UCI/IO jitter
	const minMoveMs = 5        // never less than this
	const maxFrac = 0.7        // never spend >70% of remaining time
	const panicThreshMs = 1000 // below this we live off the increment
	const panicFrac = 0.90     // use 90% of inc in panic

	rem := remainingMs
	inc := incrementMs

	var moveTime int
	if inc > 0 {
		if rem < panicThreshMs {
			moveTime = int(float64(inc) * panicFrac)
		} else {
			moveTime = rem/movesLeft + inc
		}
	} else {
		moveTime = rem / 40
	}

	moveTime = min(moveTime, int(float64(rem)*maxFrac), rem-overheadMs)
	moveTime = max(moveTime, minMoveMs)
	return time.Duration(moveTime) * time.Millisecond
}

func estimateMovesRemaining(fullmoveNumber int) int {
	// Long horizon in the opening, shorter as the game drags on
	return clamp(45-fullmoveNumber/2, 20, 45)
}
