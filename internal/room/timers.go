package room

import (
	"errors"

	"auction-draft-server/internal/engine"
)

// Exactly one countdown timer may be live per room. Scheduling stops any
// outstanding handle first, and the generation pinned at schedule time makes
// a fire that lost the race to a bid a no-op inside the engine.

func (r *Room) scheduleCountdown() {
	r.stopCountdown()
	gen := r.state.TimerGen
	r.countdownTimer = r.cfg.Clock.AfterFunc(r.cfg.CountdownDelay, func() {
		select {
		case r.inbox <- countdownFired{Gen: gen}:
		case <-r.ctx.Done():
		}
	})
}

func (r *Room) stopCountdown() {
	if r.countdownTimer != nil {
		r.countdownTimer.Stop()
		r.countdownTimer = nil
	}
}

func (r *Room) scheduleCommitRetry() {
	if r.retryTimer != nil {
		r.retryTimer.Stop()
	}
	r.retryTimer = r.cfg.Clock.AfterFunc(r.cfg.CommitRetryDelay, func() {
		select {
		case r.inbox <- commitRetry{}:
		case <-r.ctx.Done():
		}
	})
}

func (r *Room) scheduleSweep() {
	r.sweepTimer = r.cfg.Clock.AfterFunc(r.cfg.HeartbeatTTL/2, func() {
		select {
		case r.inbox <- sweepFired{}:
		case <-r.ctx.Done():
		}
	})
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, engine.ErrNotYourTurn):
		return "NotYourTurn"
	case errors.Is(err, engine.ErrInvalidBid):
		return "InvalidBidAmount"
	case errors.Is(err, engine.ErrOverBudget):
		return "OverBudget"
	case errors.Is(err, engine.ErrNoSelectedPlayer):
		return "NoSelectedPlayer"
	case errors.Is(err, engine.ErrStaleData):
		return "RoomDataStale"
	case errors.Is(err, engine.ErrDraftComplete):
		return "DraftComplete"
	case errors.Is(err, engine.ErrCommitFailed):
		return "CommitFailed"
	case errors.Is(err, engine.ErrUnknownTeam):
		return "UnknownTeam"
	case errors.Is(err, engine.ErrRosterFull):
		return "RosterFull"
	case errors.Is(err, engine.ErrDuplicateOrder):
		return "DataIntegrity"
	default:
		return "Rejected"
	}
}
