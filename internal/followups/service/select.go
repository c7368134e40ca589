package service

import (
	"time"

	"admissions_crm_backend/internal/followups/repository"
)

// SelectNext picks the single follow-up to surface for a lead out of its
// occurrences intersected with the reporting window [windowStart, windowEnd].
//
// Priority order:
//  1. earliest pending occurrence dated today or later
//  2. earliest pending occurrence regardless of date (overdue)
//  3. earliest occurrence in the window even if already done
//
// Returns nil when no occurrence falls inside the window. A bare
// "earliest in window" pick would surface a completed follow-up ahead of a
// pending one, and a bare "earliest pending" pick would hide overdue items
// once a future one exists, so the tiers are load-bearing.
func SelectNext(occurrences []repository.FollowUp, windowStart, windowEnd, today time.Time) *repository.FollowUp {
	var inWindow []repository.FollowUp
	for _, f := range occurrences {
		if f.Date.Before(windowStart) || f.Date.After(windowEnd) {
			continue
		}
		inWindow = append(inWindow, f)
	}
	if len(inWindow) == 0 {
		return nil
	}

	if next := earliest(inWindow, func(f repository.FollowUp) bool {
		return f.Status != repository.StatusDone && !f.Date.Before(today)
	}); next != nil {
		return next
	}

	if next := earliest(inWindow, func(f repository.FollowUp) bool {
		return f.Status != repository.StatusDone
	}); next != nil {
		return next
	}

	return earliest(inWindow, func(repository.FollowUp) bool { return true })
}

func earliest(occurrences []repository.FollowUp, match func(repository.FollowUp) bool) *repository.FollowUp {
	var best *repository.FollowUp
	for i := range occurrences {
		f := &occurrences[i]
		if !match(*f) {
			continue
		}
		if best == nil || f.Date.Before(best.Date) {
			best = f
		}
	}
	return best
}
