package app

import (
	"math"
	"time"

	"interview-prep-service/internal/domain"
)

// Progress tracks per-question viewing and mastery status under "question-progress".
type Progress struct {
	state *KeyedState[domain.ProgressEntry]
	now   func() time.Time
}

func NewProgress(r *Registry) *Progress {
	return &Progress{
		state: Keyed[domain.ProgressEntry](r, domain.StoreProgress),
		now:   r.now,
	}
}

func defaultProgress() domain.ProgressEntry {
	return domain.ProgressEntry{Status: domain.StatusNotSeen}
}

// Get returns the stored entry or the not-seen default; it never stores anything.
func (p *Progress) Get(id string) domain.ProgressEntry {
	if entry, ok := p.state.Get(id); ok {
		return entry
	}
	return defaultProgress()
}

// MarkAsSeen promotes not-seen to seen, keeps any other status, and counts the view.
func (p *Progress) MarkAsSeen(id string) domain.ProgressEntry {
	return p.state.Update(id, "seen", func(current domain.ProgressEntry, exists bool) domain.ProgressEntry {
		if !exists {
			current = defaultProgress()
		}
		if current.Status == domain.StatusNotSeen || current.Status == "" {
			current.Status = domain.StatusSeen
		}
		current.LastViewed = domain.Millis(p.now())
		current.ViewCount++
		return current
	})
}

// MarkAsMastered sets mastered regardless of the previous status.
func (p *Progress) MarkAsMastered(id string) domain.ProgressEntry {
	return p.state.Update(id, "mastered", func(current domain.ProgressEntry, exists bool) domain.ProgressEntry {
		if !exists {
			current = defaultProgress()
		}
		current.Status = domain.StatusMastered
		current.LastViewed = domain.Millis(p.now())
		return current
	})
}

// MarkAsNotMastered demotes to seen; it never reverts to not-seen.
func (p *Progress) MarkAsNotMastered(id string) domain.ProgressEntry {
	return p.state.Update(id, "not-mastered", func(current domain.ProgressEntry, exists bool) domain.ProgressEntry {
		if !exists {
			current = defaultProgress()
		}
		current.Status = domain.StatusSeen
		current.LastViewed = domain.Millis(p.now())
		return current
	})
}

// Reset forgets one question.
func (p *Progress) Reset(id string) {
	p.state.Delete(id, "reset")
}

// ResetAll forgets every question.
func (p *Progress) ResetAll() {
	p.state.Clear("reset-all")
}

// Entries returns stored progress in insertion order.
func (p *Progress) Entries() []Entry[domain.ProgressEntry] {
	return p.state.Entries()
}

// Stats counts stored entries; questions never viewed have no entry and are not in Total.
func (p *Progress) Stats() domain.ProgressStats {
	var stats domain.ProgressStats
	for _, e := range p.state.Entries() {
		stats.Total++
		switch e.Value.Status {
		case domain.StatusSeen:
			stats.Seen++
		case domain.StatusMastered:
			stats.Mastered++
		}
	}
	return stats
}

// ProgressPercentage is the share of seen or mastered questions out of totalQuestions.
func (p *Progress) ProgressPercentage(totalQuestions int) int {
	stats := p.Stats()
	return percentage(stats.Seen+stats.Mastered, totalQuestions)
}

// MasteryPercentage is the share of mastered questions out of totalQuestions.
func (p *Progress) MasteryPercentage(totalQuestions int) int {
	return percentage(p.Stats().Mastered, totalQuestions)
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(count) / float64(total)))
}
