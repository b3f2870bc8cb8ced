package app

import (
	"math"
	"time"

	"interview-prep-service/internal/domain"
)

// Reveals records answer reveal history and timing under "answer-reveal-state".
type Reveals struct {
	state *KeyedState[domain.RevealEntry]
	now   func() time.Time
}

func NewReveals(r *Registry) *Reveals {
	return &Reveals{
		state: Keyed[domain.RevealEntry](r, domain.StoreReveals),
		now:   r.now,
	}
}

// Get returns the stored entry or a hidden, never-revealed default.
func (rv *Reveals) Get(id string) domain.RevealEntry {
	if entry, ok := rv.state.Get(id); ok {
		return entry
	}
	return domain.RevealEntry{}
}

// MarkRevealed shows the answer and counts the reveal. timeToReveal is kept only for the
// first reveal that supplies one; a zero or negative value means "not measured".
func (rv *Reveals) MarkRevealed(id string, timeToReveal time.Duration) domain.RevealEntry {
	return rv.state.Update(id, "revealed", func(current domain.RevealEntry, _ bool) domain.RevealEntry {
		current.Revealed = true
		current.RevealedAt = domain.Millis(rv.now())
		current.RevealCount++
		if current.TimeToReveal == nil && timeToReveal > 0 {
			ms := timeToReveal.Milliseconds()
			current.TimeToReveal = &ms
		}
		return current
	})
}

// MarkHidden hides an already revealed answer; counts and timing are untouched.
func (rv *Reveals) MarkHidden(id string) {
	rv.state.Modify(id, "hidden", func(current domain.RevealEntry) domain.RevealEntry {
		current.Revealed = false
		return current
	})
}

func (rv *Reveals) Reset(id string) {
	rv.state.Delete(id, "reset")
}

// GlobalStats aggregates all entries; the average reveal time is in rounded seconds.
func (rv *Reveals) GlobalStats() domain.RevealStats {
	var (
		stats domain.RevealStats
		sum   int64
		timed int
	)
	for _, e := range rv.state.Entries() {
		stats.TotalReveals += e.Value.RevealCount
		if e.Value.RevealCount > 0 {
			stats.QuestionsRevealed++
		}
		if e.Value.TimeToReveal != nil {
			sum += *e.Value.TimeToReveal
			timed++
		}
	}
	if timed > 0 {
		avg := float64(sum) / float64(timed)
		stats.AvgTimeToReveal = int(math.Round(avg / 1000))
	}
	return stats
}
