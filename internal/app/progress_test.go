package app

import (
	"testing"
	"time"

	"interview-prep-service/internal/domain"
)

func TestProgressTransitions(t *testing.T) {
	clock := newFakeClock(1_000)
	progress := NewProgress(newTestRegistry(newMapStorage(), clock))

	if got := progress.Get("1"); got.Status != domain.StatusNotSeen || got.ViewCount != 0 {
		t.Fatalf("expected not-seen default, got %+v", got)
	}
	if len(progress.Entries()) != 0 {
		t.Fatalf("Get must not create entries")
	}

	entry := progress.MarkAsSeen("1")
	if entry.Status != domain.StatusSeen || entry.ViewCount != 1 || entry.LastViewed != 1_000 {
		t.Fatalf("unexpected entry after first view %+v", entry)
	}

	clock.Advance(time.Second)
	progress.MarkAsMastered("1")
	entry = progress.MarkAsSeen("1")
	if entry.Status != domain.StatusMastered {
		t.Fatalf("viewing a mastered question must keep mastered, got %s", entry.Status)
	}
	if entry.ViewCount != 2 || entry.LastViewed != 2_000 {
		t.Fatalf("unexpected counters %+v", entry)
	}

	entry = progress.MarkAsNotMastered("1")
	if entry.Status != domain.StatusSeen || entry.ViewCount != 2 {
		t.Fatalf("expected demotion to seen, got %+v", entry)
	}
}

func TestProgressMarkAsMasteredWithoutViewing(t *testing.T) {
	progress := NewProgress(newTestRegistry(nil, newFakeClock(0)))

	entry := progress.MarkAsMastered("3")
	if entry.Status != domain.StatusMastered || entry.ViewCount != 0 {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry := progress.MarkAsNotMastered("8"); entry.Status != domain.StatusSeen {
		t.Fatalf("not-mastered must land on seen, got %+v", entry)
	}
}

func TestProgressStatsAndPercentages(t *testing.T) {
	progress := NewProgress(newTestRegistry(nil, newFakeClock(0)))
	progress.MarkAsSeen("1")
	progress.MarkAsSeen("2")
	progress.MarkAsMastered("3")

	stats := progress.Stats()
	if stats.Total != 3 || stats.Seen != 2 || stats.Mastered != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if got := progress.ProgressPercentage(8); got != 38 {
		t.Fatalf("expected 38%% progress, got %d", got)
	}
	if got := progress.MasteryPercentage(3); got != 33 {
		t.Fatalf("expected 33%% mastery, got %d", got)
	}
	if got := progress.ProgressPercentage(0); got != 0 {
		t.Fatalf("expected 0 for empty collection, got %d", got)
	}
}

func TestProgressReset(t *testing.T) {
	storage := newMapStorage()
	progress := NewProgress(newTestRegistry(storage, newFakeClock(0)))
	progress.MarkAsSeen("1")
	progress.MarkAsSeen("2")

	progress.Reset("1")
	if got := progress.Get("1"); got.Status != domain.StatusNotSeen {
		t.Fatalf("expected reset entry to read as default, got %+v", got)
	}
	progress.Reset("unknown")

	progress.ResetAll()
	if stats := progress.Stats(); stats.Total != 0 {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
	if got := storage.raw(domain.StoreProgress); got != `{}` {
		t.Fatalf("expected empty persisted object, got %s", got)
	}
}

func TestProgressPersistedShape(t *testing.T) {
	storage := newMapStorage()
	progress := NewProgress(newTestRegistry(storage, newFakeClock(1_700_000_000_000)))
	progress.MarkAsSeen("12")

	want := `{"12":{"status":"seen","lastViewed":1700000000000,"viewCount":1}}`
	if got := storage.raw(domain.StoreProgress); got != want {
		t.Fatalf("unexpected payload\n got: %s\nwant: %s", got, want)
	}
}
