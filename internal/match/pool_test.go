package match

import (
	"errors"
	"slices"
	"testing"
	"time"

	"TranscriptLinker/internal/domain"
)

func rec(id string) domain.Recording {
	return domain.Recording{ID: id, Start: time.Date(2025, time.July, 2, 10, 0, 0, 0, time.UTC)}
}

func TestPoolRemainingPreservesOrder(t *testing.T) {
	t.Parallel()

	pool := NewPool([]domain.Recording{rec("r2"), rec("r1"), rec("r3")})

	var ids []string
	for r := range pool.Remaining() {
		ids = append(ids, r.ID)
	}
	if !slices.Equal(ids, []string{"r2", "r1", "r3"}) {
		t.Fatalf("unexpected order: %v", ids)
	}
}

func TestPoolConsumeRemoves(t *testing.T) {
	t.Parallel()

	pool := NewPool([]domain.Recording{rec("r1"), rec("r2")})

	if err := pool.Consume("r1"); err != nil {
		t.Fatalf("consume r1: %v", err)
	}
	if pool.Len() != 1 {
		t.Fatalf("expected 1 remaining, got %d", pool.Len())
	}
	for r := range pool.Remaining() {
		if r.ID == "r1" {
			t.Fatalf("consumed recording still yielded")
		}
	}
}

func TestPoolConsumeTwiceFails(t *testing.T) {
	t.Parallel()

	pool := NewPool([]domain.Recording{rec("r1")})

	if err := pool.Consume("r1"); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if err := pool.Consume("r1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second consume, got %v", err)
	}
}

func TestPoolConsumeUnknownFails(t *testing.T) {
	t.Parallel()

	pool := NewPool([]domain.Recording{rec("r1")})

	if err := pool.Consume("ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestPoolDropsDuplicateIDs(t *testing.T) {
	t.Parallel()

	pool := NewPool([]domain.Recording{rec("r1"), rec("r1")})
	if pool.Len() != 1 {
		t.Fatalf("expected duplicate id collapsed, got %d", pool.Len())
	}
}

func TestPoolRemainingStopsEarly(t *testing.T) {
	t.Parallel()

	pool := NewPool([]domain.Recording{rec("r1"), rec("r2"), rec("r3")})

	count := 0
	for range pool.Remaining() {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("expected early break after 1 item, got %d", count)
	}
}
