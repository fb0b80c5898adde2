// ABOUTME: Tests for the slot pool admission controller
// ABOUTME: Covers the global ceiling, per-owner sub-limit, and idempotent release

package services

import (
	"fmt"
	"sync"
	"testing"
)

func TestSlotPool_GlobalCeiling(t *testing.T) {
	pool := NewSlotPool(3, 0)

	var slots []*Slot
	for i := 0; i < 3; i++ {
		slot, ok := pool.Acquire(fmt.Sprintf("owner-%d", i))
		if !ok {
			t.Fatalf("acquire %d should succeed", i)
		}
		slots = append(slots, slot)
	}

	if _, ok := pool.Acquire("owner-extra"); ok {
		t.Error("acquire beyond capacity should fail")
	}
	if got := pool.Live(); got != 3 {
		t.Errorf("Live() = %d, want 3", got)
	}

	slots[0].Release()
	if _, ok := pool.Acquire("owner-extra"); !ok {
		t.Error("acquire after release should succeed")
	}
}

func TestSlotPool_NeverBlocks(t *testing.T) {
	pool := NewSlotPool(1, 0)

	if _, ok := pool.Acquire("a"); !ok {
		t.Fatal("first acquire should succeed")
	}

	// A full pool must reject immediately, not queue.
	done := make(chan bool, 1)
	go func() {
		_, ok := pool.Acquire("b")
		done <- ok
	}()

	if ok := <-done; ok {
		t.Error("acquire on full pool should fail")
	}
}

func TestSlotPool_PerOwnerSubLimit(t *testing.T) {
	pool := NewSlotPool(10, 2)

	s1, ok := pool.Acquire("same")
	if !ok {
		t.Fatal("first acquire should succeed")
	}
	if _, ok := pool.Acquire("same"); !ok {
		t.Fatal("second acquire should succeed")
	}
	if _, ok := pool.Acquire("same"); ok {
		t.Error("third acquire for same owner should fail at sub-limit 2")
	}
	if _, ok := pool.Acquire("other"); !ok {
		t.Error("different owner should still be admitted")
	}

	// Sub-limit rejection must not leak a global slot.
	if got := pool.Live(); got != 3 {
		t.Errorf("Live() = %d, want 3", got)
	}

	s1.Release()
	if _, ok := pool.Acquire("same"); !ok {
		t.Error("owner should be admitted again after release")
	}
}

func TestSlotPool_IdempotentRelease(t *testing.T) {
	pool := NewSlotPool(2, 0)

	slot, ok := pool.Acquire("a")
	if !ok {
		t.Fatal("acquire should succeed")
	}

	slot.Release()
	slot.Release()
	slot.Release()

	if got := pool.Live(); got != 0 {
		t.Errorf("Live() = %d after repeated release, want 0", got)
	}

	// Repeated release must not inflate capacity.
	for i := 0; i < 2; i++ {
		if _, ok := pool.Acquire("b"); !ok {
			t.Fatalf("acquire %d should succeed", i)
		}
	}
	if _, ok := pool.Acquire("b"); ok {
		t.Error("pool should still be bounded by original capacity")
	}
}

func TestSlotPool_EmptyOwnerMapsToAnonymous(t *testing.T) {
	pool := NewSlotPool(10, 1)

	if _, ok := pool.Acquire(""); !ok {
		t.Fatal("acquire should succeed")
	}
	if _, ok := pool.Acquire(AnonymousOwner); ok {
		t.Error("empty owner should share the anonymous sub-limit")
	}
}

func TestSlotPool_ConcurrentBurst(t *testing.T) {
	const capacity = 28
	const callers = 30

	pool := NewSlotPool(capacity, 0)

	var wg sync.WaitGroup
	results := make(chan bool, callers)

	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, ok := pool.Acquire(fmt.Sprintf("owner-%d", i))
			results <- ok
		}(i)
	}
	close(start)
	wg.Wait()
	close(results)

	admitted, rejected := 0, 0
	for ok := range results {
		if ok {
			admitted++
		} else {
			rejected++
		}
	}

	if admitted != capacity {
		t.Errorf("admitted = %d, want %d", admitted, capacity)
	}
	if rejected != callers-capacity {
		t.Errorf("rejected = %d, want %d", rejected, callers-capacity)
	}
}

func TestSlotPool_NoLeakUnderChurn(t *testing.T) {
	pool := NewSlotPool(4, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if slot, ok := pool.Acquire(fmt.Sprintf("owner-%d", i%7)); ok {
					slot.Release()
				}
			}
		}(i)
	}
	wg.Wait()

	if got := pool.Live(); got != 0 {
		t.Errorf("Live() = %d after all releases, want 0", got)
	}
	for i := 0; i < 4; i++ {
		if _, ok := pool.Acquire("final"); !ok {
			t.Fatalf("acquire %d should succeed on a drained pool", i)
		}
	}
}

func TestSlot_ID(t *testing.T) {
	pool := NewSlotPool(2, 0)

	a, _ := pool.Acquire("x")
	b, _ := pool.Acquire("y")

	if a.ID() == "" || b.ID() == "" {
		t.Error("slot IDs should be non-empty")
	}
	if a.ID() == b.ID() {
		t.Error("slot IDs should be unique")
	}
}
