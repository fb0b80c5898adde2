// ABOUTME: Admission controller bounding concurrent upstream LLM calls
// ABOUTME: Queue-free slot pool with a global ceiling and per-owner sub-limit

package services

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// AnonymousOwner is the slot owner used for callers without any identity.
const AnonymousOwner = "anon"

// Slot is exclusive ownership of one unit of upstream concurrency.
// Release is safe to call more than once; only the first call returns the
// slot to the pool.
type Slot struct {
	id    string
	owner string
	pool  *SlotPool
	once  sync.Once
}

// ID returns the slot's unique identifier.
func (s *Slot) ID() string { return s.id }

// Release returns the slot to the pool. Idempotent.
func (s *Slot) Release() {
	s.once.Do(func() {
		s.pool.release(s.owner)
	})
}

// SlotPool bounds in-flight upstream calls. Acquire never queues: when the
// pool is full (or the owner is at its sub-limit) it fails immediately and
// the caller is told to retry later. The critical section is O(1) and does
// no I/O.
type SlotPool struct {
	sem      *semaphore.Weighted
	capacity int
	perOwner int // 0 disables the per-owner sub-limit

	mu     sync.Mutex
	owners map[string]int
	live   int
}

// NewSlotPool creates a pool with the given global ceiling and per-owner
// sub-limit. perOwner <= 0 disables the sub-limit.
func NewSlotPool(capacity, perOwner int) *SlotPool {
	if capacity < 1 {
		capacity = 1
	}
	return &SlotPool{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
		perOwner: perOwner,
		owners:   make(map[string]int),
	}
}

// Acquire attempts to claim a slot for the given owner. Returns (nil, false)
// without blocking when the global ceiling or the owner's sub-limit is
// reached.
func (p *SlotPool) Acquire(owner string) (*Slot, bool) {
	if owner == "" {
		owner = AnonymousOwner
	}

	if !p.sem.TryAcquire(1) {
		return nil, false
	}

	p.mu.Lock()
	if p.perOwner > 0 && p.owners[owner] >= p.perOwner {
		p.mu.Unlock()
		p.sem.Release(1)
		return nil, false
	}
	p.owners[owner]++
	p.live++
	p.mu.Unlock()

	return &Slot{id: uuid.NewString(), owner: owner, pool: p}, true
}

// Live returns the number of currently held slots.
func (p *SlotPool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// Capacity returns the configured global ceiling.
func (p *SlotPool) Capacity() int { return p.capacity }

func (p *SlotPool) release(owner string) {
	p.mu.Lock()
	if n := p.owners[owner]; n <= 1 {
		delete(p.owners, owner)
	} else {
		p.owners[owner] = n - 1
	}
	p.live--
	p.mu.Unlock()
	p.sem.Release(1)
}
