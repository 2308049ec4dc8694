package pool

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Reservoir is the state of one resource in a pool
type Reservoir struct {
	Stock    float64
	Capacity float64 // 0 = unbounded
	Regen    float64 // units per second
}

// MemoryPool is an in-memory ResourcePool. Each Request/Refund is atomic;
// resources that were never defined are never granted.
type MemoryPool struct {
	mu         sync.Mutex
	reservoirs map[string]*Reservoir
}

// NewMemoryPool creates an empty pool
func NewMemoryPool() *MemoryPool {
	return &MemoryPool{reservoirs: make(map[string]*Reservoir)}
}

// Define adds or replaces a resource reservoir
func (p *MemoryPool) Define(resource string, r Reservoir) error {
	if resource == "" {
		return fmt.Errorf("resource name cannot be empty")
	}
	if r.Stock < 0 || r.Capacity < 0 || r.Regen < 0 {
		return fmt.Errorf("reservoir %s: stock, capacity and regen cannot be negative", resource)
	}
	if r.Capacity > 0 && r.Stock > r.Capacity {
		return fmt.Errorf("reservoir %s: stock %g exceeds capacity %g", resource, r.Stock, r.Capacity)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	copied := r
	p.reservoirs[resource] = &copied
	return nil
}

// Request withdraws up to amount and returns what was granted
func (p *MemoryPool) Request(resource string, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	r, ok := p.reservoirs[resource]
	if !ok {
		return 0
	}
	granted := amount
	if r.Stock < granted {
		granted = r.Stock
	}
	r.Stock -= granted
	return granted
}

// Refund returns a previous withdrawal. Refunds are never capped so nothing
// that was taken is lost.
func (p *MemoryPool) Refund(resource string, amount float64) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	r, ok := p.reservoirs[resource]
	if !ok {
		r = &Reservoir{}
		p.reservoirs[resource] = r
	}
	r.Stock += amount
}

// Advance regenerates every reservoir by elapsed time, up to its capacity
func (p *MemoryPool) Advance(elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, r := range p.reservoirs {
		if r.Regen <= 0 {
			continue
		}
		r.Stock += r.Regen * elapsed.Seconds()
		if r.Capacity > 0 && r.Stock > r.Capacity {
			r.Stock = r.Capacity
		}
	}
}

// Stock returns the current stock of a resource
func (p *MemoryPool) Stock(resource string) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.reservoirs[resource]; ok {
		return r.Stock
	}
	return 0
}

// Resources returns the defined resource names in lexical order
func (p *MemoryPool) Resources() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.reservoirs))
	for name := range p.reservoirs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
