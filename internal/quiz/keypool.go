package quiz

import "sync"

// Credential is one API key together with its slot in the pool.
type Credential struct {
	Index int
	Key   string
}

// KeyPool is a round-robin credential selector with per-slot health flags.
// The set of keys is fixed at construction; only health flags change.
// When every slot is unhealthy the pool resets all flags before selecting.
type KeyPool struct {
	mu      sync.Mutex
	keys    []string
	healthy []bool
	cursor  int
}

// NewKeyPool copies keys into a fresh pool with every slot healthy.
func NewKeyPool(keys []string) *KeyPool {
	p := &KeyPool{
		keys:    append([]string(nil), keys...),
		healthy: make([]bool, len(keys)),
		cursor:  len(keys) - 1,
	}
	for i := range p.healthy {
		p.healthy[i] = true
	}
	return p
}

// Size returns the number of configured credentials.
func (p *KeyPool) Size() int {
	return len(p.keys)
}

// Next advances the cursor to the next healthy slot. It returns false only for an
// empty pool.
func (p *KeyPool) Next() (Credential, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.keys)
	if n == 0 {
		return Credential{Index: -1}, false
	}

	if !anyTrue(p.healthy) {
		for i := range p.healthy {
			p.healthy[i] = true
		}
	}

	for i := 0; i < n; i++ {
		p.cursor = (p.cursor + 1) % n
		if p.healthy[p.cursor] {
			break
		}
	}
	return Credential{Index: p.cursor, Key: p.keys[p.cursor]}, true
}

// MarkUnhealthy flags a slot as rejected by the upstream. Out-of-range indexes are ignored.
func (p *KeyPool) MarkUnhealthy(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.healthy) {
		return
	}
	p.healthy[index] = false
}

// Health returns a copy of the health flags.
func (p *KeyPool) Health() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.healthy...)
}

func anyTrue(flags []bool) bool {
	for _, f := range flags {
		if f {
			return true
		}
	}
	return false
}
