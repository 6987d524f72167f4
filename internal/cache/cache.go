package cache

import (
	"sync"

	"github.com/OCAP2/skirmish/internal/unit"
)

// UnitCache maps live units to the journal IDs assigned when they were
// placed, so action and elimination events can name their actors without a
// storage round trip. Units are keyed by identity.
type UnitCache struct {
	m   sync.Mutex
	ids map[unit.Unit]uint
}

func NewUnitCache() *UnitCache {
	return &UnitCache{ids: make(map[unit.Unit]uint)}
}

func (c *UnitCache) Add(u unit.Unit, id uint) {
	c.m.Lock()
	defer c.m.Unlock()
	c.ids[u] = id
}

// ID returns the journal ID of u.
func (c *UnitCache) ID(u unit.Unit) (uint, bool) {
	if u == nil {
		return 0, false
	}
	c.m.Lock()
	defer c.m.Unlock()
	id, ok := c.ids[u]
	return id, ok
}

// IDRef is ID as a pointer, nil when u is unknown.
func (c *UnitCache) IDRef(u unit.Unit) *uint {
	id, ok := c.ID(u)
	if !ok {
		return nil
	}
	return &id
}

// Remove forgets u, typically after it has been eliminated.
func (c *UnitCache) Remove(u unit.Unit) {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.ids, u)
}

func (c *UnitCache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.ids)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  uint
}

func (c *SafeCounter) Value() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

// Next increments the counter and returns the new value.
func (c *SafeCounter) Next() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v++
	return c.v
}
