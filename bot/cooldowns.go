package bot

import (
	"sync"
	"time"

	"mew/models"
)

type cooldownKey struct {
	userID int64
	kind   models.TimerKind
}

// cooldowns holds the pending in-memory cooldown pings. A new command for
// the same user and timer replaces the pending ping.
type cooldowns struct {
	mu     sync.Mutex
	timers map[cooldownKey]*time.Timer
	closed bool
}

func newCooldowns() *cooldowns {
	return &cooldowns{timers: make(map[cooldownKey]*time.Timer)}
}

func (c *cooldowns) start(key cooldownKey, d time.Duration, fire func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if prev := c.timers[key]; prev != nil {
		prev.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		c.mu.Lock()
		if c.timers[key] == t {
			delete(c.timers, key)
		}
		c.mu.Unlock()
		fire()
	})
	c.timers[key] = t
}

func (c *cooldowns) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *cooldowns) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for key, t := range c.timers {
		t.Stop()
		delete(c.timers, key)
	}
}
