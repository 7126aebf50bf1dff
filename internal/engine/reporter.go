package engine

import (
	"log/slog"
	"sync"

	"golang.org/x/time/rate"
)

// reporter logs internal contradictions once per message. Planning
// goroutines share it, hence the lock.
type reporter struct {
	mu   sync.Mutex
	once map[string]*rate.Sometimes
	hits map[string]int
}

func newReporter() *reporter {
	return &reporter{
		once: make(map[string]*rate.Sometimes),
		hits: make(map[string]int),
	}
}

func (r *reporter) report(msg string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits[msg]++
	s, ok := r.once[msg]
	if !ok {
		s = &rate.Sometimes{First: 1}
		r.once[msg] = s
	}
	s.Do(func() { slog.Warn(msg, args...) })
}

// count returns how many times msg was reported, logged or not.
func (r *reporter) count(msg string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits[msg]
}
