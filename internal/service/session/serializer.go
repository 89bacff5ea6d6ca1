package session

import "sync"

// serializer hands out per-key FIFO slots. Callers line up in the order
// they call acquire, which is what guarantees turns for one session
// persist in arrival order; bare mutex acquisition order is not
// guaranteed under contention.
type serializer struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
}

func newSerializer() *serializer {
	return &serializer{tails: make(map[string]chan struct{})}
}

// acquire blocks until every earlier caller for key has released, then
// returns the release func. Release exactly once.
func (s *serializer) acquire(key string) (release func()) {
	self := make(chan struct{})

	s.mu.Lock()
	prev := s.tails[key]
	s.tails[key] = self
	s.mu.Unlock()

	if prev != nil {
		<-prev
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			close(self)

			s.mu.Lock()
			if s.tails[key] == self {
				delete(s.tails, key)
			}
			s.mu.Unlock()
		})
	}
}
