package reqflow

import "sync"

// Publisher exposes a controller's current LifecycleState to any number of
// watchers. There is a single writer (the owning controller); publication
// happens inside the state transition, so a watcher never observes a stale
// or partially applied state through Current.
type Publisher struct {
	mu       sync.Mutex
	current  LifecycleState
	watchers map[int]chan LifecycleState
	nextID   int
}

func newPublisher(initial LifecycleState) *Publisher {
	return &Publisher{
		current:  initial,
		watchers: make(map[int]chan LifecycleState),
	}
}

// Current returns the most recently published state.
func (p *Publisher) Current() LifecycleState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Watch registers a watcher. The channel has a buffer of one and always
// carries the newest state: a slow consumer skips intermediate states rather
// than observing them late. The current state is delivered immediately.
// The returned cancel func unregisters the watcher and closes the channel.
func (p *Publisher) Watch() (<-chan LifecycleState, func()) {
	p.mu.Lock()
	ch := make(chan LifecycleState, 1)
	ch <- p.current
	id := p.nextID
	p.nextID++
	p.watchers[id] = ch
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if c, ok := p.watchers[id]; ok {
			delete(p.watchers, id)
			close(c)
		}
	}
	return ch, cancel
}

// publish records state and notifies watchers, replacing any undelivered
// previous notification.
func (p *Publisher) publish(state LifecycleState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = state
	for _, ch := range p.watchers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}
