package store

import (
	"context"
	"sync"

	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// Snapshot is the complete task list of one owner at one moment. Err is
// set when the backend failed to produce a snapshot; Tasks is nil then.
type Snapshot struct {
	Tasks []*task.Task
	Err   error
}

// Subscription is a cancellable stream of snapshots. The channel holds at
// most one pending snapshot; a newer snapshot replaces an unread one.
type Subscription struct {
	ch        chan Snapshot
	done      chan struct{}
	mu        sync.Mutex
	closed    bool
	delivered bool
	onClose   func()
}

func newSubscription(onClose func()) *Subscription {
	return &Subscription{ch: make(chan Snapshot, 1), done: make(chan struct{}), onClose: onClose}
}

// Done is closed by Unsubscribe.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// C returns the snapshot channel. It is closed after Unsubscribe; an
// unread snapshot is discarded then.
func (s *Subscription) C() <-chan Snapshot {
	return s.ch
}

// Unsubscribe stops delivery and closes the channel. It is safe to call
// more than once.
func (s *Subscription) Unsubscribe() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	select {
	case <-s.ch:
	default:
	}
	close(s.ch)
	close(s.done)
	onClose := s.onClose
	s.mu.Unlock()

	if onClose != nil {
		onClose()
	}
}

// deliver hands snap to the consumer, dropping any unread snapshot.
func (s *Subscription) deliver(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
	s.delivered = true
}

// deliverInitial hands snap to the consumer unless a snapshot was already
// delivered. A publish racing with the initial read is at least as new.
func (s *Subscription) deliverInitial(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.delivered {
		return
	}
	s.ch <- snap
	s.delivered = true
}

// unsubscribeOn ends sub when ctx is done. The goroutine exits on either.
func unsubscribeOn(ctx context.Context, sub *Subscription) {
	go func() {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
		case <-sub.done:
		}
	}()
}

// broker fans snapshots out to in-process subscribers keyed by owner.
type broker struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

func newBroker() *broker {
	return &broker{subs: make(map[string]map[*Subscription]struct{})}
}

func (b *broker) add(owner string) *Subscription {
	var sub *Subscription
	sub = newSubscription(func() { b.remove(owner, sub) })

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[owner] == nil {
		b.subs[owner] = make(map[*Subscription]struct{})
	}
	b.subs[owner][sub] = struct{}{}
	return sub
}

func (b *broker) remove(owner string, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[owner], sub)
	if len(b.subs[owner]) == 0 {
		delete(b.subs, owner)
	}
}

// owners returns every owner with at least one subscriber.
func (b *broker) owners() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.subs))
	for owner := range b.subs {
		out = append(out, owner)
	}
	return out
}

func (b *broker) has(owner string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[owner]) > 0
}

func (b *broker) publish(owner string, snap Snapshot) {
	b.mu.Lock()
	subs := make([]*Subscription, 0, len(b.subs[owner]))
	for sub := range b.subs[owner] {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(Snapshot{Tasks: cloneAll(snap.Tasks), Err: snap.Err})
	}
}

func (b *broker) closeAll() {
	b.mu.Lock()
	var all []*Subscription
	for _, set := range b.subs {
		for sub := range set {
			all = append(all, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range all {
		sub.Unsubscribe()
	}
}

// cloneAll deep-copies tasks so subscribers never share records.
func cloneAll(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
