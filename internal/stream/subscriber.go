package stream

import (
	"sync"

	"github.com/google/uuid"
)

const sendBufferSize = 16

// Subscriber is one client connection's view of the hub. Snapshots arrive
// on C; a slow consumer drops the oldest queued snapshot rather than
// blocking the hub, which is safe because every snapshot is a full
// replacement of the previous one.
type Subscriber struct {
	ID      string
	ownerID string
	queries []Query

	ch     chan Snapshot
	mu     sync.Mutex
	closed bool
}

func newSubscriber(ownerID string, queries []Query) *Subscriber {
	return &Subscriber{
		ID:      uuid.NewString(),
		ownerID: ownerID,
		queries: queries,
		ch:      make(chan Snapshot, sendBufferSize),
	}
}

// C is the snapshot delivery channel. It is closed on Unsubscribe.
func (s *Subscriber) C() <-chan Snapshot {
	return s.ch
}

func (s *Subscriber) deliver(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- snap:
			return
		default:
			// Full buffer: discard the oldest snapshot, it is stale anyway.
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

func (s *Subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
