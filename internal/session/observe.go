package session

import "travgram/internal/models"

// Snapshot is the observable state of a Manager.
type Snapshot struct {
	State State
	User  *models.User
	Trips []models.Trip
}

// Subscribe returns a channel that receives the current snapshot and then one
// after every change. A slow reader only sees the latest snapshot. Call the
// returned func to stop receiving; it closes the channel.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan Snapshot, 1)
	m.subs[id] = ch
	ch <- m.snapshotLocked()

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	s := Snapshot{State: m.state, Trips: cloneTrips(m.trips)}
	if m.current != nil {
		u := m.current.Clone()
		s.User = &u
	}
	return s
}

func (m *Manager) publishLocked() {
	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- m.snapshotLocked()
	}
}
