package store

// Subscribe registers for change notifications. Delivery never blocks the
// writer: when the channel buffer is full the notification is dropped.
// The returned function unsubscribes and closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Change, buffer)

	s.subMu.Lock()
	if s.subscribers == nil {
		s.subscribers = make(map[int]chan Change)
	}
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// publish fans a change out to every subscriber
func (s *Store) publish(change Change) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- change:
		default:
		}
	}
}
