package panel

// Listener observes a panel. It is called synchronously on the panel's
// goroutine for every published (state, progress) pair.
type Listener func(p *Controller, state State, progress float64)

// Subscription identifies a registered Listener.
type Subscription struct {
	id uint64
}

type subscriber struct {
	id      uint64
	fn      Listener
	removed bool
}

// listeners is an ordered subscription list that tolerates removal while a
// notification is iterating over a snapshot of it.
type listeners struct {
	nextID uint64
	subs   []*subscriber
}

func (l *listeners) add(fn Listener) Subscription {
	if fn == nil {
		return Subscription{}
	}
	l.nextID++
	l.subs = append(l.subs, &subscriber{id: l.nextID, fn: fn})
	return Subscription{id: l.nextID}
}

func (l *listeners) remove(s Subscription) bool {
	for i, sub := range l.subs {
		if sub.id == s.id {
			sub.removed = true
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return true
		}
	}
	return false
}

func (l *listeners) len() int {
	return len(l.subs)
}

// notify calls every listener registered when the round started, skipping
// any removed before its turn.
func (l *listeners) notify(p *Controller, state State, progress float64) {
	snapshot := make([]*subscriber, len(l.subs))
	copy(snapshot, l.subs)
	for _, sub := range snapshot {
		if sub.removed {
			continue
		}
		safeCall(func() { sub.fn(p, state, progress) })
	}
}

// safeCall calls fn with panic recovery. One listener failing shouldn't block others.
func safeCall(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
