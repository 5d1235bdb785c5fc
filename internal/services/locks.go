package services

import "sync"

// gameLocks serializes load, validate and save for each game id. An entry
// lives only while some caller holds or waits for it.
type gameLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu      sync.Mutex
	holders int
}

func newGameLocks() *gameLocks {
	return &gameLocks{locks: make(map[string]*lockEntry)}
}

// lock blocks until the caller owns gameID and returns the release func.
func (l *gameLocks) lock(gameID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[gameID]
	if !ok {
		entry = &lockEntry{}
		l.locks[gameID] = entry
	}
	entry.holders++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.holders--
		if entry.holders == 0 {
			delete(l.locks, gameID)
		}
		l.mu.Unlock()
	}
}

func (l *gameLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
