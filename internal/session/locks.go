package session

import "sync"

// lobbyLocks hands out one mutex per lobby so every logical operation on a
// lobby is serialized while unrelated lobbies never block each other.
type lobbyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLobbyLocks() *lobbyLocks {
	return &lobbyLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *lobbyLocks) get(lobbyID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[lobbyID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[lobbyID] = m
	}
	return m
}

// forget drops the mutex entry after its lobby is cascade-deleted. Holders of
// the old pointer finish normally; a recreated lobby gets a fresh mutex.
func (l *lobbyLocks) forget(lobbyID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, lobbyID)
}
