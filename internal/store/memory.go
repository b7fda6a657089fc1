package store

import (
	"sort"
	"sync"
	"time"

	"partyround/backend/internal/models"
)

// MemoryStore keeps all records in process memory. It is the default backend:
// the coordinator is explicitly ephemeral, so losing state on restart is fine.
// A single mutex guards the maps; every accessor hands out copies so callers
// never alias the stored structs.
type MemoryStore struct {
	mu      sync.RWMutex
	lobbies map[string]models.Lobby
	names   map[string]string // lobby NameKey -> lobby ID
	players map[string]models.Player
	rounds  map[string]models.Round
	lives   map[string]models.LifeState // roundID + "/" + playerID
	scores  map[string]models.Score
}

// NewMemoryStore initializes an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lobbies: make(map[string]models.Lobby),
		names:   make(map[string]string),
		players: make(map[string]models.Player),
		rounds:  make(map[string]models.Round),
		lives:   make(map[string]models.LifeState),
		scores:  make(map[string]models.Score),
	}
}

func lifeKey(roundID, playerID string) string { return roundID + "/" + playerID }

func (s *MemoryStore) CreateLobby(l *models.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.names[l.NameKey]; taken {
		return ErrDuplicate
	}
	s.lobbies[l.ID] = *l
	s.names[l.NameKey] = l.ID
	return nil
}

func (s *MemoryStore) GetLobby(id string) (*models.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lobbies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (s *MemoryStore) FindLobbyByName(nameKey string) (*models.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.names[nameKey]
	if !ok {
		return nil, ErrNotFound
	}
	l := s.lobbies[id]
	return &l, nil
}

func (s *MemoryStore) ListLobbies() ([]models.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Lobby, 0, len(s.lobbies))
	for _, l := range s.lobbies {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateLobby(l *models.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lobbies[l.ID]; !ok {
		return ErrNotFound
	}
	s.lobbies[l.ID] = *l
	return nil
}

func (s *MemoryStore) DeleteLobby(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lobbies[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.names, l.NameKey)
	delete(s.lobbies, id)
	return nil
}

func (s *MemoryStore) CreatePlayer(p *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = *p
	return nil
}

func (s *MemoryStore) GetPlayer(id string) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) FindPlayerByName(lobbyID, nameKey string) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var orphan *models.Player
	for _, p := range s.players {
		if p.NameKey != nameKey {
			continue
		}
		if p.LobbyID != nil && *p.LobbyID == lobbyID {
			found := p
			return &found, nil
		}
		if p.LobbyID == nil && p.LastLobbyID == lobbyID {
			found := p
			orphan = &found
		}
	}
	if orphan != nil {
		return orphan, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) PlayersInLobby(lobbyID string) ([]models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Player
	for _, p := range s.players {
		if p.LobbyID != nil && *p.LobbyID == lobbyID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (s *MemoryStore) CountActivePlayers(lobbyID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.players {
		if p.IsActive && p.LobbyID != nil && *p.LobbyID == lobbyID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) UpdatePlayer(p *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[p.ID]; !ok {
		return ErrNotFound
	}
	s.players[p.ID] = *p
	return nil
}

func (s *MemoryStore) CreateRound(r *models.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[r.ID] = *r
	return nil
}

func (s *MemoryStore) GetRound(id string) (*models.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rounds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) CurrentRound(lobbyID string) (*models.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var current *models.Round
	for _, r := range s.rounds {
		if r.LobbyID != lobbyID {
			continue
		}
		if current == nil || r.Number > current.Number {
			found := r
			current = &found
		}
	}
	if current == nil {
		return nil, ErrNotFound
	}
	return current, nil
}

func (s *MemoryStore) UpdateRound(r *models.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rounds[r.ID]; !ok {
		return ErrNotFound
	}
	s.rounds[r.ID] = *r
	return nil
}

func (s *MemoryStore) DeleteRoundsInLobby(lobbyID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, r := range s.rounds {
		if r.LobbyID != lobbyID {
			continue
		}
		for key, ls := range s.lives {
			if ls.RoundID == id {
				delete(s.lives, key)
			}
		}
		delete(s.rounds, id)
		removed++
	}
	return removed, nil
}

func (s *MemoryStore) CreateLifeState(ls *models.LifeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lives[lifeKey(ls.RoundID, ls.PlayerID)] = *ls
	return nil
}

func (s *MemoryStore) GetLifeState(roundID, playerID string) (*models.LifeState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ls, ok := s.lives[lifeKey(roundID, playerID)]
	if !ok {
		return nil, ErrNotFound
	}
	return &ls, nil
}

func (s *MemoryStore) LivesInRound(roundID string) ([]models.LifeState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.LifeState
	for _, ls := range s.lives {
		if ls.RoundID == roundID {
			out = append(out, ls)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (s *MemoryStore) UpdateLifeState(ls *models.LifeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := lifeKey(ls.RoundID, ls.PlayerID)
	if _, ok := s.lives[key]; !ok {
		return ErrNotFound
	}
	s.lives[key] = *ls
	return nil
}

func (s *MemoryStore) EnsureScore(playerID string) (*models.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scores[playerID]
	if !ok {
		sc = models.Score{PlayerID: playerID, PointsTotal: 0, UpdatedAt: time.Now()}
		s.scores[playerID] = sc
	}
	return &sc, nil
}

func (s *MemoryStore) AddPoints(playerID string, delta int) (*models.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scores[playerID]
	if !ok {
		sc = models.Score{PlayerID: playerID}
	}
	sc.PointsTotal += delta
	if sc.PointsTotal < 0 {
		sc.PointsTotal = 0
	}
	sc.UpdatedAt = time.Now()
	s.scores[playerID] = sc
	return &sc, nil
}

func (s *MemoryStore) ScoresForPlayers(playerIDs []string) ([]models.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Score, 0, len(playerIDs))
	for _, id := range playerIDs {
		if sc, ok := s.scores[id]; ok {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteScores(playerIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range playerIDs {
		delete(s.scores, id)
	}
	return nil
}
