package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"partyround/backend/internal/models"
)

func strptr(s string) *string { return &s }

func TestMemoryStoreLobbyDuplicate(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.CreateLobby(&models.Lobby{ID: "l1", Name: "Alpha", NameKey: "alpha"}))
	err := s.CreateLobby(&models.Lobby{ID: "l2", Name: "ALPHA", NameKey: "alpha"})
	require.ErrorIs(t, err, ErrDuplicate)

	// Deleting frees the name.
	require.NoError(t, s.DeleteLobby("l1"))
	require.NoError(t, s.CreateLobby(&models.Lobby{ID: "l3", Name: "Alpha", NameKey: "alpha"}))
}

func TestMemoryStoreListLobbiesOrder(t *testing.T) {
	s := NewMemoryStore()
	base := time.Now()

	require.NoError(t, s.CreateLobby(&models.Lobby{ID: "old", NameKey: "old", CreatedAt: base}))
	require.NoError(t, s.CreateLobby(&models.Lobby{ID: "new", NameKey: "new", CreatedAt: base.Add(time.Second)}))

	lobbies, err := s.ListLobbies()
	require.NoError(t, err)
	require.Equal(t, "new", lobbies[0].ID)
	require.Equal(t, "old", lobbies[1].ID)
}

func TestMemoryStoreCurrentRoundIsHighestNumber(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.CreateRound(&models.Round{ID: "r1", LobbyID: "l1", Number: 1, State: models.RoundStateFinished}))
	require.NoError(t, s.CreateRound(&models.Round{ID: "r2", LobbyID: "l1", Number: 2, State: models.RoundStateRunning}))
	require.NoError(t, s.CreateRound(&models.Round{ID: "r9", LobbyID: "other", Number: 9, State: models.RoundStateRunning}))

	current, err := s.CurrentRound("l1")
	require.NoError(t, err)
	require.Equal(t, "r2", current.ID)

	_, err = s.CurrentRound("empty")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDeleteRoundsCascadesLives(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.CreateRound(&models.Round{ID: "r1", LobbyID: "l1", Number: 1}))
	require.NoError(t, s.CreateLifeState(&models.LifeState{ID: "ls1", RoundID: "r1", PlayerID: "p1", LivesRemaining: 4}))
	require.NoError(t, s.CreateRound(&models.Round{ID: "r2", LobbyID: "l2", Number: 1}))
	require.NoError(t, s.CreateLifeState(&models.LifeState{ID: "ls2", RoundID: "r2", PlayerID: "p2", LivesRemaining: 4}))

	removed, err := s.DeleteRoundsInLobby("l1")
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = s.GetLifeState("r1", "p1")
	require.ErrorIs(t, err, ErrNotFound)

	// The other lobby's round is untouched.
	_, err = s.GetLifeState("r2", "p2")
	require.NoError(t, err)
}

func TestMemoryStoreAddPointsFloorsAtZero(t *testing.T) {
	s := NewMemoryStore()

	sc, err := s.AddPoints("p1", 1)
	require.NoError(t, err)
	require.Equal(t, 1, sc.PointsTotal)

	sc, err = s.AddPoints("p1", -5)
	require.NoError(t, err)
	require.Equal(t, 0, sc.PointsTotal)
}

func TestMemoryStoreEnsureScoreIsLazyAndStable(t *testing.T) {
	s := NewMemoryStore()

	sc, err := s.EnsureScore("p1")
	require.NoError(t, err)
	require.Equal(t, 0, sc.PointsTotal)

	_, err = s.AddPoints("p1", 3)
	require.NoError(t, err)

	sc, err = s.EnsureScore("p1")
	require.NoError(t, err)
	require.Equal(t, 3, sc.PointsTotal)
}

func TestMemoryStoreFindPlayerByNamePrefersCurrentRow(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.CreatePlayer(&models.Player{
		ID: "current", NameKey: "ada", LobbyID: strptr("l1"), LastLobbyID: "l1",
	}))
	require.NoError(t, s.CreatePlayer(&models.Player{
		ID: "orphan", NameKey: "ada", LastLobbyID: "l1",
	}))

	p, err := s.FindPlayerByName("l1", "ada")
	require.NoError(t, err)
	require.Equal(t, "current", p.ID)
}

func TestMemoryStoreFindPlayerByNameFallsBackToOrphan(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.CreatePlayer(&models.Player{
		ID: "orphan", NameKey: "ada", LastLobbyID: "l1",
	}))

	p, err := s.FindPlayerByName("l1", "ada")
	require.NoError(t, err)
	require.Equal(t, "orphan", p.ID)

	_, err = s.FindPlayerByName("l2", "ada")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCopiesOnRead(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.CreatePlayer(&models.Player{ID: "p1", Name: "Ada", NameKey: "ada", LobbyID: strptr("l1")}))

	p, err := s.GetPlayer("p1")
	require.NoError(t, err)
	p.Name = "Mutated"

	again, err := s.GetPlayer("p1")
	require.NoError(t, err)
	require.Equal(t, "Ada", again.Name)
}
