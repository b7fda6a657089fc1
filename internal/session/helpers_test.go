package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"partyround/backend/internal/hub"
	"partyround/backend/internal/store"
)

func newTestService(opts Options) (*Service, *store.MemoryStore, *hub.Hub) {
	st := store.NewMemoryStore()
	h := hub.NewHub(zap.NewNop())
	svc := NewService(st, h, nil, zap.NewNop(), opts)
	return svc, st, h
}

func mustCreateLobby(t *testing.T, svc *Service, name string) string {
	t.Helper()
	lobby, err := svc.CreateLobby(name)
	require.NoError(t, err)
	return lobby.ID
}

func mustJoin(t *testing.T, svc *Service, lobbyID, name, token string) *JoinResult {
	t.Helper()
	result, err := svc.JoinOrRejoin(lobbyID, name, token)
	require.NoError(t, err)
	return result
}

func requireCode(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	se, ok := AsError(err)
	require.True(t, ok, "expected a session error, got %v", err)
	require.Equal(t, code, se.Code)
	require.Equal(t, status, se.Status)
}

func recvEnvelope(t *testing.T, client hub.Client, within time.Duration) hub.Envelope {
	t.Helper()
	select {
	case env, open := <-client:
		require.True(t, open, "subscriber channel closed unexpectedly")
		return env
	case <-time.After(within):
		t.Fatalf("timed out waiting for event")
		return hub.Envelope{}
	}
}
