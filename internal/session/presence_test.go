package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"partyround/backend/internal/hub"
)

func TestHeartbeatRefreshesLastSeen(t *testing.T) {
	svc, st, _ := newTestService(Options{})
	lobbyID := mustCreateLobby(t, svc, "Alpha")
	ada := mustJoin(t, svc, lobbyID, "Ada", "T1")

	before, err := st.GetPlayer(ada.Player.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	svc.Heartbeat(lobbyID, ada.Player.ID, "T1")

	after, err := st.GetPlayer(ada.Player.ID)
	require.NoError(t, err)
	require.True(t, after.LastSeenAt.After(before.LastSeenAt))
	require.True(t, after.IsActive)
}

func TestHeartbeatReactivatesExpiredPlayer(t *testing.T) {
	svc, st, _ := newTestService(Options{PresenceTTL: 45 * time.Second})
	lobbyID := mustCreateLobby(t, svc, "Alpha")
	ada := mustJoin(t, svc, lobbyID, "Ada", "T1")

	svc.SweepOnce(time.Now().Add(time.Hour))
	expired, err := st.GetPlayer(ada.Player.ID)
	require.NoError(t, err)
	require.False(t, expired.IsActive)

	svc.Heartbeat(lobbyID, ada.Player.ID, "T1")
	revived, err := st.GetPlayer(ada.Player.ID)
	require.NoError(t, err)
	require.True(t, revived.IsActive)
}

func TestHeartbeatIgnoresReplacedSession(t *testing.T) {
	svc, st, _ := newTestService(Options{})
	lobbyID := mustCreateLobby(t, svc, "Alpha")
	ada := mustJoin(t, svc, lobbyID, "Ada", "T1")
	mustJoin(t, svc, lobbyID, "Ada", "T2") // second device takes over

	before, err := st.GetPlayer(ada.Player.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	svc.Heartbeat(lobbyID, ada.Player.ID, "T1")

	after, err := st.GetPlayer(ada.Player.ID)
	require.NoError(t, err)
	require.Equal(t, before.LastSeenAt, after.LastSeenAt)
}

func TestHeartbeatIgnoresUnknownState(t *testing.T) {
	svc, _, _ := newTestService(Options{})
	lobbyID := mustCreateLobby(t, svc, "Alpha")
	ada := mustJoin(t, svc, lobbyID, "Ada", "T1")

	// None of these may panic or surface an error.
	svc.Heartbeat(lobbyID, "missing-player", "T1")
	svc.Heartbeat("missing-lobby", ada.Player.ID, "T1")
}

func TestSweepExpiresOnlyStalePlayers(t *testing.T) {
	svc, st, h := newTestService(Options{PresenceTTL: 45 * time.Second})
	lobbyID := mustCreateLobby(t, svc, "Alpha")
	ada := mustJoin(t, svc, lobbyID, "Ada", "T1")
	bob := mustJoin(t, svc, lobbyID, "Bob", "T2")

	// Ada heartbeats in the future; Bob goes silent.
	future := time.Now().Add(time.Minute)
	player, err := st.GetPlayer(ada.Player.ID)
	require.NoError(t, err)
	player.LastSeenAt = future
	require.NoError(t, st.UpdatePlayer(player))

	client := make(hub.Client, 8)
	h.Subscribe(client, lobbyID, nil)
	defer h.Unsubscribe(client)

	svc.SweepOnce(future)

	kept, err := st.GetPlayer(ada.Player.ID)
	require.NoError(t, err)
	require.True(t, kept.IsActive)

	expired, err := st.GetPlayer(bob.Player.ID)
	require.NoError(t, err)
	require.False(t, expired.IsActive)

	env := recvEnvelope(t, client, time.Second)
	require.Equal(t, EventPresenceChanged, env.Event)
	var payload PresenceChangedEvent
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.Equal(t, "PRESENCE_CHANGED", payload.Type)
	require.Equal(t, bob.Player.ID, payload.PlayerID)
	require.False(t, payload.IsActive)
}

func TestSweepIsIdempotent(t *testing.T) {
	svc, _, h := newTestService(Options{PresenceTTL: 45 * time.Second})
	lobbyID := mustCreateLobby(t, svc, "Alpha")
	mustJoin(t, svc, lobbyID, "Ada", "T1")

	client := make(hub.Client, 8)
	h.Subscribe(client, lobbyID, nil)
	defer h.Unsubscribe(client)

	later := time.Now().Add(time.Hour)
	svc.SweepOnce(later)
	recvEnvelope(t, client, time.Second)

	// A second sweep finds nobody active and stays silent.
	svc.SweepOnce(later.Add(time.Hour))
	select {
	case env := <-client:
		t.Fatalf("unexpected event after idempotent sweep: %s", env.Event)
	case <-time.After(50 * time.Millisecond):
	}
}
