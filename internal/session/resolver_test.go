package session

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJoinCreatesPlayerAndScore(t *testing.T) {
	svc, st, _ := newTestService(Options{})
	lobbyID := mustCreateLobby(t, svc, "Alpha")

	result := mustJoin(t, svc, lobbyID, "Ada", "")
	require.Equal(t, OutcomeJoin, result.Outcome)
	require.NotEmpty(t, result.SessionToken)
	require.True(t, result.Player.IsActive)
	require.Equal(t, lobbyID, *result.Player.LobbyID)

	score, err := st.EnsureScore(result.Player.ID)
	require.NoError(t, err)
	require.Equal(t, 0, score.PointsTotal)
}

func TestJoinNormalizesName(t *testing.T) {
	svc, _, _ := newTestService(Options{})
	lobbyID := mustCreateLobby(t, svc, "Alpha")

	first := mustJoin(t, svc, lobbyID, "  Ada   Lovelace ", "t1")
	require.Equal(t, "Ada Lovelace", first.Player.Name)

	// Different casing and spacing resolves to the same identity.
	second := mustJoin(t, svc, lobbyID, "ada  LOVELACE", "t2")
	require.Equal(t, OutcomeRejoin, second.Outcome)
	require.Equal(t, first.Player.ID, second.Player.ID)
}

func TestJoinRejectsBadNameLength(t *testing.T) {
	svc, _, _ := newTestService(Options{})
	lobbyID := mustCreateLobby(t, svc, "Alpha")

	_, err := svc.JoinOrRejoin(lobbyID, "A", "")
	requireCode(t, err, CodeUnknown, http.StatusBadRequest)

	_, err = svc.JoinOrRejoin(lobbyID, strings.Repeat("x", 19), "")
	requireCode(t, err, CodeUnknown, http.StatusBadRequest)

	// Whitespace does not count toward the bounds.
	_, err = svc.JoinOrRejoin(lobbyID, "   B   ", "")
	requireCode(t, err, CodeUnknown, http.StatusBadRequest)
}

func TestJoinUnknownLobby(t *testing.T) {
	svc, _, _ := newTestService(Options{})
	_, err := svc.JoinOrRejoin("missing", "Ada", "")
	requireCode(t, err, CodeLobbyNotFound, http.StatusNotFound)
}

func TestJoinFullLobby(t *testing.T) {
	svc, _, _ := newTestService(Options{MaxPlayers: 8, PresenceTTL: 45 * time.Second})
	lobbyID := mustCreateLobby(t, svc, "Alpha")

	for i := 0; i < 8; i++ {
		mustJoin(t, svc, lobbyID, fmt.Sprintf("Player %d", i), "")
	}

	_, err := svc.JoinOrRejoin(lobbyID, "Latecomer", "")
	requireCode(t, err, CodeMaxPlayers, http.StatusConflict)

	// An existing name still rejoins even at capacity.
	rejoined := mustJoin(t, svc, lobbyID, "Player 3", "new-token")
	require.Equal(t, OutcomeRejoin, rejoined.Outcome)

	// Expiring one player frees a slot.
	svc.SweepOnce(time.Now().Add(time.Hour))
	fresh := mustJoin(t, svc, lobbyID, "Latecomer", "")
	require.Equal(t, OutcomeJoin, fresh.Outcome)
}

func TestRejoinReplacesSession(t *testing.T) {
	svc, _, _ := newTestService(Options{})
	lobbyID := mustCreateLobby(t, svc, "Alpha")

	first := mustJoin(t, svc, lobbyID, "Bob", "T1")
	require.False(t, first.SessionReplaced)

	second := mustJoin(t, svc, lobbyID, "Bob", "T2")
	require.Equal(t, OutcomeRejoin, second.Outcome)
	require.True(t, second.SessionReplaced)
	require.Equal(t, first.Player.ID, second.Player.ID)
	require.Equal(t, "T2", second.SessionToken)
	require.Equal(t, first.Player.JoinedAt, second.Player.JoinedAt)
}

func TestRejoinGeneratesTokenWhenAbsent(t *testing.T) {
	svc, _, _ := newTestService(Options{})
	lobbyID := mustCreateLobby(t, svc, "Alpha")

	first := mustJoin(t, svc, lobbyID, "Bob", "T1")
	second := mustJoin(t, svc, lobbyID, "Bob", "")
	require.Equal(t, OutcomeRejoin, second.Outcome)
	require.NotEmpty(t, second.SessionToken)
	require.NotEqual(t, first.SessionToken, second.SessionToken)
	require.True(t, second.SessionReplaced)
}

func TestRejoinAttachesCurrentLifeState(t *testing.T) {
	svc, _, _ := newTestService(Options{})
	lobbyID := mustCreateLobby(t, svc, "Alpha")
	ada := mustJoin(t, svc, lobbyID, "Ada", "T1")

	started, err := svc.StartRound(lobbyID)
	require.NoError(t, err)
	_, err = svc.UpdateLife(started.Round.ID, ada.Player.ID, 2)
	require.NoError(t, err)

	rejoined := mustJoin(t, svc, lobbyID, "Ada", "T2")
	require.NotNil(t, rejoined.LifeState)
	require.Equal(t, 2, rejoined.LifeState.LivesRemaining)
}

func TestStrictPolicyRejectsMismatchedToken(t *testing.T) {
	svc, _, _ := newTestService(Options{RejoinPolicy: PolicyStrict})
	lobbyID := mustCreateLobby(t, svc, "Alpha")
	mustJoin(t, svc, lobbyID, "Bob", "T1")

	_, err := svc.JoinOrRejoin(lobbyID, "Bob", "T2")
	requireCode(t, err, CodeNameActive, http.StatusConflict)

	_, err = svc.JoinOrRejoin(lobbyID, "Bob", "")
	requireCode(t, err, CodeNameActive, http.StatusConflict)

	// Inactive holders fail with NAME_TAKEN instead.
	svc.SweepOnce(time.Now().Add(time.Hour))
	_, err = svc.JoinOrRejoin(lobbyID, "Bob", "T2")
	requireCode(t, err, CodeNameTaken, http.StatusConflict)

	// The matching token still rejoins.
	result, err := svc.JoinOrRejoin(lobbyID, "Bob", "T1")
	require.NoError(t, err)
	require.Equal(t, OutcomeRejoin, result.Outcome)
	require.False(t, result.SessionReplaced)
}

func TestSingleRowPerNameUnderRepeatedJoins(t *testing.T) {
	svc, st, _ := newTestService(Options{})
	lobbyID := mustCreateLobby(t, svc, "Alpha")

	for i := 0; i < 10; i++ {
		mustJoin(t, svc, lobbyID, "Ada", fmt.Sprintf("T%d", i))
	}

	players, err := st.PlayersInLobby(lobbyID)
	require.NoError(t, err)
	require.Len(t, players, 1)
}
