package session

import (
	"errors"
	"net/http"
)

// Machine-readable error codes surfaced to API clients.
const (
	CodeUnknown        = "UNKNOWN"
	CodeMaxPlayers     = "MAX_PLAYERS"
	CodeNameActive     = "NAME_ACTIVE"
	CodeNameTaken      = "NAME_TAKEN"
	CodeDuplicateLobby = "DUPLICATE_LOBBY"
	CodeLobbyNotFound  = "LOBBY_NOT_FOUND"
	CodeRoundNotFound  = "ROUND_NOT_FOUND"
	CodePlayerNotFound = "PLAYER_NOT_FOUND"
	CodeRoundRunning   = "ROUND_RUNNING"
	CodeRoundFinished  = "ROUND_FINISHED"
	CodeLivesRange     = "LIVES_RANGE"
)

// Error is a state-machine failure with an HTTP status and machine-readable
// code. Handlers translate it verbatim; nothing is swallowed server-side.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// AsError unwraps err into a *Error if it is one.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func errValidation(code, msg string) *Error {
	return &Error{Code: code, Status: http.StatusBadRequest, Message: msg}
}

func errNotFound(code, msg string) *Error {
	return &Error{Code: code, Status: http.StatusNotFound, Message: msg}
}

func errConflict(code, msg string) *Error {
	return &Error{Code: code, Status: http.StatusConflict, Message: msg}
}
