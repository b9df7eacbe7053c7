// Package drafterr defines the stable error vocabulary shared by the draft and
// free-agency engines and the mapping from those codes to transport statuses.
package drafterr

import (
	"errors"
	"fmt"
)

// Code is a stable, caller-visible error identifier.
type Code string

const (
	CodeNotYourTurn              Code = "NOT_YOUR_TURN"
	CodeSessionNotActive         Code = "SESSION_NOT_ACTIVE"
	CodeSessionNotFound          Code = "SESSION_NOT_FOUND"
	CodeInvalidTeamCount         Code = "INVALID_TEAM_COUNT"
	CodeInvalidArgument          Code = "INVALID_ARGUMENT"
	CodeInvalidTransaction       Code = "INVALID_TRANSACTION"
	CodePokemonNotInPool         Code = "POKEMON_NOT_IN_POOL"
	CodePokemonAlreadyOwned      Code = "POKEMON_ALREADY_OWNED"
	CodePokemonPointsMissing     Code = "POKEMON_POINTS_MISSING"
	CodeBudgetExceeded           Code = "BUDGET_EXCEEDED"
	CodeRosterFull               Code = "ROSTER_FULL"
	CodeDropNotOwned             Code = "DROP_NOT_OWNED"
	CodeAddNotAvailable          Code = "ADD_NOT_AVAILABLE"
	CodeAddNotInPool             Code = "ADD_NOT_IN_POOL"
	CodeAddPointsMissing         Code = "ADD_POINTS_MISSING"
	CodeForbidden                Code = "FORBIDDEN"
	CodeTeamNotInSeason          Code = "TEAM_NOT_IN_SEASON"
	CodeSeasonNotFound           Code = "SEASON_NOT_FOUND"
	CodeDraftWindowNotConfigured Code = "DRAFT_WINDOW_NOT_CONFIGURED"
	CodeDraftWindowClosed        Code = "DRAFT_WINDOW_CLOSED"
	CodeTransactionNotFound      Code = "TRANSACTION_NOT_FOUND"
	CodeTransactionNotPending    Code = "TRANSACTION_NOT_PENDING"
	CodeTransactionLimitReached  Code = "TRANSACTION_LIMIT_REACHED"
	CodeLedgerNotFound           Code = "LEDGER_NOT_FOUND"
	CodeInternal                 Code = "INTERNAL_ERROR"
)

// Error is a domain rule violation carrying a stable code.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code, so errors.Is(err, drafterr.New(code, "")) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates a domain error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to an underlying error.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf returns the domain code carried by err, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
