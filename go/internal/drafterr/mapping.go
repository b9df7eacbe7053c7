package drafterr

import (
	"errors"
	"net/http"
	"strconv"

	"connectrpc.com/connect"
	"github.com/rs/zerolog/log"
)

// Mapping is the external form of a failure.
type Mapping struct {
	Code        Code
	HTTPStatus  int
	ConnectCode connect.Code
	Message     string
}

type entry struct {
	status  int
	connect connect.Code
	message string
}

var table = map[Code]entry{
	CodeForbidden:                {http.StatusForbidden, connect.CodePermissionDenied, "You do not have permission to perform this action."},
	CodeTeamNotInSeason:          {http.StatusBadRequest, connect.CodeInvalidArgument, "Team is not part of this season."},
	CodeSeasonNotFound:           {http.StatusNotFound, connect.CodeNotFound, "Season not found."},
	CodeSessionNotFound:          {http.StatusNotFound, connect.CodeNotFound, "Draft session not found."},
	CodeSessionNotActive:         {http.StatusConflict, connect.CodeFailedPrecondition, "Draft session is not active."},
	CodeNotYourTurn:              {http.StatusConflict, connect.CodeFailedPrecondition, "It is not your turn to pick."},
	CodeInvalidTeamCount:         {http.StatusBadRequest, connect.CodeInvalidArgument, "A draft needs at least two distinct teams."},
	CodeInvalidArgument:          {http.StatusBadRequest, connect.CodeInvalidArgument, "Invalid request."},
	CodeInvalidTransaction:       {http.StatusBadRequest, connect.CodeInvalidArgument, "Transaction fields do not match its type."},
	CodePokemonPointsMissing:     {http.StatusBadRequest, connect.CodeFailedPrecondition, "Pokemon does not have a point value."},
	CodePokemonNotInPool:         {http.StatusUnprocessableEntity, connect.CodeNotFound, "Pokemon is not in the draft pool."},
	CodeBudgetExceeded:           {http.StatusUnprocessableEntity, connect.CodeFailedPrecondition, "Insufficient budget."},
	CodeRosterFull:               {http.StatusUnprocessableEntity, connect.CodeFailedPrecondition, "Roster size is outside the allowed range."},
	CodePokemonAlreadyOwned:      {http.StatusConflict, connect.CodeAlreadyExists, "Pokemon is already owned in this season."},
	CodeDropNotOwned:             {http.StatusBadRequest, connect.CodeFailedPrecondition, "Team does not own the pokemon being dropped."},
	CodeAddNotAvailable:          {http.StatusUnprocessableEntity, connect.CodeFailedPrecondition, "Pokemon being added is not available."},
	CodeAddNotInPool:             {http.StatusUnprocessableEntity, connect.CodeNotFound, "Pokemon being added is not in the pool."},
	CodeAddPointsMissing:         {http.StatusBadRequest, connect.CodeFailedPrecondition, "Pokemon being added does not have a point value."},
	CodeDraftWindowNotConfigured: {http.StatusBadRequest, connect.CodeFailedPrecondition, "Draft window is not configured."},
	CodeDraftWindowClosed:        {http.StatusUnprocessableEntity, connect.CodeFailedPrecondition, "Draft window is closed."},
	CodeTransactionNotFound:      {http.StatusNotFound, connect.CodeNotFound, "Transaction not found."},
	CodeTransactionNotPending:    {http.StatusConflict, connect.CodeFailedPrecondition, "Transaction has already been resolved."},
	CodeTransactionLimitReached:  {http.StatusUnprocessableEntity, connect.CodeResourceExhausted, "Transaction limit reached for this season."},
	CodeLedgerNotFound:           {http.StatusNotFound, connect.CodeNotFound, "Budget ledger not found."},
	CodeInternal:                 {http.StatusInternalServerError, connect.CodeInternal, "Internal error."},
}

// Map converts any error into its external form. Errors without a domain code
// become INTERNAL_ERROR with a generic message.
func Map(err error) Mapping {
	var e *Error
	if !errors.As(err, &e) {
		return lookup(CodeInternal, "")
	}
	msg := e.Message
	if e.Code == CodeInternal {
		msg = ""
	}
	return lookup(e.Code, msg)
}

// HTTPStatus returns the HTTP-style status for code.
func HTTPStatus(code Code) int {
	return lookup(code, "").HTTPStatus
}

func lookup(code Code, msg string) Mapping {
	ent, ok := table[code]
	if !ok {
		code = CodeInternal
		ent = table[CodeInternal]
	}
	if msg == "" {
		msg = ent.message
	}
	return Mapping{
		Code:        code,
		HTTPStatus:  ent.status,
		ConnectCode: ent.connect,
		Message:     msg,
	}
}

// ToConnect converts err into a connect error carrying the domain code and
// HTTP-style status in its metadata. Internal errors are logged here since
// their cause is hidden from the caller.
func ToConnect(err error) *connect.Error {
	m := Map(err)
	if m.Code == CodeInternal {
		log.Error().Err(err).Msg("internal error")
	}
	cerr := connect.NewError(m.ConnectCode, errors.New(m.Message))
	cerr.Meta().Set("Error-Code", string(m.Code))
	cerr.Meta().Set("Error-Http-Status", strconv.Itoa(m.HTTPStatus))
	return cerr
}
