package errors

import (
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// class 08, connection exception
	sqlClassConnection = "08"

	sqlStateStringTooLong = "22001"
	sqlStateInvalidText   = "22P02"
	sqlStateTooManyConns  = "53300"
	sqlStateAdminShutdown = "57P01"
	sqlStateCannotConnect = "57P03"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if stderrs.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsConnectionUnavailable reports whether err means postgres could not be
// reached or is refusing new work, as opposed to rejecting the statement
func IsConnectionUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var ce *pgconn.ConnectError
	if stderrs.As(err, &ce) {
		return true
	}
	pe, ok := pgError(err)
	if !ok {
		return false
	}
	switch pe.Code {
	case sqlStateCannotConnect, sqlStateAdminShutdown, sqlStateTooManyConns:
		return true
	}
	return strings.HasPrefix(pe.Code, sqlClassConnection)
}

// pgCode classifies a datastore failure
func pgCode(err error) ErrorCode {
	if IsConnectionUnavailable(err) {
		return ErrorCodeUnavailable
	}
	if pe, ok := pgError(err); ok {
		switch pe.Code {
		case sqlStateInvalidText, sqlStateStringTooLong:
			return ErrorCodeInvalidArgument
		}
	}
	return ErrorCodeDB
}

// FromPostgres codes a query failure: unreachable postgres is 503, bad
// literals are 422, everything else is a 500. nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, pgCode(err), msg)
}
