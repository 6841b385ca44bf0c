package repository

import (
	"errors"

	"github.com/lib/pq"

	"rentalAPI/internal/apperr"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

var conflictMessages = map[string]string{
	"users_email_key":    "пользователь с таким email уже существует",
	"users_username_key": "пользователь с таким именем уже существует",
}

// mapPgError converts constraint violations into caller-facing kinds.
// Other errors are returned unchanged.
func mapPgError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case pgUniqueViolation:
		msg, ok := conflictMessages[pqErr.Constraint]
		if !ok {
			msg = "запись с такими данными уже существует"
		}
		return apperr.Wrap(apperr.ErrConflict, msg, err)
	case pgCheckViolation:
		if pqErr.Constraint == "rooms_pictures_max" {
			return apperr.Wrap(apperr.ErrCapacityExceeded, "достигнут лимит фотографий комнаты", err)
		}
		return apperr.Wrap(apperr.ErrInvalidInput, "данные не прошли проверку", err)
	}

	return err
}
