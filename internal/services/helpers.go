package services

import (
	stderrors "errors"

	"ipl-prediction-backend/pkg/errors"
)

// passThrough keeps AppErrors raised inside a transaction intact and wraps
// anything else as INTERNAL.
func passThrough(err error, message string) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.Internal(message, err)
}
