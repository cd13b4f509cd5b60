package state

import (
	"errors"

	"github.com/Joseda-hg/tasker/internal/api"
)

// Notifier is the slice of the notification service the stores use.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// errorMessage returns the normalized client message, or fallback when the
// error carries none.
func errorMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
