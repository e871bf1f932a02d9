package person

import (
	"errors"
	"fmt"
	"strings"
)

// Repository-level errors
var (
	ErrPersonNotFound = errors.New("person not found")
	ErrNoneFound      = errors.New("no matching records found")
)

// Request-shape errors
var (
	ErrNoIDs = errors.New("send a non-empty list of ids")
)

// ConfirmationRequiredError rejects a delete that did not set the confirm
// flag. It names the ids that would have been affected so the caller can
// resend with confirmation.
type ConfirmationRequiredError struct {
	IDs []int64
}

func (e *ConfirmationRequiredError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("confirm deletion by sending \"confirm\": true. IDs: %s", strings.Join(parts, ", "))
}
