package stores

import (
	"errors"
)

var (
	// ErrNotAuthenticated is returned by actions that need a session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoProfile means there is neither a loaded profile nor a session
	// identity to install economy totals into.
	ErrNoProfile = errors.New("no profile loaded")

	// ErrPurchaseInProgress rejects a purchase while another one is pending.
	ErrPurchaseInProgress = errors.New("purchase already in progress")

	// ErrInvalidWallet rejects negative economy totals.
	ErrInvalidWallet = errors.New("invalid wallet totals")

	// ErrEmptyUpdate rejects a profile update without fields.
	ErrEmptyUpdate = errors.New("empty update")

	// ErrSessionChanged means the session was ended or replaced while the
	// request was in flight, so its answer was not applied.
	ErrSessionChanged = errors.New("session changed during request")
)

// ActionError is the failure of a store action. Message is what the user
// sees: the server's own reason when it sent one, otherwise a localized
// generic message.
type ActionError struct {
	Op      string
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	return e.Message
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
