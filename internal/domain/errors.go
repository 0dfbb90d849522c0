package domain

import "errors"

// Failure classes. Wrap with fmt.Errorf("...: %w", ErrX) and test with errors.Is.
var (
	// ErrTransientSource covers network, timeout and page-level parse failures
	// of one source. The runner isolates it.
	ErrTransientSource = errors.New("source unavailable")

	// ErrRecordParse marks a single malformed listing card.
	ErrRecordParse = errors.New("malformed listing")

	// ErrNotificationDelivery marks one message that did not go out.
	ErrNotificationDelivery = errors.New("notification not delivered")

	// ErrPersistence marks seen-state read or write failures.
	ErrPersistence = errors.New("seen state unavailable")

	// ErrFatalConfig stops the process before the first cycle.
	ErrFatalConfig = errors.New("invalid configuration")
)
