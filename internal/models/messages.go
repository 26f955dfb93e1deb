package models

import "fmt"

// User-facing message catalog. Responses never leak technical detail;
// operators get the specifics from the logs.
const (
	MsgIncorrectPassword  = "Incorrect password. Please try again."
	MsgCredentialsFailure = "Unable to verify credentials. Please contact support."
	MsgContentUnavailable = "Unable to load content. Files may be temporarily unavailable."
	MsgNotConfigured      = "Service not configured. Please contact support."
	MsgGeneric            = "An unexpected error occurred. Please try again."
)

// BlockedMessage formats the rate-limit rejection with the minutes left
func BlockedMessage(minutesRemaining int) string {
	return fmt.Sprintf("Too many failed attempts. Please try again in %d minutes.", minutesRemaining)
}

// BlockedError is returned when a client is rejected by the failed-login
// limiter. It matches ErrRateLimited under errors.Is and carries the
// remaining block time for the response body.
type BlockedError struct {
	MinutesRemaining int
}

func (e *BlockedError) Error() string {
	return BlockedMessage(e.MinutesRemaining)
}

func (e *BlockedError) Is(target error) bool {
	return target == ErrRateLimited
}
