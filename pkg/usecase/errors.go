package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidUserID        = errors.New("invalid user id")

	// ErrStoreUnavailable marks notification store failures that were
	// absorbed into a best-effort result
	ErrStoreUnavailable = errors.New("notification store unavailable")
	// ErrSourceUnavailable marks snapshot reader failures
	ErrSourceUnavailable = errors.New("snapshot source unavailable")
	// ErrEvaluatorFault marks a rule that returned an error or panicked
	ErrEvaluatorFault = errors.New("rule evaluator fault")
)

// Context keys for error values
const (
	UserIDKey         = "user_id"
	NotificationIDKey = "notification_id"
	RuleKeyKey        = "rule_key"
	ReaderKey         = "reader"
)
