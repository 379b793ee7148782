package resource

import "github.com/rs/zerolog/log"

// Notifier receives operation outcomes as transient user-facing messages.
// It is side effect only: implementations must not influence control flow.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// LogNotifier routes notifications to the structured log. Used on the server
// side where there is no toast surface to show them on.
type LogNotifier struct{}

func (LogNotifier) Success(message string) {
	log.Info().Str("outcome", "success").Msg(message)
}

func (LogNotifier) Error(message string) {
	log.Warn().Str("outcome", "error").Msg(message)
}
