// Package secrets resolves named configuration values at runtime.
//
// Resolvers never return errors: a secret that cannot be fetched for any
// reason (missing, denied, transport failure) is reported as absent and
// the cause is logged.
package secrets

import "context"

// Names of the secrets consumed by the service
const (
	DatabaseURL      = "database-url"
	TelegramBotToken = "telegram-bot-token"
	TelegramChatID   = "telegram-chat-id"
)

// Resolver looks up the latest version of a named secret
type Resolver interface {
	GetSecret(ctx context.Context, name string) (string, bool)
}
