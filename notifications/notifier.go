// Package notifications delivers short receipts about ledger activity to the
// clinic. Delivery is best effort: callers log failures and move on.
package notifications

import (
	"context"
	"errors"

	"github.com/diyorbekkd/thDent/config"

	"github.com/rs/zerolog/log"
)

// Message is a notification. Text may carry Telegram-style HTML markup.
// An empty Destination sends to the channel's configured default (the
// clinic chat or mailbox).
type Message struct {
	Destination string
	Subject     string
	Text        string
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Noop drops every message.
type Noop struct{}

func (Noop) Notify(context.Context, Message) error { return nil }

// Multi fans a message out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FromConfig builds the notifier chain for the configured channels. With no
// channel configured it returns Noop.
func FromConfig(cfg *config.AppConfig) Notifier {
	var chain Multi
	// the chat id is optional: doctors can route receipts to their own chat
	if cfg.Telegram.BotToken != "" {
		chain = append(chain, NewTelegramSender(cfg.Telegram.BotToken, cfg.Telegram.ChatID))
	}
	if cfg.SMTP.Host != "" && cfg.SMTP.To != "" {
		chain = append(chain, NewEmailSender(cfg.SMTP))
	}
	if len(chain) == 0 {
		log.Info().Msg("no notification channel configured")
		return Noop{}
	}
	return chain
}
