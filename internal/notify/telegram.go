// Package notify fans out booking notifications to staff Telegram chats.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"wakala/internal/model"
)

// StaffDirectory lists the registered notification recipients.
type StaffDirectory interface {
	ListStaffContacts(ctx context.Context) ([]model.StaffContact, error)
}

// TelegramNotifier sends booking updates to staff chats. All sends are
// best-effort: failures are logged and never propagated to the mutation
// that triggered them.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	staff   StaffDirectory
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewTelegramNotifier creates a notifier with the Telegram Bot API limits
// in mind (well under 30 msg/s).
func NewTelegramNotifier(token string, staff StaffDirectory, logger zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:     bot,
		staff:   staff,
		limiter: rate.NewLimiter(rate.Limit(20), 30),
		logger:  logger,
	}, nil
}

// NotifyStatusChange tells staff about an admin status change.
func (n *TelegramNotifier) NotifyStatusChange(ctx context.Context, appt *model.Appointment, oldStatus string) {
	msg := fmt.Sprintf(
		"Booking %s updated\n%s / %s\n%s %s-%s\nStatus: %s -> %s",
		shortRef(appt.Reference),
		appt.DisplayName("en"), appt.DisplayName("ar"),
		appt.Date.Format("02.01.2006"), appt.StartTime, appt.EndTime,
		oldStatus, appt.Status,
	)
	n.broadcast(ctx, msg)
}

// NotifyNewBooking tells staff about a new public booking.
func (n *TelegramNotifier) NotifyNewBooking(ctx context.Context, appt *model.Appointment) {
	msg := fmt.Sprintf(
		"New Wakala booking %s\n%s / %s\n%s %s-%s\nService: %s",
		shortRef(appt.Reference),
		appt.DisplayName("en"), appt.DisplayName("ar"),
		appt.Date.Format("02.01.2006"), appt.StartTime, appt.EndTime,
		appt.DisplayService("en"),
	)
	n.broadcast(ctx, msg)
}

func (n *TelegramNotifier) broadcast(ctx context.Context, text string) {
	contacts, err := n.staff.ListStaffContacts(ctx)
	if err != nil {
		n.logger.Error().Err(err).Msg("list staff contacts failed")
		return
	}

	for _, c := range contacts {
		if err := n.limiter.Wait(ctx); err != nil {
			return
		}
		if _, err := n.bot.Send(tgbotapi.NewMessage(c.ChatID, text)); err != nil {
			n.logger.Error().Err(err).
				Int64("chat_id", c.ChatID).
				Msg("staff notification failed")
		}
	}
}

func shortRef(reference string) string {
	if len(reference) > 8 {
		return reference[:8]
	}
	return reference
}
