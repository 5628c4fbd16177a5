package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"guestbot/core/logger"
	"guestbot/core/telegram/conversation"
	tghelpers "guestbot/core/telegram/helpers"
	"guestbot/core/telegram/keyboard"
	"guestbot/guest"
)

const (
	fieldOrganization = "organization"
	fieldName         = "name"
	fieldPhone        = "phone"

	cbApprove = "approve"
	cbReject  = "reject"
)

func validatePhone(answer string) (string, bool) {
	if !guest.ValidPhone(answer) {
		return msgBadPhone, false
	}
	return "", true
}

func (a *App) registrationFlow() *conversation.Flow {
	return &conversation.Flow{
		Name: "registration",
		Steps: []conversation.Step{
			{Field: fieldOrganization, Prompt: msgAskOrganization},
			{Field: fieldName, Prompt: msgAskName},
			{Field: fieldPhone, Prompt: msgAskPhone, Validate: validatePhone},
		},
		OnComplete: a.finishRegistration,
		Cancelled: func(c tele.Context) error {
			return reply(c, msgRegCancelled)
		},
	}
}

// handleStartRegistration opens the self-registration form. Guests that are
// already on the roster, pending or approved, are turned away before any
// conversation state exists.
func (a *App) handleStartRegistration(c tele.Context) error {
	id := strconv.FormatInt(c.Sender().ID, 10)
	if _, exists := a.guests.Get(id); exists {
		return reply(c, msgAlreadyRegistered)
	}

	err := a.conv.Start(c, a.registrationFlow())
	if errors.Is(err, conversation.ErrActive) {
		return reply(c, msgBusy)
	}
	return err
}

func (a *App) finishRegistration(c tele.Context, values map[string]string) error {
	ctx := tghelpers.BuildContext(c)
	id := strconv.FormatInt(c.Sender().ID, 10)

	rec, err := a.guests.Register(ctx, id, values[fieldName], values[fieldOrganization], values[fieldPhone])
	switch {
	case errors.Is(err, guest.ErrAlreadyRegistered):
		return reply(c, msgAlreadyRegistered)
	case err != nil:
		logger.Error(ctx, "registration", "register.persist",
			slog.String("guest_id", id),
			slog.String("err", err.Error()),
		)
		return reply(c, msgInternal)
	}

	if err := reply(c, msgRegistered); err != nil {
		return err
	}

	a.notifyApprovers(c, rec)
	return nil
}

// notifyApprovers sends each approver the application with an inline
// approve/reject keyboard bound to the guest id. Delivery is best effort;
// the pending record is already persisted and stays either way.
func (a *App) notifyApprovers(c tele.Context, rec guest.Record) {
	ctx := tghelpers.BuildContext(c)
	text := fmt.Sprintf(msgNewApplication, rec.Name, rec.Organization, rec.Phone, rec.ID)
	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: btnApprove, Unique: cbApprove, Data: rec.ID},
		{Text: btnReject, Unique: cbReject, Data: rec.ID},
	})

	for _, adminID := range a.cfg.Core.Telegram.AdminIDs {
		_, err := c.Bot().Send(tele.ChatID(adminID), text, &tele.SendOptions{
			Protected:   true,
			ReplyMarkup: markup,
		})
		if err != nil {
			logger.Warn(ctx, "registration", "approver.notify",
				slog.String("guest_id", rec.ID),
				slog.Int64("chat_id", adminID),
				slog.String("err", err.Error()),
			)
		}
	}
}
