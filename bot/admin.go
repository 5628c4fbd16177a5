package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/lo"
	tele "gopkg.in/telebot.v4"

	"guestbot/core/logger"
	"guestbot/core/telegram/conversation"
	tghelpers "guestbot/core/telegram/helpers"
	"guestbot/guest"
)

func (a *App) addGuestFlow() *conversation.Flow {
	return &conversation.Flow{
		Name: "add_guest",
		Steps: []conversation.Step{
			{Field: fieldOrganization, Prompt: msgAskGuestOrganization},
			{Field: fieldName, Prompt: msgAskGuestName},
			{Field: fieldPhone, Prompt: msgAskGuestPhone, Validate: validatePhone},
		},
		OnComplete: a.finishAddGuest,
		Cancelled: func(c tele.Context) error {
			return reply(c, msgGuestAddCancelled)
		},
	}
}

func (a *App) handleAddGuest(c tele.Context) error {
	err := a.conv.Start(c, a.addGuestFlow())
	if errors.Is(err, conversation.ErrActive) {
		return reply(c, msgBusy)
	}
	return err
}

func (a *App) finishAddGuest(c tele.Context, values map[string]string) error {
	ctx := tghelpers.BuildContext(c)

	rec, err := a.guests.AddManual(ctx, values[fieldName], values[fieldOrganization], values[fieldPhone])
	if err != nil {
		logger.Error(ctx, "admin", "add_guest.persist",
			slog.String("err", err.Error()),
		)
		return reply(c, msgInternal)
	}

	return reply(c, fmt.Sprintf(msgGuestAdded, rec.Name, rec.Organization, rec.Phone))
}

func (a *App) handleListGuests(c tele.Context) error {
	all := a.guests.List()
	if len(all) == 0 {
		return reply(c, msgRosterEmpty)
	}

	approved := lo.Filter(all, func(rec guest.Record, _ int) bool {
		return rec.Approved
	})
	if len(approved) == 0 {
		return reply(c, msgRosterNoApproved)
	}

	lines := lo.Map(approved, func(rec guest.Record, _ int) string {
		return fmt.Sprintf(msgRosterLine, rec.Name, rec.Organization, rec.ID, rec.Phone)
	})
	return reply(c, fmt.Sprintf(msgRosterHeader, strings.Join(lines, "\n")))
}

func (a *App) handleRemoveGuest(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return reply(c, msgRemoveUsage)
	}
	id := strings.TrimSpace(args[0])

	ctx := tghelpers.BuildContext(c)
	rec, err := a.guests.Remove(ctx, id)
	switch {
	case errors.Is(err, guest.ErrNotFound):
		return reply(c, fmt.Sprintf(msgGuestNotFound, id))
	case err != nil:
		logger.Error(ctx, "admin", "remove_guest.persist",
			slog.String("guest_id", id),
			slog.String("err", err.Error()),
		)
		return reply(c, msgInternal)
	}

	// Manual guests have no chat to notify; for everyone else the
	// notification is best effort and a failure is only logged.
	if chatID, convErr := strconv.ParseInt(id, 10, 64); convErr == nil {
		if _, sendErr := c.Bot().Send(tele.ChatID(chatID), msgYouRemoved, &tele.SendOptions{Protected: true}); sendErr != nil {
			logger.Warn(ctx, "admin", "removed.notify",
				slog.String("guest_id", id),
				slog.String("err", sendErr.Error()),
			)
		}
	}

	return reply(c, fmt.Sprintf(msgGuestRemoved, rec.Name, rec.Organization))
}
