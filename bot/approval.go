package bot

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"guestbot/core/logger"
	tghelpers "guestbot/core/telegram/helpers"
	"guestbot/guest"
)

// handleApprove resolves an application positively: the entry flips to
// approved and persists before anyone is told about it. A second approver
// racing on the same application finds the id gone or sees a no-op flip;
// absence maps to the "already handled" edit.
func (a *App) handleApprove(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	id := callbackGuestID(c)
	if id == "" {
		return c.Edit(msgAlreadyHandled)
	}

	rec, err := a.guests.Approve(ctx, id)
	switch {
	case errors.Is(err, guest.ErrNotFound):
		return c.Edit(msgAlreadyHandled)
	case err != nil:
		logger.Error(ctx, "approval", "approve.persist",
			slog.String("guest_id", id),
			slog.String("err", err.Error()),
		)
		return c.Edit(msgInternal)
	}

	a.notifySubmitter(c, rec.ID, msgYouApproved, registeredMenu())
	return c.Edit(msgApplicationOK)
}

// handleReject deletes the pending entry and informs the submitter.
func (a *App) handleReject(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	id := callbackGuestID(c)
	if id == "" {
		return c.Edit(msgAlreadyHandled)
	}

	rec, err := a.guests.Reject(ctx, id)
	switch {
	case errors.Is(err, guest.ErrNotFound):
		return c.Edit(msgAlreadyHandled)
	case err != nil:
		logger.Error(ctx, "approval", "reject.persist",
			slog.String("guest_id", id),
			slog.String("err", err.Error()),
		)
		return c.Edit(msgInternal)
	}

	a.notifySubmitter(c, rec.ID, msgYouRejected, nil)
	return c.Edit(msgApplicationNo)
}

// notifySubmitter tells the guest about the verdict. The mutation is
// already durable; a failed delivery is logged and swallowed.
func (a *App) notifySubmitter(c tele.Context, id, text string, markup *tele.ReplyMarkup) {
	ctx := tghelpers.BuildContext(c)

	chatID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		logger.Warn(ctx, "approval", "submitter.notify",
			slog.String("guest_id", id),
			slog.String("err", "no telegram identity"),
		)
		return
	}

	opts := &tele.SendOptions{Protected: true}
	if markup != nil {
		opts.ReplyMarkup = markup
	}
	if _, err := c.Bot().Send(tele.ChatID(chatID), text, opts); err != nil {
		logger.Warn(ctx, "approval", "submitter.notify",
			slog.String("guest_id", id),
			slog.String("err", err.Error()),
		)
	}
}

func callbackGuestID(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	return strings.TrimSpace(cb.Data)
}
