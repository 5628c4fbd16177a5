package bot

import (
	"strconv"

	tele "gopkg.in/telebot.v4"

	tghelpers "guestbot/core/telegram/helpers"
	"guestbot/core/telegram/keyboard"
)

// reply sends protected text so event details cannot be forwarded around.
func reply(c tele.Context, text string) error {
	return tghelpers.SendText(c, text, &tele.SendOptions{Protected: true})
}

func replyMenu(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	return tghelpers.SendText(c, text, &tele.SendOptions{Protected: true, ReplyMarkup: markup})
}

func registeredMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{btnEventInfo, btnEventProgram})
}

func unregisteredMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{btnAboutEvent, btnRegister})
}

// menuFor picks the menu by approval status: approved guests see the event
// content buttons, everyone else the about/register pair.
func (a *App) menuFor(userID int64) *tele.ReplyMarkup {
	rec, ok := a.guests.Get(strconv.FormatInt(userID, 10))
	if ok && rec.Approved {
		return registeredMenu()
	}
	return unregisteredMenu()
}

func (a *App) handleStart(c tele.Context) error {
	return replyMenu(c, msgWelcome, a.menuFor(c.Sender().ID))
}

func (a *App) handleCancel(c tele.Context) error {
	cancelled, err := a.conv.Cancel(c)
	if err != nil {
		return err
	}
	if !cancelled {
		return reply(c, msgNothingToCancel)
	}
	return nil
}

// handleText dispatches the reply-keyboard buttons. Unknown text outside a
// conversation is ignored, matching the original bot's behaviour.
func (a *App) handleText(c tele.Context) error {
	switch c.Text() {
	case btnRegister:
		return a.handleStartRegistration(c)
	case btnAboutEvent:
		return reply(c, msgAbout)
	case btnEventInfo:
		return reply(c, a.content.Read(a.cfg.Content.AboutFile))
	case btnEventProgram:
		return reply(c, a.content.Read(a.cfg.Content.ProgramFile))
	}
	return nil
}
