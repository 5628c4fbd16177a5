package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	tele "gopkg.in/telebot.v4"

	"guestbot/core/logger"
	tghelpers "guestbot/core/telegram/helpers"
	"guestbot/guest"
)

const broadcastWorkers = 8

// Notifier delivers a message to a single recipient. *tele.Bot satisfies it.
type Notifier interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// BroadcastResult accounts one fan-out run. Failed holds the sorted ids of
// unreachable recipients; Err aggregates their individual causes.
type BroadcastResult struct {
	Sent   int
	Failed []string
	Err    error
}

// broadcastAll delivers text to every roster entry, pending included, with
// bounded parallelism. A failed recipient never aborts the rest; ids without
// a Telegram identity (manual_*) are counted as failures.
func broadcastAll(ctx context.Context, n Notifier, recs []guest.Record, text string) BroadcastResult {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		sem    = make(chan struct{}, broadcastWorkers)
		failed []string
		merr   *multierror.Error
		sent   int
	)

	fail := func(id string, err error) {
		mu.Lock()
		failed = append(failed, id)
		merr = multierror.Append(merr, fmt.Errorf("guest %s: %w", id, err))
		mu.Unlock()
	}

	for _, rec := range recs {
		chatID, err := strconv.ParseInt(rec.ID, 10, 64)
		if err != nil {
			fail(rec.ID, fmt.Errorf("no telegram identity"))
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(id string, chatID int64) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := n.Send(tele.ChatID(chatID), text, &tele.SendOptions{Protected: true})
			if err != nil {
				fail(id, err)
				return
			}
			mu.Lock()
			sent++
			mu.Unlock()
		}(rec.ID, chatID)
	}
	wg.Wait()

	sort.Strings(failed)

	res := BroadcastResult{Sent: sent, Failed: failed, Err: merr.ErrorOrNil()}
	attrs := []slog.Attr{
		slog.Int("count", len(recs)),
		slog.Int("failed", len(failed)),
	}
	if res.Err != nil {
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(res.Err.Error(), 512)))
		logger.Warn(ctx, "broadcast", "broadcast.partial", attrs...)
	} else {
		logger.Info(ctx, "broadcast", "broadcast.complete", attrs...)
	}
	return res
}

func (a *App) handleBroadcast(c tele.Context) error {
	text := strings.TrimSpace(c.Message().Payload)
	if text == "" {
		return reply(c, msgBroadcastUsage)
	}

	ctx := tghelpers.BuildContext(c)
	res := broadcastAll(ctx, c.Bot(), a.guests.List(), text)

	if len(res.Failed) > 0 {
		return reply(c, fmt.Sprintf(msgBroadcastPartial, strings.Join(res.Failed, ", ")))
	}
	return reply(c, msgBroadcastOK)
}
