// Package conversation provides a multi-step form engine for Telegram bots.
// A Flow declares ordered steps; the Manager keeps one active session per
// user and advances it on each incoming message until the flow completes,
// is cancelled, or the session expires.
package conversation

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"guestbot/core/logger"
	tghelpers "guestbot/core/telegram/helpers"

	"github.com/zekroTJA/timedmap"
	tele "gopkg.in/telebot.v4"
)

// ErrActive is returned by Start when the user already has a session.
var ErrActive = errors.New("conversation: already in progress")

// DefaultTTL bounds how long an idle session survives before expiry.
const DefaultTTL = 30 * time.Minute

// Step is a single prompt/answer exchange within a flow. Validate, if set,
// rejects an answer and keeps the session on the same step; the returned
// string is shown to the user as the retry prompt. Without a validator the
// step accepts any non-empty answer after trimming.
type Step struct {
	Field    string
	Prompt   string
	Validate func(answer string) (string, bool)
}

// Flow declares an ordered sequence of steps and completion hooks.
type Flow struct {
	Name  string
	Steps []Step

	// OnComplete receives the collected field values once every step has
	// been answered. The session is removed before the hook runs.
	OnComplete func(c tele.Context, values map[string]string) error

	// Cancelled, if set, is invoked after an explicit /cancel.
	Cancelled func(c tele.Context) error
}

type session struct {
	flow    *Flow
	step    int
	values  map[string]string
	started time.Time
}

// Manager tracks at most one active session per user. Sessions expire
// after the configured TTL without activity.
type Manager struct {
	sessions *timedmap.TimedMap
	ttl      time.Duration
}

// NewManager builds a Manager. A non-positive ttl selects DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: timedmap.New(ttl / 2),
		ttl:      ttl,
	}
}

// Start begins a flow for the user and sends the first step's prompt.
// Returns ErrActive if a session already exists for this user.
func (m *Manager) Start(c tele.Context, flow *Flow) error {
	if flow == nil || len(flow.Steps) == 0 {
		return errors.New("conversation: empty flow")
	}
	userID := c.Sender().ID
	if m.sessions.Contains(userID) {
		return ErrActive
	}

	m.sessions.Set(userID, &session{
		flow:    flow,
		values:  make(map[string]string, len(flow.Steps)),
		started: time.Now(),
	}, m.ttl)

	ctx := tghelpers.BuildContext(c)
	logger.Info(ctx, "conversation", "flow.start",
		slog.String("flow", flow.Name),
	)

	return tghelpers.SendText(c, flow.Steps[0].Prompt)
}

// InProgress reports whether the user has an active session.
func (m *Manager) InProgress(userID int64) bool {
	return m.sessions.Contains(userID)
}

// ManagerHandler consumes one incoming message for the user's active
// session: validates the answer, records it and advances to the next step
// or completes the flow.
func (m *Manager) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	raw := m.sessions.GetValue(userID)
	sess, ok := raw.(*session)
	if !ok || sess == nil {
		return nil
	}

	step := sess.flow.Steps[sess.step]
	answer := strings.TrimSpace(c.Text())
	ctx := tghelpers.BuildContext(c)

	// A step without its own validator still refuses empty input; the
	// current prompt is sent again.
	retry, valid := step.Prompt, answer != ""
	if step.Validate != nil {
		retry, valid = step.Validate(answer)
	}
	if !valid {
		logger.Debug(ctx, "conversation", "step.invalid",
			slog.String("flow", sess.flow.Name),
			slog.String("field", step.Field),
		)
		if err := m.sessions.Refresh(userID, m.ttl); err != nil {
			return nil
		}
		return tghelpers.SendText(c, retry)
	}

	sess.values[step.Field] = answer
	sess.step++

	if sess.step < len(sess.flow.Steps) {
		if err := m.sessions.Refresh(userID, m.ttl); err != nil {
			return nil
		}
		return tghelpers.SendText(c, sess.flow.Steps[sess.step].Prompt)
	}

	m.sessions.Remove(userID)
	logger.Info(ctx, "conversation", "flow.complete",
		slog.String("flow", sess.flow.Name),
		slog.Duration("duration", logger.RoundMS(time.Since(sess.started))),
	)

	if sess.flow.OnComplete != nil {
		return sess.flow.OnComplete(c, sess.values)
	}
	return nil
}

// Cancel aborts the user's session, if any, and runs the flow's Cancelled
// hook. Reports whether a session was actually cancelled.
func (m *Manager) Cancel(c tele.Context) (bool, error) {
	userID := c.Sender().ID
	raw := m.sessions.GetValue(userID)
	sess, ok := raw.(*session)
	if !ok || sess == nil {
		return false, nil
	}

	m.sessions.Remove(userID)

	ctx := tghelpers.BuildContext(c)
	logger.Info(ctx, "conversation", "flow.cancel",
		slog.String("flow", sess.flow.Name),
	)

	if sess.flow.Cancelled != nil {
		return true, sess.flow.Cancelled(c)
	}
	return true, nil
}

// Forget drops the user's session without running any hooks.
func (m *Manager) Forget(userID int64) {
	m.sessions.Remove(userID)
}
