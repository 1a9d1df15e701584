// Package bot is the conversation engine: it routes each user message
// through the per-state rule table and answers with a Reply.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anchal00/campbot/internal/db"
	"github.com/anchal00/campbot/internal/logger"
	"github.com/anchal00/campbot/internal/metrics"
	"github.com/anchal00/campbot/internal/state"
)

// Messenger delivers replies to a user over whatever transport they came in on.
type Messenger interface {
	Send(ctx context.Context, user state.UserID, reply Reply) error
}

type Bot struct {
	Db       db.Repository
	Sessions state.SessionStore
	Locker   *state.Locker
	Logger   logger.Logger
	Metrics  *metrics.Metrics
}

func New(repo db.Repository, sessions state.SessionStore, m *metrics.Metrics) *Bot {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Bot{
		Db:       repo,
		Sessions: sessions,
		Locker:   state.NewLocker(),
		Logger:   logger.New("bot"),
		Metrics:  m,
	}
}

// Handle runs one user message through the state machine. Loading the
// session, the transition and saving the session happen under the user's lock.
func (b *Bot) Handle(ctx context.Context, user state.UserID, text string) Reply {
	unlock := b.Locker.Lock(user)
	defer unlock()

	log := b.Logger.With("user", int64(user))
	session, err := b.Sessions.GetSession(ctx, user)
	if err != nil {
		log.Error("Failed to load session", err)
		b.countFailure(kindStore)
		return failureReply(kindStore)
	}
	ev := &event{
		user:    user,
		text:    strings.TrimSpace(text),
		session: session,
		log:     log.With("state", string(session.State)),
	}
	r := route(ev)
	ev.log.Debug(fmt.Sprintf("Matched rule %s", r.name))
	reply := r.handle(b, ctx, ev)
	b.Metrics.Messages.WithLabelValues(r.name).Inc()

	if err := b.Sessions.SetSession(ctx, user, ev.session); err != nil {
		ev.log.Error("Failed to save session", err)
		b.countFailure(kindStore)
		return failureReply(kindStore)
	}
	return reply
}

// Dispatch handles the message and sends the reply through m.
func (b *Bot) Dispatch(ctx context.Context, m Messenger, user state.UserID, text string) error {
	reply := b.Handle(ctx, user, text)
	if err := m.Send(ctx, user, reply); err != nil {
		b.Logger.With("user", int64(user)).Error("Failed to send reply", err)
		return err
	}
	return nil
}

type errorKind string

const (
	kindNotFound      errorKind = "not_found"
	kindValidation    errorKind = "validation"
	kindStore         errorKind = "store"
	kindStateMismatch errorKind = "state_mismatch"
)

func kindOf(err error) errorKind {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return kindNotFound
	case errors.Is(err, db.ErrInvalidRating), errors.Is(err, db.ErrInvalidStatus):
		return kindValidation
	case errors.Is(err, db.ErrStateMismatch):
		return kindStateMismatch
	}
	return kindStore
}

func (b *Bot) countFailure(kind errorKind) {
	b.Metrics.Failures.WithLabelValues(string(kind)).Inc()
}

// fail answers an error. Validation failures keep the session so the user can
// retry; every other kind ends the flow.
func (b *Bot) fail(ev *event, err error) Reply {
	kind := kindOf(err)
	b.countFailure(kind)
	if kind == kindStore {
		ev.log.Error("Store failure", err)
	}
	if kind != kindValidation {
		ev.session.Clear()
	}
	return failureReply(kind)
}

func failureReply(kind errorKind) Reply {
	switch kind {
	case kindNotFound:
		return Reply{Text: "🚫 Game not found or not yet approved by a moderator", Keyboard: mainMenu()}
	case kindValidation:
		return Reply{Text: "⚠️ Please choose a rating from 1 to 5"}
	case kindStateMismatch:
		return Reply{Text: "❌ Please rate the game first", Keyboard: mainMenu()}
	}
	return Reply{Text: "❌ Something went wrong, please try again", Keyboard: mainMenu()}
}
