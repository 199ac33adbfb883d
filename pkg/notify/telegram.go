package notify

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"movingmatch/pkg/logger"
)

// TelegramMirror decorates a Fanout so every published event is also
// sent to an ops chat. Send failures are logged and swallowed like any
// other push failure.
type TelegramMirror struct {
	next   Fanout
	bot    *tele.Bot
	chatID int64
	log    logger.ILogger
}

func NewTelegramMirror(next Fanout, token string, chatID int64, log logger.ILogger) (*TelegramMirror, error) {
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}
	return &TelegramMirror{next: next, bot: b, chatID: chatID, log: log}, nil
}

func (m *TelegramMirror) Register(userID int64) chan Event {
	return m.next.Register(userID)
}

func (m *TelegramMirror) Unregister(userID int64, ch chan Event) {
	m.next.Unregister(userID, ch)
}

func (m *TelegramMirror) Publish(ctx context.Context, ev Event) {
	m.next.Publish(ctx, ev)

	text := fmt.Sprintf("%s → user %d\n%s", ev.Type, ev.UserID, ev.Payload)
	if _, err := m.bot.Send(&tele.Chat{ID: m.chatID}, text); err != nil {
		m.log.Warning("failed to mirror event to telegram", logger.Error(err))
	}
}
