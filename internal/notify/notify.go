// Package notify announces race results outside the web app.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/Panz66/febw/internal/bracket"
	"github.com/Panz66/febw/internal/model"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type Announcer interface {
	AnnounceWinners(ctx context.Context, c model.Competition, winners []bracket.MatchWinner) error
}

// WinnersMessage renders the channel post for the winners of session 2.
func WinnersMessage(c model.Competition, winners []bracket.MatchWinner) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏁 Hasil %s", c.Name)
	if !c.Date.IsZero() {
		fmt.Fprintf(&sb, " (%s)", c.Date.Format("02 Jan 2006"))
	}
	sb.WriteString("\n")
	if len(winners) == 0 {
		sb.WriteString("Pemenang: " + bracket.NoWinner)
		return sb.String()
	}
	for _, w := range winners {
		fmt.Fprintf(&sb, "\n🏆 %s: %s", w.MatchName, w.Winner.Name)
		if w.Winner.Plate != "" {
			fmt.Fprintf(&sb, " #%s", w.Winner.Plate)
		}
		if w.Winner.Community != "" {
			fmt.Fprintf(&sb, " (%s)", w.Winner.Community)
		}
	}
	return sb.String()
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramAnnouncer struct {
	bot    sender
	chatID int64
	log    logrus.FieldLogger
}

func NewTelegramAnnouncer(token string, chatID int64, log logrus.FieldLogger) (*TelegramAnnouncer, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	log.WithField("bot", bot.Self.UserName).Info("telegram announcer ready")
	return &TelegramAnnouncer{bot: bot, chatID: chatID, log: log}, nil
}

func (a *TelegramAnnouncer) AnnounceWinners(ctx context.Context, c model.Competition, winners []bracket.MatchWinner) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(a.chatID, WinnersMessage(c, winners))
	msg.DisableWebPagePreview = true
	if _, err := a.bot.Send(msg); err != nil {
		return fmt.Errorf("send winners of competition %d: %w", c.ID, err)
	}
	a.log.WithFields(logrus.Fields{"competition": c.ID, "winners": len(winners)}).Info("winners announced")
	return nil
}

// LogAnnouncer only writes the announcement to the log.
type LogAnnouncer struct {
	Log logrus.FieldLogger
}

func (a LogAnnouncer) AnnounceWinners(ctx context.Context, c model.Competition, winners []bracket.MatchWinner) error {
	a.Log.WithField("competition", c.ID).Info(WinnersMessage(c, winners))
	return nil
}
