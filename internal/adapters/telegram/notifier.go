// Package telegram delivers sentiment alerts to a configured chat.
package telegram

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"tickerpulse/internal/domain/sentiment"
	"tickerpulse/internal/metrics"
	"tickerpulse/pkg/errors"
	"tickerpulse/pkg/logger"
)

// Notifier sends alert messages to a single Telegram chat. Telegram
// caps bots around 30 messages/second; one per second is plenty for
// watchlist alerts and keeps us far from the limit.
type Notifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewNotifier creates a notifier and verifies the bot token
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "create telegram bot")
	}

	return &Notifier{
		bot:     bot,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(1), 3),
		log:     logger.Get().With("component", "telegram"),
	}, nil
}

// SendAlert notifies the chat that a ticker crossed the alert threshold
func (n *Notifier) SendAlert(ctx context.Context, snap *sentiment.Snapshot) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, formatAlert(snap))
	msg.ParseMode = tgbotapi.ModeMarkdown

	_, err := n.bot.Send(msg)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.AlertsSent.WithLabelValues("telegram", status).Inc()

	if err != nil {
		return errors.Wrap(err, "send telegram message")
	}

	n.log.Infow("Alert sent", "ticker", snap.Ticker, "score", snap.Overall.WeightedScore)
	return nil
}

func formatAlert(snap *sentiment.Snapshot) string {
	direction := "🟢 Bullish"
	if snap.Overall.WeightedScore < 0 {
		direction = "🔴 Bearish"
	}

	return fmt.Sprintf(
		"%s *%s* sentiment alert\n\n"+
			"Weighted score: `%+.2f`\n"+
			"Items analyzed: %s\n"+
			"As of: %s",
		direction,
		snap.Ticker,
		snap.Overall.WeightedScore,
		humanize.Comma(int64(snap.ItemCount)),
		humanize.Time(snap.AsOf),
	)
}
