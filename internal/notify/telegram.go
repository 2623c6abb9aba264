// Package notify sends operational Telegram alerts: providers entering
// backoff and offers priced meaningfully better than the fair consensus.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/fairline/internal/pkg/models"
)

// Min interval between any two messages to the same chat to avoid
// 429 Too Many Requests (~30/min limit).
const sendInterval = 2 * time.Second

// TelegramNotifier queues messages and sends them asynchronously so alert
// bursts never block the scheduler or the aggregation loop.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	queue chan string
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewTelegramNotifier creates the notifier and verifies the bot token.
// Returns nil (alerts disabled) when the bot cannot be created.
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("telegram bot connection test failed", "error", err)
		return nil
	}

	n := &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		queue:  make(chan string, 100),
		done:   make(chan struct{}),
	}
	n.wg.Add(1)
	go n.sender()

	slog.Info("telegram notifier started", "chat_id", chatID)
	return n
}

// ProviderBackoff alerts that a (provider, endpoint) pair entered BACKOFF.
// Implements the scheduler's notifier hook.
func (n *TelegramNotifier) ProviderBackoff(h models.ProviderHealth) {
	n.enqueue(fmt.Sprintf(
		"⛔ Provider %s (%s) entered backoff\nconsecutive failures: %d\nretrying after: %s",
		h.ProviderID, h.Endpoint, h.ConsecutiveFailures,
		time.Unix(h.BackoffUntil, 0).UTC().Format(time.RFC3339),
	))
}

// ValueAlert reports an offer priced above the fair consensus.
func (n *TelegramNotifier) ValueAlert(eventID, matchName, side string, offer models.Offer, fairOdds, valuePercent float64) {
	n.enqueue(fmt.Sprintf(
		"💰 Value on %s (%s)\nside: %s\n%s offers %+.0f, fair %+.0f (value %.1f%%)",
		matchName, eventID, side, offer.Bookmaker, offer.Odds, fairOdds, valuePercent,
	))
}

// enqueue never blocks; when the queue is full the alert is dropped with a
// log instead of stalling the caller.
func (n *TelegramNotifier) enqueue(text string) {
	select {
	case n.queue <- text:
	default:
		slog.Warn("telegram queue full, dropping alert")
	}
}

func (n *TelegramNotifier) sender() {
	defer n.wg.Done()
	var lastSend time.Time
	for {
		select {
		case <-n.done:
			return
		case text := <-n.queue:
			if wait := sendInterval - time.Since(lastSend); wait > 0 {
				time.Sleep(wait)
			}
			msg := tgbotapi.NewMessage(n.chatID, text)
			if _, err := n.bot.Send(msg); err != nil {
				slog.Warn("failed to send telegram message", "error", err)
			}
			lastSend = time.Now()
		}
	}
}

// Stop ends the sender goroutine. Queued but unsent alerts are dropped.
func (n *TelegramNotifier) Stop() {
	close(n.done)
	n.wg.Wait()
}
