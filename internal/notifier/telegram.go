package notifier

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/cc-courses/internal/schedule"
	"github.com/pfrederiksen/cc-courses/internal/telegram"
)

// digestThreshold is the batch size above which rows are sent as one digest.
const digestThreshold = 5

// TelegramNotifier posts new course rows to a Telegram chat
type TelegramNotifier struct {
	client      *telegram.Client
	scheduleURL string
}

// NewTelegramNotifier creates a notifier for the given bot and chat.
func NewTelegramNotifier(botToken, chatID, scheduleURL string, opts ...telegram.Option) (*TelegramNotifier, error) {
	client, err := telegram.NewClient(botToken, chatID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}
	return &TelegramNotifier{client: client, scheduleURL: scheduleURL}, nil
}

// Notify sends one message per row, or a single digest for large batches.
func (n *TelegramNotifier) Notify(ctx context.Context, rows []schedule.Row) error {
	if len(rows) == 0 {
		return nil
	}

	if len(rows) > digestThreshold {
		if err := n.client.SendMessage(ctx, telegram.FormatDigest(rows, n.scheduleURL)); err != nil {
			return fmt.Errorf("sending telegram digest: %w", err)
		}
		return nil
	}

	for _, r := range rows {
		if err := n.client.SendMessage(ctx, telegram.FormatRow(r)); err != nil {
			return fmt.Errorf("sending telegram message for row %s: %w", r.ID(), err)
		}
	}
	return nil
}
