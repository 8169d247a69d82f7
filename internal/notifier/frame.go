package notifier

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/cc-courses/internal/frame"
	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

// Broadcaster delivers one notification to every subscribed user.
type Broadcaster interface {
	Broadcast(ctx context.Context, n frame.Notification) (int, error)
}

// FrameNotifier sends a frame notification to every stored token.
type FrameNotifier struct {
	sender Broadcaster
}

// NewFrameNotifier wraps a frame sender.
func NewFrameNotifier(sender Broadcaster) *FrameNotifier {
	return &FrameNotifier{sender: sender}
}

// Notify sends a single notification summarizing the batch.
func (n *FrameNotifier) Notify(ctx context.Context, rows []schedule.Row) error {
	if len(rows) == 0 {
		return nil
	}

	title := "New course posted"
	if len(rows) > 1 {
		title = "New courses posted"
	}

	sent, err := n.sender.Broadcast(ctx, frame.Notification{
		Title: title,
		Body:  headline(rows),
	})
	if err != nil {
		return fmt.Errorf("broadcasting frame notification: %w", err)
	}

	logger.Info("sent frame notifications", logger.Fields{"recipients": sent, "rows": len(rows)})
	return nil
}
