// Package broadcast posts application summaries to the configured channel.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/applybot/core/logger"
	"github.com/m3rciful/applybot/core/telegram/netutil"
	"github.com/m3rciful/applybot/internal/submission"
)

// Sender is the part of *tele.Bot used for posting.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Channel sends MarkdownV2 texts to one recipient. A flood-control reply is
// retried once after the requested wait.
type Channel struct {
	sender Sender
	to     tele.Recipient
	wait   func(ctx context.Context, d time.Duration) error
}

var _ submission.Notifier = (*Channel)(nil)

// New returns a Channel posting to "to" through sender.
func New(sender Sender, to tele.Recipient) (*Channel, error) {
	if sender == nil {
		return nil, errors.New("broadcast: nil sender")
	}
	if to == nil || to.Recipient() == "" {
		return nil, errors.New("broadcast: empty channel")
	}
	return &Channel{sender: sender, to: to, wait: sleep}, nil
}

// Notify posts text. ctx bounds the flood wait; telebot itself has no per-call context.
func (c *Channel) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdownV2}
	start := time.Now()

	_, err := c.sender.Send(c.to, text, opts)
	if d := netutil.RetryAfter(err); d > 0 {
		logger.Warn(ctx, logger.CompBroadcast, "broadcast.flood",
			slog.String("channel", c.to.Recipient()),
			slog.Duration("retry_after", d),
		)
		if werr := c.wait(ctx, d); werr != nil {
			return fmt.Errorf("broadcast: %w", werr)
		}
		_, err = c.sender.Send(c.to, text, opts)
	}
	if err != nil {
		return fmt.Errorf("broadcast to %s: %w", c.to.Recipient(), err)
	}
	logger.Info(ctx, logger.CompBroadcast, "broadcast.sent",
		slog.String("channel", c.to.Recipient()),
		slog.String("outcome", "ok"),
		slog.Duration("took", logger.Took(start)),
	)
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
