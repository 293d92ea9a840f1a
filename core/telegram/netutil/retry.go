// Package netutil classifies Telegram API failures for retry decisions.
package netutil

import (
	"errors"
	"net"
	"net/url"
	"time"

	tele "gopkg.in/telebot.v4"
)

// maxFloodWait caps how long a flood-control reply may stall a sender.
const maxFloodWait = 30 * time.Second

// ShouldRetry reports whether an error is worth retrying: transient dial and
// timeout failures from net/http, and Telegram flood control replies.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if RetryAfter(err) > 0 {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() || opErr.Op == "dial" {
			return true
		}
		if nested, ok := opErr.Err.(net.Error); ok && nested.Timeout() {
			return true
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && !errors.Is(urlErr.Err, err) {
			return ShouldRetry(urlErr.Err)
		}
	}

	return false
}

// RetryAfter returns the wait requested by a Telegram flood control error, or 0.
func RetryAfter(err error) time.Duration {
	var flood tele.FloodError
	if !errors.As(err, &flood) || flood.RetryAfter <= 0 {
		return 0
	}
	wait := time.Duration(flood.RetryAfter) * time.Second
	if wait > maxFloodWait {
		wait = maxFloodWait
	}
	return wait
}
