package netutil

import (
	"errors"
	"net"
	"net/url"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return false }

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("bad request"), false},
		{"timeout", timeoutErr{}, true},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"read", &net.OpError{Op: "read", Err: errors.New("reset")}, false},
		{"url wrapping dial", &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: &net.OpError{Op: "dial", Err: errors.New("refused")}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldRetry(tc.err); got != tc.want {
				t.Fatalf("ShouldRetry(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestRetryAfterFlood(t *testing.T) {
	err := tele.FloodError{RetryAfter: 3}
	if got := RetryAfter(err); got != 3*time.Second {
		t.Fatalf("RetryAfter = %v", got)
	}
	if !ShouldRetry(err) {
		t.Fatal("flood errors must be retried")
	}
	if got := RetryAfter(tele.FloodError{RetryAfter: 600}); got != maxFloodWait {
		t.Fatalf("RetryAfter not capped: %v", got)
	}
	if RetryAfter(errors.New("x")) != 0 {
		t.Fatal("plain errors carry no wait")
	}
}
