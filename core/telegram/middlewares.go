package telegram

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coreconfig "github.com/m3rciful/applybot/core/config"
	"github.com/m3rciful/applybot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// MiddlewareOptions tunes DefaultMiddlewares.
type MiddlewareOptions struct {
	// OnLimited replies to rate-limited updates; nil drops them silently.
	OnLimited tele.HandlerFunc
	// Updates counts incoming updates by kind; nil disables counting.
	Updates *prometheus.CounterVec
}

// DefaultMiddlewares builds the shared middleware chain for bots.
// RunTelegram puts the sequencer, when configured, in front of this chain.
func DefaultMiddlewares(cfg *coreconfig.Config, opts MiddlewareOptions) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "update_counter", Use: middleware.UpdateCounter(opts.Updates)},
	}

	if cfg != nil {
		interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond
		if interval > 0 {
			ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
			for _, t := range cfg.RateLimit.ExcludeUpdates {
				ex[strings.ToLower(t)] = struct{}{}
			}
			mws = append(mws, Middleware{
				Name: "rate_limit",
				Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
					Interval:  interval,
					Exclude:   ex,
					OnLimited: opts.OnLimited,
				}),
			})
		}
	}

	mws = append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)

	return mws
}
