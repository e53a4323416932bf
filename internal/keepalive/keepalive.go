// Package keepalive pings the bot's own public URL so free-tier hosts do
// not put the service to sleep between updates.
package keepalive

import (
	"context"
	"net/http"
	"time"

	"kinobot/core/logger"
	"log/slog"
)

// Options configure the pinger.
type Options struct {
	URL      string
	Interval time.Duration
	Client   *http.Client
}

// Run pings opts.URL every opts.Interval until the context is cancelled.
// Failed pings are logged and the loop continues.
func Run(ctx context.Context, opts Options) {
	if opts.URL == "" || opts.Interval <= 0 {
		return
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	logger.LogEvent(ctx, logger.KA, slog.LevelInfo, "keepalive.start",
		slog.String("public_url", opts.URL),
		slog.Int64("interval_ms", opts.Interval.Milliseconds()),
	)

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.LogEvent(ctx, logger.KA, slog.LevelInfo, "keepalive.stop")
			return
		case <-ticker.C:
			ping(ctx, client, opts.URL)
		}
	}
}

func ping(ctx context.Context, client *http.Client, url string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.LogEvent(ctx, logger.KA, slog.LevelWarn, "keepalive.fail",
			slog.String("err", err.Error()),
		)
		return
	}

	resp, err := client.Do(req)
	if err != nil {
		logger.LogEvent(ctx, logger.KA, slog.LevelWarn, "keepalive.fail",
			slog.String("err", err.Error()),
		)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	logger.LogEvent(ctx, logger.KA, slog.LevelDebug, "keepalive.ping",
		slog.Int("http_code", resp.StatusCode),
	)
}
