package quiz

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PoolWarmer periodically refreshes the cached category pool so random quiz
// requests rarely touch the database.
type PoolWarmer struct {
	pool     *CategoryPool
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewPoolWarmer(pool *CategoryPool, interval time.Duration, logger zerolog.Logger) *PoolWarmer {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &PoolWarmer{
		pool:     pool,
		interval: interval,
		timeout:  10 * time.Second,
		logger:   logger.With().Str("component", "pool_warmer").Logger(),
	}
}

// Run warms once immediately, then on every tick until ctx is done.
func (w *PoolWarmer) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.warm(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("pool warmer stopping")
			return nil
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *PoolWarmer) warm(ctx context.Context) {
	warmCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	valid, err := w.pool.Refresh(warmCtx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("pool refresh failed")
		return
	}
	w.logger.Debug().Int("valid", len(valid)).Msg("category pool refreshed")
}
