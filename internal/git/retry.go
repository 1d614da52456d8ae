package git

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/retry"
)

// withRetry runs fn under the client policy. Unclassified failures are
// retried; classified ones follow their retry strategy.
func (c *Client) withRetry(ctx context.Context, op, repoName string, fn func() (CheckoutResult, error)) (CheckoutResult, error) {
	return retry.Do(ctx, c.policy, retry.Hooks{
		Permanent: isPermanent,
		Sleep:     c.sleep,
		OnRetry: func(n int, lastErr error) {
			slog.WarnContext(ctx, "Retrying git operation",
				slog.String("operation", op),
				logfields.Repository(repoName),
				slog.Int("attempt", n),
				logfields.Error(lastErr))
			c.recorder.IncCheckoutRetry(repoName)
		},
	}, fn)
}
