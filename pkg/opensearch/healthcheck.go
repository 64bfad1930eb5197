package opensearch

import (
	"context"
	"fmt"

	"github.com/opensearch-project/opensearch-go/v2"
)

// Healthcheck probes the cluster info endpoint.
func Healthcheck(client *opensearch.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		res, err := client.Info(client.Info.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
		}
		defer res.Body.Close()

		if res.IsError() {
			return fmt.Errorf("%w: %s", ErrHealthcheckFailed, res.Status())
		}
		return nil
	}
}
