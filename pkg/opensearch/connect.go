package opensearch

import (
	"context"
	"fmt"

	"github.com/opensearch-project/opensearch-go/v2"
)

// New returns a client for cfg once the cluster has answered an info request.
func New(ctx context.Context, cfg Config) (*opensearch.Client, error) {
	client, err := opensearch.NewClient(cfg.clientConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	if err := Healthcheck(client)(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func (c Config) clientConfig() opensearch.Config {
	return opensearch.Config{
		Addresses:    c.Addresses,
		Username:     c.Username,
		Password:     c.Password,
		MaxRetries:   c.MaxRetries,
		DisableRetry: c.DisableRetry,
	}
}
