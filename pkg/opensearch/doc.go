// Package opensearch wraps github.com/opensearch-project/opensearch-go/v2 with
// env-driven configuration, a connect-time health check and index bootstrap.
//
//	client, err := opensearch.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	if err := opensearch.EnsureIndex(ctx, client, cfg.EventsIndex, events.IndexMapping); err != nil {
//	    return err
//	}
//
// The client feeds events.OpenSearchSink, which indexes authentication events
// for later search. Healthcheck returns a readiness probe.
package opensearch
