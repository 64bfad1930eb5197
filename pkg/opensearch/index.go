package opensearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// EnsureIndex creates index with the given body (settings and mappings as
// JSON) unless it already exists. A concurrent creation by another process is
// not an error.
func EnsureIndex(ctx context.Context, client *opensearch.Client, index, body string) error {
	exists, err := opensearchapi.IndicesExistsRequest{Index: []string{index}}.Do(ctx, client)
	if err != nil {
		return errors.Join(ErrIndexSetupFailed, err)
	}
	exists.Body.Close()

	switch exists.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return errors.Join(ErrIndexSetupFailed, fmt.Errorf("index %s: status %s", index, exists.Status()))
	}

	req := opensearchapi.IndicesCreateRequest{Index: index}
	if body != "" {
		req.Body = strings.NewReader(body)
	}

	res, err := req.Do(ctx, client)
	if err != nil {
		return errors.Join(ErrIndexSetupFailed, err)
	}
	defer res.Body.Close()

	if !res.IsError() {
		return nil
	}

	payload, _ := io.ReadAll(res.Body)
	// A concurrent creation is reported as 400 resource_already_exists_exception.
	if res.StatusCode == http.StatusBadRequest && strings.Contains(string(payload), "resource_already_exists_exception") {
		return nil
	}

	return errors.Join(ErrIndexSetupFailed, fmt.Errorf("index %s: status %s", index, res.Status()))
}
