package events

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/daikazu/frontdoor/pkg/logger"
)

// DefaultIndex is the OpenSearch index events are written to.
const DefaultIndex = "frontdoor-events"

// IndexMapping is the index body for the documents OpenSearchSink writes.
const IndexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "type":        {"type": "keyword"},
      "email_hash":  {"type": "keyword"},
      "account_id":  {"type": "keyword"},
      "reason":      {"type": "keyword"},
      "occurred_at": {"type": "date"}
    }
  }
}`

// document is the indexed form of an Event.
type document struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	EmailHash  string    `json:"email_hash,omitempty"`
	AccountID  string    `json:"account_id,omitempty"`
	Reason     Reason    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OpenSearchSink indexes events into OpenSearch from a background worker.
// Emit only enqueues; when the buffer is full the event is dropped and logged.
type OpenSearchSink struct {
	client  *opensearch.Client
	index   string
	timeout time.Duration
	log     *slog.Logger

	queue     chan Event
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// OpenSearchOption configures an OpenSearchSink.
type OpenSearchOption func(*OpenSearchSink)

// WithIndex overrides DefaultIndex.
func WithIndex(index string) OpenSearchOption {
	return func(s *OpenSearchSink) {
		if index != "" {
			s.index = index
		}
	}
}

// WithIndexTimeout bounds each index request. Default: 5s.
func WithIndexTimeout(d time.Duration) OpenSearchOption {
	return func(s *OpenSearchSink) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithBufferSize sets how many events may wait for indexing. Default: 1000.
func WithBufferSize(n int) OpenSearchOption {
	return func(s *OpenSearchSink) {
		if n > 0 {
			s.queue = make(chan Event, n)
		}
	}
}

// WithSinkLogger sets the logger used for indexing failures.
func WithSinkLogger(log *slog.Logger) OpenSearchOption {
	return func(s *OpenSearchSink) {
		if log != nil {
			s.log = log
		}
	}
}

// NewOpenSearchSink starts the indexing worker. Call Close to flush and stop it.
func NewOpenSearchSink(client *opensearch.Client, opts ...OpenSearchOption) *OpenSearchSink {
	s := &OpenSearchSink{
		client:  client,
		index:   DefaultIndex,
		timeout: 5 * time.Second,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		queue:   make(chan Event, 1000),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.worker()

	return s
}

func (s *OpenSearchSink) Emit(ctx context.Context, e Event) {
	select {
	case <-s.done:
		s.log.WarnContext(ctx, "event dropped", logger.EventType(string(e.Type)), logger.Error(ErrSinkClosed))
		return
	default:
	}

	select {
	case s.queue <- e:
	default:
		s.log.WarnContext(ctx, "event dropped", logger.EventType(string(e.Type)), logger.Error(ErrBufferFull))
	}
}

// Index writes a single event synchronously.
func (s *OpenSearchSink) Index(ctx context.Context, e Event) error {
	body, err := json.Marshal(toDocument(e))
	if err != nil {
		return errors.Join(ErrIndexFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := opensearchapi.IndexRequest{
		Index:      s.index,
		DocumentID: e.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errors.Join(ErrIndexFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: status %d", ErrIndexFailed, res.StatusCode)
	}
	return nil
}

// Close stops accepting events, indexes what is queued and waits for the worker.
func (s *OpenSearchSink) Close(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.done) })

	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *OpenSearchSink) worker() {
	defer s.wg.Done()

	for {
		select {
		case e := <-s.queue:
			s.write(e)
		case <-s.done:
			for {
				select {
				case e := <-s.queue:
					s.write(e)
				default:
					return
				}
			}
		}
	}
}

// write detaches from the emitting request so that its cancellation does not drop the event.
func (s *OpenSearchSink) write(e Event) {
	if err := s.Index(context.Background(), e); err != nil {
		s.log.Error("failed to index event",
			logger.EventType(string(e.Type)),
			slog.String("event_id", e.ID),
			logger.Error(err),
		)
	}
}

func toDocument(e Event) document {
	d := document{
		ID:         e.ID,
		Type:       e.Type,
		AccountID:  e.AccountID,
		Reason:     e.Reason,
		OccurredAt: e.OccurredAt,
	}
	if email := strings.ToLower(strings.TrimSpace(e.Email)); email != "" {
		sum := sha256.Sum256([]byte(email))
		d.EmailHash = hex.EncodeToString(sum[:])
	}
	return d
}
