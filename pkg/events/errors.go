package events

import "errors"

var (
	// ErrMetricsUnavailable indicates the metric instrument could not be created.
	ErrMetricsUnavailable = errors.New("events: metric instrument unavailable")

	// ErrIndexFailed indicates OpenSearch rejected an event document.
	ErrIndexFailed = errors.New("events: index request failed")

	// ErrSinkClosed indicates an event was emitted after Close.
	ErrSinkClosed = errors.New("events: sink closed")

	// ErrBufferFull indicates the async buffer is full and the event was dropped.
	ErrBufferFull = errors.New("events: async buffer is full")
)
