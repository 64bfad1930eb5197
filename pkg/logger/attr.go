package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Email records a short digest of the address under the key "email_hash".
// Plaintext addresses never reach the log. Empty input returns an empty Attr.
func Email(email string) slog.Attr {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return slog.Attr{}
	}
	sum := sha256.Sum256([]byte(email))
	return slog.String("email_hash", hex.EncodeToString(sum[:6]))
}

// AccountID records the account identifier under the key "account_id".
// If id is empty, it returns an empty Attr.
func AccountID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("account_id", id)
}

// EventType records the event type under the key "event_type".
func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

// Reason records a failure reason under the key "reason".
func Reason(reason string) slog.Attr {
	if reason == "" {
		return slog.Attr{}
	}
	return slog.String("reason", reason)
}

// RetryAfter records a wait hint in whole seconds under the key "retry_after".
func RetryAfter(d time.Duration) slog.Attr {
	return slog.Int64("retry_after", int64(d/time.Second))
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Kind records a message or record kind under the key "kind".
func Kind(kind string) slog.Attr {
	return slog.String("kind", kind)
}
