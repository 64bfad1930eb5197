package email

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/daikazu/frontdoor/pkg/logger"
	"github.com/daikazu/frontdoor/pkg/sanitizer"
)

// DevSender writes each message to dir as an HTML body plus a JSON envelope
// instead of delivering it. Recipients are masked in logs.
type DevSender struct {
	dir string
	log *slog.Logger
	now func() time.Time
}

// DevSenderOption configures a DevSender.
type DevSenderOption func(*DevSender)

// WithDevLogger logs every written message.
func WithDevLogger(l *slog.Logger) DevSenderOption {
	return func(d *DevSender) {
		d.log = l
	}
}

// WithDevClock overrides the timestamp source.
func WithDevClock(now func() time.Time) DevSenderOption {
	return func(d *DevSender) {
		d.now = now
	}
}

// NewDevSender creates a sender writing into dir, created on first use.
func NewDevSender(dir string, opts ...DevSenderOption) *DevSender {
	d := &DevSender{
		dir: dir,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type devEnvelope struct {
	Timestamp string `json:"timestamp"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSendEmail, err)
	}

	now := d.now()
	label := params.Tag
	if label == "" {
		label = params.Subject
	}
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405.000000"), sanitizeFilename(label))

	htmlPath := filepath.Join(d.dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(params.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write HTML file: %v", ErrFailedToSendEmail, err)
	}

	envelope, err := json.MarshalIndent(devEnvelope{
		Timestamp: now.Format(time.RFC3339),
		SendTo:    params.SendTo,
		Subject:   params.Subject,
		Tag:       params.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal envelope: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), envelope, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write JSON file: %v", ErrFailedToSendEmail, err)
	}

	d.log.InfoContext(ctx, "email written to disk",
		logger.Component("email.dev"),
		slog.String("to", sanitizer.MaskEmail(params.SendTo)),
		slog.String("subject", params.Subject),
		slog.String("path", htmlPath),
	)
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
