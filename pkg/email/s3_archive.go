package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/daikazu/frontdoor/pkg/logger"
	"github.com/daikazu/frontdoor/pkg/secrets"
)

// ArchivePurpose is the key-derivation label for archived messages.
const ArchivePurpose = "frontdoor-mail-archive"

// S3Client is the subset of *s3.Client used for archiving.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ArchiveSender stores an encrypted copy of every message in S3 and then
// hands it to the next sender, if any. Messages carry one-time codes, so the
// object body is sealed with a key derived from the application key.
//
// With a next sender, archive failures are logged and delivery still counts as
// successful. Without one the archive is the delivery and its errors are
// returned.
type S3ArchiveSender struct {
	client S3Client
	bucket string
	prefix string
	appKey []byte
	next   EmailSender
	log    *slog.Logger
	now    func() time.Time
}

// ArchiveOption configures an S3ArchiveSender.
type ArchiveOption func(*S3ArchiveSender)

// WithArchiveClient uses a pre-built client instead of loading AWS config.
func WithArchiveClient(c S3Client) ArchiveOption {
	return func(s *S3ArchiveSender) {
		s.client = c
	}
}

// WithArchiveNext delivers through next after archiving.
func WithArchiveNext(next EmailSender) ArchiveOption {
	return func(s *S3ArchiveSender) {
		s.next = next
	}
}

// WithArchiveLogger sets the logger for archive failures.
func WithArchiveLogger(l *slog.Logger) ArchiveOption {
	return func(s *S3ArchiveSender) {
		s.log = l
	}
}

// WithArchiveClock overrides the clock used for object keys.
func WithArchiveClock(now func() time.Time) ArchiveOption {
	return func(s *S3ArchiveSender) {
		s.now = now
	}
}

// NewS3ArchiveSender creates the sender. Unless WithArchiveClient is given, an
// S3 client is built from cfg with the default AWS credential chain, or static
// keys when both are set.
func NewS3ArchiveSender(ctx context.Context, cfg ArchiveConfig, appKey []byte, opts ...ArchiveOption) (*S3ArchiveSender, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: archive bucket is required", ErrInvalidConfig)
	}
	if len(appKey) == 0 {
		return nil, fmt.Errorf("%w: app key is required", ErrInvalidConfig)
	}

	s := &S3ArchiveSender{
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		appKey: appKey,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return s, nil
}

type archivedMessage struct {
	ArchivedAt time.Time       `json:"archived_at"`
	Params     SendEmailParams `json:"params"`
}

func (s *S3ArchiveSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	archiveErr := s.archive(ctx, params)
	if s.next == nil {
		return archiveErr
	}
	if archiveErr != nil {
		s.log.WarnContext(ctx, "email archive failed",
			logger.Component("email.archive"),
			logger.Kind(params.Tag),
			logger.Error(archiveErr),
		)
	}
	return s.next.SendEmail(ctx, params)
}

// ObjectKey returns the key a message archived at t is stored under.
func (s *S3ArchiveSender) ObjectKey(t time.Time, id string) string {
	return path.Join(s.prefix, t.UTC().Format("2006/01/02"), id+".json.enc")
}

func (s *S3ArchiveSender) archive(ctx context.Context, params SendEmailParams) error {
	now := s.now()
	plain, err := json.Marshal(archivedMessage{ArchivedAt: now.UTC(), Params: params})
	if err != nil {
		return errors.Join(ErrArchiveFailed, err)
	}
	sealed, err := secrets.EncryptBytes(s.appKey, ArchivePurpose, plain)
	if err != nil {
		return errors.Join(ErrArchiveFailed, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.ObjectKey(now, uuid.NewString())),
		Body:        bytes.NewReader(sealed),
		ContentType: aws.String("application/octet-stream"),
		Metadata:    map[string]string{"kind": params.Tag},
	})
	if err != nil {
		return classifyS3Error(err)
	}
	return nil
}

func classifyS3Error(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: s3 %s: %s", ErrArchiveFailed, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return errors.Join(ErrArchiveFailed, err)
}

// OpenArchived decrypts an archived object body.
func OpenArchived(appKey, body []byte) (SendEmailParams, time.Time, error) {
	plain, err := secrets.DecryptBytes(appKey, ArchivePurpose, body)
	if err != nil {
		return SendEmailParams{}, time.Time{}, errors.Join(ErrArchiveFailed, err)
	}
	var msg archivedMessage
	if err := json.Unmarshal(plain, &msg); err != nil {
		return SendEmailParams{}, time.Time{}, errors.Join(ErrArchiveFailed, err)
	}
	return msg.Params, msg.ArchivedAt, nil
}
