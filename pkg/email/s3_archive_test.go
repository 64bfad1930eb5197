package email_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/daikazu/frontdoor/pkg/email"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

var archiveKey = []byte(strings.Repeat("k", 32))

func newArchive(t *testing.T, client email.S3Client, opts ...email.ArchiveOption) *email.S3ArchiveSender {
	t.Helper()
	opts = append([]email.ArchiveOption{
		email.WithArchiveClient(client),
		email.WithArchiveClock(func() time.Time { return time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC) }),
	}, opts...)
	s, err := email.NewS3ArchiveSender(context.Background(), email.ArchiveConfig{Bucket: "mail-archive", Prefix: "staging"}, archiveKey, opts...)
	require.NoError(t, err)
	return s
}

func TestNewS3ArchiveSender_InvalidConfig(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := email.NewS3ArchiveSender(ctx, email.ArchiveConfig{}, archiveKey)
	require.ErrorIs(t, err, email.ErrInvalidConfig)

	_, err = email.NewS3ArchiveSender(ctx, email.ArchiveConfig{Bucket: "b"}, nil)
	require.ErrorIs(t, err, email.ErrInvalidConfig)
}

func TestS3ArchiveSender_Archives(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var body []byte
	client := new(MockS3Client)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "mail-archive" &&
			strings.HasPrefix(*in.Key, "staging/2026/05/06/") &&
			strings.HasSuffix(*in.Key, ".json.enc") &&
			in.Metadata["kind"] == "otp"
	})).Run(func(args mock.Arguments) {
		in := args.Get(1).(*s3.PutObjectInput)
		body, _ = io.ReadAll(in.Body)
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	require.NoError(t, newArchive(t, client).SendEmail(ctx, validParams()))
	client.AssertExpectations(t)

	assert.NotContains(t, string(body), "123456", "archived body is sealed")

	params, at, err := email.OpenArchived(archiveKey, body)
	require.NoError(t, err)
	assert.Equal(t, validParams(), params)
	assert.Equal(t, 2026, at.Year())

	_, _, err = email.OpenArchived([]byte(strings.Repeat("x", 32)), body)
	require.ErrorIs(t, err, email.ErrArchiveFailed)
}

func TestS3ArchiveSender_Failures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	denied := &smithy.GenericAPIError{Code: "AccessDenied", Message: "no"}

	t.Run("archive only returns the error", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		client.On("PutObject", mock.Anything, mock.Anything).Return(nil, denied).Once()

		err := newArchive(t, client).SendEmail(ctx, validParams())
		require.ErrorIs(t, err, email.ErrArchiveFailed)
		assert.Contains(t, err.Error(), "AccessDenied")
	})

	t.Run("delivery continues when archiving fails", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("network down")).Once()

		delivered := 0
		next := email.SenderFunc(func(context.Context, email.SendEmailParams) error {
			delivered++
			return nil
		})

		require.NoError(t, newArchive(t, client, email.WithArchiveNext(next)).SendEmail(ctx, validParams()))
		assert.Equal(t, 1, delivered)
	})

	t.Run("delivery errors propagate", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		client.On("PutObject", mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil).Once()

		next := email.SenderFunc(func(context.Context, email.SendEmailParams) error {
			return email.ErrFailedToSendEmail
		})
		err := newArchive(t, client, email.WithArchiveNext(next)).SendEmail(ctx, validParams())
		require.ErrorIs(t, err, email.ErrFailedToSendEmail)
	})

	t.Run("invalid params", func(t *testing.T) {
		t.Parallel()
		client := new(MockS3Client)
		p := validParams()
		p.BodyHTML = ""
		require.ErrorIs(t, newArchive(t, client).SendEmail(ctx, p), email.ErrInvalidParams)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
	})
}
