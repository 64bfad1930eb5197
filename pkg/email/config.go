package email

// Config holds Postmark settings. Tokens may be empty in development, where
// cmd/frontdoor falls back to DevSender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
	DevOutputDir         string `env:"EMAIL_DEV_OUTPUT_DIR" envDefault:"./tmp/mail"`
}

// Enabled reports whether Postmark credentials are present.
func (c Config) Enabled() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}

// ArchiveConfig configures S3ArchiveSender. Leave Bucket empty to disable
// archiving.
type ArchiveConfig struct {
	Bucket         string `env:"EMAIL_ARCHIVE_BUCKET"`
	Region         string `env:"EMAIL_ARCHIVE_REGION" envDefault:"us-east-1"`
	Prefix         string `env:"EMAIL_ARCHIVE_PREFIX" envDefault:"mail"`
	Endpoint       string `env:"EMAIL_ARCHIVE_ENDPOINT"`
	AccessKeyID    string `env:"EMAIL_ARCHIVE_ACCESS_KEY_ID"`
	SecretKey      string `env:"EMAIL_ARCHIVE_SECRET_KEY"`
	ForcePathStyle bool   `env:"EMAIL_ARCHIVE_FORCE_PATH_STYLE" envDefault:"false"`
}
