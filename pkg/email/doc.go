// Package email sends transactional mail through a provider-agnostic
// EmailSender.
//
// Senders:
//   - NewPostmarkClient delivers through Postmark.
//   - NewDevSender writes each message to a directory as HTML plus a JSON
//     envelope, for local development.
//   - NewS3ArchiveSender stores an encrypted copy of every message in S3,
//     optionally in front of another sender. Staging environments use it to
//     inspect codes without a real inbox.
//
// Every sender validates SendEmailParams first and reports ErrInvalidParams
// before touching the network or disk. Delivery failures wrap
// ErrFailedToSendEmail.
//
// Message bodies are rendered from the templ components in the templates
// subpackage.
package email
