// Package account resolves email addresses to user accounts.
//
// A Driver answers two questions: does an account exist for this email, and
// which account is it. A CreatableDriver can also create accounts from a
// registration form and describes the fields that form needs. Callers bind a
// driver once with Bind so the registration capability is checked at start-up
// rather than per request.
//
// Drivers shipped here:
//
//   - CacheDriver stores accounts as JSON in any KV (pkg/cache or pkg/redis),
//     optionally on top of seed accounts. Useful in development and tests.
//   - ConfigDriver serves a read-only list loaded with LoadSeeds.
//
// Database-backed drivers live in the postgres and mongodb subpackages.
//
// Accounts expose their attributes through Field for templates, and Avatar
// builds a deterministic gradient avatar from the email.
package account
