package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daikazu/frontdoor/pkg/account"
	"github.com/daikazu/frontdoor/pkg/pg"
	"github.com/daikazu/frontdoor/pkg/sanitizer"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the goose files.
const MigrationsDir = "migrations"

// Migrations returns the embedded schema for use with pg.Migrate.
func Migrations() embed.FS {
	return migrations
}

// Querier is the subset of pgxpool.Pool the driver needs. pgx.Tx satisfies it
// as well.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Querier = (*pgxpool.Pool)(nil)

// Driver stores accounts in the frontdoor_accounts table.
type Driver struct {
	db  Querier
	now func() time.Time
}

// Option configures a Driver.
type Option func(*Driver)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		d.now = now
	}
}

// New creates a Driver. Run pg.Migrate with Migrations first.
func New(db Querier, opts ...Option) *Driver {
	d := &Driver{db: db, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

const (
	selectByEmail = `SELECT id, email, name, phone, avatar_url, metadata
		FROM frontdoor_accounts WHERE email = $1`

	existsByEmail = `SELECT EXISTS (SELECT 1 FROM frontdoor_accounts WHERE email = $1)`

	insertAccount = `INSERT INTO frontdoor_accounts (id, email, name, phone, avatar_url, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, email, name, phone, avatar_url, metadata`
)

func (d *Driver) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	key := sanitizer.NormalizeEmail(email)
	if key == "" {
		return nil, account.ErrNotFound
	}

	a, err := scanAccount(d.db.QueryRow(ctx, selectByEmail, key))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, account.ErrNotFound
		}
		return nil, errors.Join(account.ErrStorageFailed, err)
	}
	return a, nil
}

func (d *Driver) Exists(ctx context.Context, email string) (bool, error) {
	key := sanitizer.NormalizeEmail(email)
	if key == "" {
		return false, nil
	}

	var exists bool
	if err := d.db.QueryRow(ctx, existsByEmail, key).Scan(&exists); err != nil {
		return false, errors.Join(account.ErrStorageFailed, err)
	}
	return exists, nil
}

func (d *Driver) RegistrationFields() []account.RegistrationField {
	return []account.RegistrationField{
		{
			Name:     "name",
			Label:    "Full name",
			Type:     account.FieldText,
			Required: true,
			Rules:    []string{"string", "max:255"},
		},
		{
			Name:  "phone",
			Label: "Phone number",
			Type:  account.FieldTel,
			Rules: []string{"nullable", "string", "max:32"},
		},
	}
}

// Create inserts a new account. Unknown form keys land in metadata. A unique
// violation on email is reported as account.ErrAlreadyExists.
func (d *Driver) Create(ctx context.Context, email string, data map[string]any) (*account.Account, error) {
	key := sanitizer.NormalizeEmail(email)
	if key == "" || !strings.Contains(key, "@") {
		return nil, account.ErrInvalidEmail
	}

	rec := recordFromForm(key, data)
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return nil, errors.Join(account.ErrStorageFailed, err)
	}

	a, err := scanAccount(d.db.QueryRow(ctx, insertAccount,
		uuid.NewString(), key, rec.Name, rec.Phone, rec.AvatarURL, meta, d.now().UTC(),
	))
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return nil, account.ErrAlreadyExists
		}
		return nil, errors.Join(account.ErrStorageFailed, err)
	}
	return a, nil
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	var (
		a    account.Account
		meta []byte
	)
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Phone, &a.AvatarURL, &meta); err != nil {
		return nil, err
	}

	a.Metadata = map[string]any{}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &a.Metadata); err != nil {
			return nil, err
		}
	}
	if a.Name == "" {
		a.Name = sanitizer.NameFromEmail(a.Email)
	}
	return &a, nil
}

// recordFromForm maps form values onto columns; the rest becomes metadata.
func recordFromForm(email string, data map[string]any) account.Account {
	rec := account.Account{Email: email, Metadata: map[string]any{}}
	for k, v := range data {
		switch k {
		case "email":
		case "name":
			if s, ok := v.(string); ok {
				rec.Name = sanitizer.SingleLine(s)
			}
		case "phone":
			if s, ok := v.(string); ok {
				rec.Phone = strings.TrimSpace(s)
			}
		case "avatar_url":
			if s, ok := v.(string); ok {
				rec.AvatarURL = strings.TrimSpace(s)
			}
		default:
			rec.Metadata[k] = v
		}
	}
	if rec.Name == "" {
		rec.Name = sanitizer.NameFromEmail(email)
	}
	return rec
}
