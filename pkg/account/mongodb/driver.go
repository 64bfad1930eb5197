package mongodb

import (
	"context"
	"errors"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/daikazu/frontdoor/pkg/account"
	"github.com/daikazu/frontdoor/pkg/sanitizer"
)

// DefaultCollection is the collection name used by cmd/frontdoor.
const DefaultCollection = "accounts"

// Collection is the subset of *mongo.Collection the driver uses.
type Collection interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error)
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
}

var _ Collection = (*mongo.Collection)(nil)

type document struct {
	ID        string         `bson:"_id"`
	Email     string         `bson:"email"`
	Name      string         `bson:"name"`
	Phone     string         `bson:"phone,omitempty"`
	AvatarURL string         `bson:"avatar_url,omitempty"`
	Metadata  map[string]any `bson:"metadata,omitempty"`
	CreatedAt time.Time      `bson:"created_at"`
}

func (d document) toAccount() *account.Account {
	a := &account.Account{
		ID:        d.ID,
		Email:     d.Email,
		Name:      d.Name,
		Phone:     d.Phone,
		AvatarURL: d.AvatarURL,
		Metadata:  maps.Clone(d.Metadata),
	}
	if a.Metadata == nil {
		a.Metadata = map[string]any{}
	}
	if a.Name == "" {
		a.Name = sanitizer.NameFromEmail(a.Email)
	}
	return a
}

// Driver stores one document per account, keyed by a unique email index.
type Driver struct {
	coll Collection
	now  func() time.Time
}

// New creates a Driver. Call EnsureIndexes once on the real collection so
// duplicate registrations are rejected by the server.
func New(coll Collection) *Driver {
	return &Driver{coll: coll, now: time.Now}
}

// EnsureIndexes creates the unique email index.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return errors.Join(account.ErrStorageFailed, err)
	}
	return nil
}

func (d *Driver) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	key := sanitizer.NormalizeEmail(email)
	if key == "" {
		return nil, account.ErrNotFound
	}

	var doc document
	if err := d.coll.FindOne(ctx, bson.M{"email": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, account.ErrNotFound
		}
		return nil, errors.Join(account.ErrStorageFailed, err)
	}
	return doc.toAccount(), nil
}

func (d *Driver) Exists(ctx context.Context, email string) (bool, error) {
	key := sanitizer.NormalizeEmail(email)
	if key == "" {
		return false, nil
	}

	n, err := d.coll.CountDocuments(ctx, bson.M{"email": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Join(account.ErrStorageFailed, err)
	}
	return n > 0, nil
}

func (d *Driver) RegistrationFields() []account.RegistrationField {
	return []account.RegistrationField{{
		Name:     "name",
		Label:    "Full name",
		Type:     account.FieldText,
		Required: true,
		Rules:    []string{"string", "max:255"},
	}}
}

func (d *Driver) Create(ctx context.Context, email string, data map[string]any) (*account.Account, error) {
	key := sanitizer.NormalizeEmail(email)
	if key == "" || !strings.Contains(key, "@") {
		return nil, account.ErrInvalidEmail
	}

	doc := document{
		ID:        uuid.NewString(),
		Email:     key,
		CreatedAt: d.now().UTC(),
	}
	extra := map[string]any{}
	for k, v := range data {
		switch k {
		case "email":
		case "name":
			if s, ok := v.(string); ok {
				doc.Name = sanitizer.SingleLine(s)
			}
		case "phone":
			if s, ok := v.(string); ok {
				doc.Phone = strings.TrimSpace(s)
			}
		default:
			extra[k] = v
		}
	}
	if doc.Name == "" {
		doc.Name = sanitizer.NameFromEmail(key)
	}
	if len(extra) > 0 {
		doc.Metadata = extra
	}

	if _, err := d.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, account.ErrAlreadyExists
		}
		return nil, errors.Join(account.ErrStorageFailed, err)
	}
	return doc.toAccount(), nil
}
