package account_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daikazu/frontdoor/pkg/account"
)

func TestAccount_Field(t *testing.T) {
	t.Parallel()

	a := &account.Account{
		ID:        "acc_1",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "+15551234567",
		AvatarURL: "https://cdn.example.com/jane.png",
		Metadata:  map[string]any{"plan": "pro", "name": "shadowed"},
	}

	tests := []struct {
		field string
		want  any
	}{
		{"id", "acc_1"},
		{"name", "Jane Doe"},
		{"email", "jane@example.com"},
		{"phone", "+15551234567"},
		{"avatar_url", "https://cdn.example.com/jane.png"},
		{"avatarUrl", "https://cdn.example.com/jane.png"},
		{"initial", "J"},
		{"plan", "pro"},
	}
	for _, tt := range tests {
		got, ok := a.Field(tt.field)
		assert.True(t, ok, tt.field)
		assert.Equal(t, tt.want, got, tt.field)
	}

	_, ok := a.Field("missing")
	assert.False(t, ok)

	v, ok := a.Meta("plan")
	assert.True(t, ok)
	assert.Equal(t, "pro", v)
}

func TestAccount_Initial(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "J", (&account.Account{Name: "jane"}).Initial())
	assert.Equal(t, "李", (&account.Account{Name: "李明"}).Initial())
	assert.Equal(t, "Ö", (&account.Account{Name: " öla"}).Initial())
	assert.Equal(t, "B", (&account.Account{Email: "bob@example.com"}).Initial())
	assert.Empty(t, (&account.Account{}).Initial())

	var nilAcct *account.Account
	assert.Empty(t, nilAcct.Initial())
	_, ok := nilAcct.Meta("x")
	assert.False(t, ok)
}

func TestAccount_Clone(t *testing.T) {
	t.Parallel()

	a := &account.Account{ID: "1", Metadata: map[string]any{"plan": "pro"}}
	c := a.Clone()
	c.Metadata["plan"] = "free"
	c.ID = "2"

	assert.Equal(t, "pro", a.Metadata["plan"])
	assert.Equal(t, "1", a.ID)
}

func TestRegistrationField_ValidationSpecs(t *testing.T) {
	t.Parallel()

	required := account.RegistrationField{Name: "name", Required: true, Rules: []string{"string", "max:255"}}
	assert.Equal(t, []string{"required", "string", "max:255"}, required.ValidationSpecs())
	assert.Equal(t, []string{"string", "max:255"}, required.Rules, "rules are not modified")

	optional := account.RegistrationField{Name: "phone", Rules: []string{"max:32"}}
	assert.Equal(t, []string{"max:32"}, optional.ValidationSpecs())
}

func TestAvatar(t *testing.T) {
	t.Parallel()
	cfg := account.DefaultAvatarConfig()

	t.Run("deterministic and case insensitive", func(t *testing.T) {
		t.Parallel()
		a := account.NewAvatar("jane@example.com", "", cfg)
		b := account.NewAvatar(" Jane@Example.com", "", cfg)
		assert.Equal(t, a.Gradient, b.Gradient)
		assert.Equal(t, a.TextColor, b.TextColor)
	})

	t.Run("different identifiers differ", func(t *testing.T) {
		t.Parallel()
		a := account.NewAvatar("jane@example.com", "", cfg)
		b := account.NewAvatar("bob@example.com", "", cfg)
		assert.NotEqual(t, a.Gradient, b.Gradient)
	})

	t.Run("css shape", func(t *testing.T) {
		t.Parallel()
		a := account.NewAvatar("test@example.com", "Jane Doe", cfg)
		assert.Equal(t, "J", a.Initial)
		assert.Equal(t, "test@example.com", a.Identifier)
		assert.Contains(t, a.Gradient, "linear-gradient(")
		assert.Contains(t, a.Gradient, "deg, hsl(")
		assert.Contains(t, a.Gradient, "65%, 55%)")
		assert.Equal(t, "#ffffff", a.TextColor)
		assert.Equal(t, "background: "+a.Gradient+"; color: #ffffff;", a.Style())
	})

	t.Run("hues are at least 30 degrees apart", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com", "f@x.com", "g@x.com"} {
			a := account.NewAvatar(id, "", cfg)
			diff := a.Hue1 - a.Hue2
			if diff < 0 {
				diff = -diff
			}
			assert.GreaterOrEqual(t, diff, 30.0, id)
		}
	})

	t.Run("light backgrounds get dark text", func(t *testing.T) {
		t.Parallel()
		a := account.NewAvatar("jane@example.com", "", account.AvatarConfig{Saturation: 40, Lightness: 80})
		assert.Equal(t, "#1f2937", a.TextColor)
		assert.Equal(t, "color: #1f2937;", a.TextStyle())
	})

	t.Run("initial falls back to the identifier", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "J", account.NewAvatar("jane@example.com", "", cfg).Initial)
		acct := &account.Account{Email: "jane@example.com", Name: "Zoë"}
		assert.Equal(t, "Z", acct.Avatar(cfg).Initial)
	})
}
