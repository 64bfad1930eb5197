package account

import "context"

// Driver looks accounts up by email. Implementations normalise the address
// (trim, lowercase) before using it as a key.
type Driver interface {
	// FindByEmail returns ErrNotFound when no account exists.
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Exists(ctx context.Context, email string) (bool, error)
}

// CreatableDriver is a Driver that can also register new accounts.
type CreatableDriver interface {
	Driver
	// RegistrationFields describes the form inputs Create expects.
	RegistrationFields() []RegistrationField
	// Create stores a new account. It returns ErrAlreadyExists if the email
	// is taken.
	Create(ctx context.Context, email string, data map[string]any) (*Account, error)
}

// FieldType is the input kind of a registration field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
)

// FieldOption is one choice of a select field.
type FieldOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// RegistrationField describes one registration form input. Rules are
// validator rule specs ("string", "max:255", "in:a,b"); "required" is implied
// by Required and need not be listed.
type RegistrationField struct {
	Name     string        `json:"name" yaml:"name"`
	Label    string        `json:"label" yaml:"label"`
	Type     FieldType     `json:"type" yaml:"type"`
	Required bool          `json:"required" yaml:"required"`
	Rules    []string      `json:"rules,omitempty" yaml:"rules,omitempty"`
	Options  []FieldOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// ValidationSpecs returns Rules with "required" prepended for required fields.
func (f RegistrationField) ValidationSpecs() []string {
	specs := make([]string, 0, len(f.Rules)+1)
	if f.Required {
		specs = append(specs, "required")
	}
	return append(specs, f.Rules...)
}
