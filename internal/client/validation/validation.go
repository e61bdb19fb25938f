// Package validation checks the client's forms before anything is sent to
// the server. Every failure carries the message shown to the user.
package validation

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/tiernerd/internal/client/models"
	"github.com/dmitrijs2005/tiernerd/internal/common"
	"github.com/go-playground/validator/v10"
)

const (
	MaxTitleLength = 100
	MaxNameLength  = 100
)

type LoginForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type RegisterForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Confirm  string `validate:"eqfield=Password"`
	Username string `validate:"omitempty,min=3,max=50"`
}

type ListForm struct {
	Title       string `validate:"required,max=100"`
	Description string
}

type ItemForm struct {
	Name        string         `validate:"required,max=100"`
	TierSet     models.TierSet `validate:"tierset"`
	Description string
}

// messages is keyed by "<Field>.<tag>".
var messages = map[string]string{
	"Email.required":    "Email is required",
	"Email.email":       "Please enter a valid email address",
	"Password.required": "Password is required",
	"Password.min":      "Password must be at least 8 characters",
	"Confirm.eqfield":   "Passwords do not match",
	"Username.min":      "Username must be between 3 and 50 characters",
	"Username.max":      "Username must be between 3 and 50 characters",
	"Title.required":    "Title is required",
	"Title.max":         "Title must be 100 characters or less",
	"Name.required":     "Name is required",
	"Name.max":          "Name must be 100 characters or less",
	"TierSet.tierset":   "Please select a tier",
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Errors lists failures in field order. It matches common.ErrorValidation.
type Errors []FieldError

// Error returns the first message, the one a form shows inline.
func (e Errors) Error() string {
	if len(e) == 0 {
		return common.ErrorValidation.Error()
	}
	return e[0].Message
}

func (e Errors) Is(target error) bool { return target == common.ErrorValidation }

func (e Errors) Messages() []string {
	out := make([]string, len(e))
	for i, fe := range e {
		out[i] = fe.Message
	}
	return out
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("tierset", func(fl validator.FieldLevel) bool {
		return models.TierSet(fl.Field().String()).Valid()
	})
	return &Validator{v: v}
}

// Struct validates one of the form types and converts failures to Errors.
func (v *Validator) Struct(form any) error {
	err := v.v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			msg = fe.StructField() + " is invalid"
		}
		out = append(out, FieldError{Field: fe.StructField(), Message: msg})
	}
	return out
}

var std = New()

func Login(email, password string) error {
	return std.Struct(LoginForm{Email: strings.TrimSpace(email), Password: password})
}

func Register(f RegisterForm) error {
	f.Email = strings.TrimSpace(f.Email)
	f.Username = strings.TrimSpace(f.Username)
	return std.Struct(f)
}

// CreateList trims the inputs and returns them ready to send.
func CreateList(title, description string) (ListForm, error) {
	f := ListForm{Title: strings.TrimSpace(title), Description: strings.TrimSpace(description)}
	return f, std.Struct(f)
}

// CreateItem trims the inputs and returns them ready to send.
func CreateItem(name string, tier models.TierSet, description string) (ItemForm, error) {
	f := ItemForm{
		Name:        strings.TrimSpace(name),
		TierSet:     models.TierSet(strings.ToLower(strings.TrimSpace(string(tier)))),
		Description: strings.TrimSpace(description),
	}
	return f, std.Struct(f)
}

type RenameForm struct {
	Name string `validate:"required,max=100"`
}

// RenameItem trims a new item name and checks it like CreateItem does.
func RenameItem(name string) (string, error) {
	f := RenameForm{Name: strings.TrimSpace(name)}
	return f.Name, std.Struct(f)
}
