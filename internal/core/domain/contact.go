package domain

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// phonePattern accepts digits, "+", "-" and spaces, at least 7 characters.
var phonePattern = regexp.MustCompile(`^[0-9+\-\s]{7,}$`)

// validate is the shared validator instance for Contact records.
var validate = newContactValidator()

func newContactValidator() *validator.Validate {
	v := validator.New()
	// loose numeric-punctuation pattern for phone numbers
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// Contact is a visitor contact record collected by the form dialogue.
// It is complete only when name and email are present and valid;
// phone is optional.
type Contact struct {
	// Name is the visitor's name, at least two characters.
	Name string `json:"name" validate:"required,min=2"`

	// Email is the visitor's email address.
	Email string `json:"email" validate:"required,email"`

	// Phone is the optional phone number. Nil means not provided.
	Phone *string `json:"phone" validate:"omitempty,phone"`
}

// Validate checks the record against the contact schema.
// Failures wrap ErrInvalidInput so callers can test with errors.Is.
func (c Contact) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Complete reports whether all required fields are present and valid.
func (c Contact) Complete() bool {
	return c.Validate() == nil
}

// HasValidName reports whether the name field alone passes the schema.
func (c Contact) HasValidName() bool {
	return validate.Var(c.Name, "required,min=2") == nil
}

// HasValidEmail reports whether the email field alone passes the schema.
func (c Contact) HasValidEmail() bool {
	return validate.Var(c.Email, "required,email") == nil
}

// HasValidPhone reports whether a phone value is present and well-formed.
func (c Contact) HasValidPhone() bool {
	return c.Phone != nil && phonePattern.MatchString(*c.Phone)
}

// CollectionState names the step the contact dialogue is on.
// The state is derived deterministically from the partial record,
// never re-inferred from raw transcript text.
type CollectionState string

const (
	// StateAwaitingName means the name has not been collected yet.
	StateAwaitingName CollectionState = "awaiting_name"

	// StateAwaitingEmail means the name is held and the email is pending.
	StateAwaitingEmail CollectionState = "awaiting_email"

	// StateAwaitingPhoneOrSkip means required fields are held and the
	// optional phone has been neither provided nor declined.
	StateAwaitingPhoneOrSkip CollectionState = "awaiting_phone_or_skip"

	// StateComplete means the record is finalised.
	StateComplete CollectionState = "complete"
)

// CollectionStateOf derives the dialogue state from a partial record.
// phoneResolved is true once the visitor has provided a phone number or
// declined to give one.
func CollectionStateOf(c Contact, phoneResolved bool) CollectionState {
	switch {
	case !c.HasValidName():
		return StateAwaitingName
	case !c.HasValidEmail():
		return StateAwaitingEmail
	case !phoneResolved:
		return StateAwaitingPhoneOrSkip
	default:
		return StateComplete
	}
}
