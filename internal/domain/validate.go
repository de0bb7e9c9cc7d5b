package domain

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("dob", dobValidation)
	return v
}

// dobValidation accepts DD/MM/YYYY and rejects dates that do not exist
// on the calendar.
func dobValidation(fl validator.FieldLevel) bool {
	parts := strings.Split(fl.Field().String(), "/")
	if len(parts) != 3 || len(parts[0]) != 2 || len(parts[1]) != 2 || len(parts[2]) != 4 {
		return false
	}
	t, err := time.Parse("02/01/2006", fl.Field().String())
	if err != nil {
		return false
	}
	return t.Format("02/01/2006") == fl.Field().String()
}

// RegistrationInput is the self-service sign-up payload.
type RegistrationInput struct {
	FullName        string `json:"fullName" validate:"required"`
	DateOfBirth     string `json:"dateOfBirth" validate:"required,dob"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            Role   `json:"role" validate:"omitempty,oneof=User Admin SuperAdmin"`
}

// Validate checks the payload and returns a ValidationError on failure.
func (in RegistrationInput) Validate() error { return runValidation(in) }

// PasswordChangeInput is the change-password payload. The new password
// must differ from the old one.
type PasswordChangeInput struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,nefield=OldPassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// Validate checks the payload and returns a ValidationError on failure.
func (in PasswordChangeInput) Validate() error { return runValidation(in) }

// ProfileUpdateInput is the self-service profile edit payload; all
// fields are written as a merge onto the user document.
type ProfileUpdateInput struct {
	FullName    string `json:"fullName" validate:"required"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,dob"`
	Email       string `json:"email" validate:"required,email"`
}

// Validate checks the payload and returns a ValidationError on failure.
func (in ProfileUpdateInput) Validate() error { return runValidation(in) }

// AddUserInput is the admin-side account creation payload. No password:
// a temporary one is generated and a reset email dispatched.
type AddUserInput struct {
	FullName    string `json:"fullName" validate:"required"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,dob"`
	Email       string `json:"email" validate:"required,email"`
	Role        Role   `json:"role" validate:"required,oneof=User Admin SuperAdmin"`
}

// Validate checks the payload and returns a ValidationError on failure.
func (in AddUserInput) Validate() error { return runValidation(in) }

func runValidation(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	ferrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return NewValidationError(err.Error())
	}
	msgs := make([]string, 0, len(ferrs))
	for _, fe := range ferrs {
		msgs = append(msgs, messageFor(fe))
	}
	return &ValidationError{Messages: msgs}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "nefield":
		return "new password must be different from the old password"
	case "dob":
		return "invalid date of birth, use DD/MM/YYYY"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// ValidateModule checks module fields before create/update.
func ValidateModule(m Module) error {
	var msgs []string
	if strings.TrimSpace(m.Name) == "" {
		msgs = append(msgs, "name is required")
	}
	if !ValidDifficulty(m.Difficulty) {
		msgs = append(msgs, "difficulty must be Beginner, Pro or Expert")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// ValidateQuiz checks quiz fields before create/update.
func ValidateQuiz(q Quiz) error {
	var msgs []string
	if strings.TrimSpace(q.Name) == "" {
		msgs = append(msgs, "name is required")
	}
	if !ValidDifficulty(q.Difficulty) {
		msgs = append(msgs, "difficulty must be Beginner, Pro or Expert")
	}
	if q.PassingScore != nil && (*q.PassingScore < 0 || *q.PassingScore > 100) {
		msgs = append(msgs, "passing score must be between 0 and 100")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// ValidateQuestion enforces the invariants the original left to the UI:
// exactly four distinct options, and the correct option among them.
func ValidateQuestion(q Question) error {
	var msgs []string
	if strings.TrimSpace(q.Text) == "" {
		msgs = append(msgs, "question text is required")
	}
	if len(q.Options) != 4 {
		msgs = append(msgs, "a question needs exactly 4 options")
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			msgs = append(msgs, "options cannot be empty")
			break
		}
		if seen[o] {
			msgs = append(msgs, "duplicate option text")
			break
		}
		seen[o] = true
	}
	if q.CorrectOption == "" || !q.HasOption(q.CorrectOption) {
		msgs = append(msgs, "correct option must be one of the options")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}
