package validation

import (
	"net/mail"
	"strings"
	"time"
)

const (
	minPasswordLength = 5
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
	maxFieldLength   = 255
)

// CreateUserRequest mirrors the fields needed for create user validation.
type CreateUserRequest struct {
	Email     string
	Password  string
	Username  string
	Birthdate string
}

// UpdateUserRequest mirrors the fields of a partial user update. Nil fields
// are left unchanged.
type UpdateUserRequest struct {
	Email     *string
	Password  *string
	Username  *string
	Birthdate *string
}

// ValidateCreateUserRequest validates the fields of a create user request.
// today is the reference date for the age check.
func ValidateCreateUserRequest(req CreateUserRequest, today time.Time) []FieldError {
	var errs []FieldError

	errs = appendIf(errs, validateEmail(req.Email))
	errs = appendIf(errs, validatePassword(req.Password))
	errs = appendIf(errs, validateUsername(req.Username))
	errs = appendIf(errs, validateBirthdate(req.Birthdate, today))

	return errs
}

// ValidateUpdateUserRequest validates the fields present in a partial update.
func ValidateUpdateUserRequest(req UpdateUserRequest, today time.Time) []FieldError {
	var errs []FieldError

	if req.Email != nil {
		errs = appendIf(errs, validateEmail(*req.Email))
	}
	if req.Password != nil {
		errs = appendIf(errs, validatePassword(*req.Password))
	}
	if req.Username != nil {
		errs = appendIf(errs, validateUsername(*req.Username))
	}
	if req.Birthdate != nil {
		errs = appendIf(errs, validateBirthdate(*req.Birthdate, today))
	}

	return errs
}

func appendIf(errs []FieldError, fe *FieldError) []FieldError {
	if fe == nil {
		return errs
	}
	return append(errs, *fe)
}

func validateEmail(email string) *FieldError {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		return &FieldError{Field: "email", Message: "email is required"}
	case len(email) > maxFieldLength:
		return &FieldError{Field: "email", Message: "email must be at most 255 characters"}
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &FieldError{Field: "email", Message: "email must be a valid email address"}
	}
	return nil
}

func validatePassword(password string) *FieldError {
	switch {
	case password == "":
		return &FieldError{Field: "password", Message: "password is required"}
	case len([]rune(password)) < minPasswordLength:
		return &FieldError{Field: "password", Message: "password must be at least 5 characters"}
	case len(password) > maxPasswordBytes:
		return &FieldError{Field: "password", Message: "password must be at most 72 bytes"}
	}
	return nil
}

func validateUsername(username string) *FieldError {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return &FieldError{Field: "username", Message: "username is required"}
	case len(username) > maxFieldLength:
		return &FieldError{Field: "username", Message: "username must be at most 255 characters"}
	}
	return nil
}

func validateBirthdate(birthdate string, today time.Time) *FieldError {
	if strings.TrimSpace(birthdate) == "" {
		return &FieldError{Field: "birthdate", Message: "birthdate is required"}
	}

	t, err := ParseDate(birthdate)
	if err != nil {
		return &FieldError{Field: "birthdate", Message: "birthdate must be a date in YYYY-MM-DD format"}
	}

	if AgeAt(t, today) < MinimumAge {
		return &FieldError{Field: "birthdate", Message: "user must be at least 18 years old"}
	}
	return nil
}
