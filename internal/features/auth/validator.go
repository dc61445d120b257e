package auth

import (
	"errors"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the address format.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return errors.New("Please add a valid email")
	}
	return nil
}

// ValidatePassword enforces the minimum credential strength.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("Password must be at least 6 characters")
	}
	return nil
}

// ValidateName checks the display name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("Please add a name")
	}
	if len(name) > 50 {
		return errors.New("Name cannot be more than 50 characters")
	}
	return nil
}

// ValidateRegisterRole restricts self-registration to the public roles.
func ValidateRegisterRole(role string) error {
	switch role {
	case "", RoleUser, RolePublisher:
		return nil
	}
	return errors.New("Role must be either user or publisher")
}

// ValidateRole accepts any role an admin may assign.
func ValidateRole(role string) error {
	switch role {
	case "", RoleUser, RolePublisher, RoleAdmin:
		return nil
	}
	return errors.New("Invalid role")
}

// ValidateRegister runs the full registration rule set.
func ValidateRegister(req *RegisterRequest) error {
	if err := ValidateName(req.Name); err != nil {
		return err
	}
	if err := ValidateEmail(req.Email); err != nil {
		return err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return err
	}
	return ValidateRegisterRole(req.Role)
}
