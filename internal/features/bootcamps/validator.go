package bootcamps

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/devtrailhq/devtrail/pkg/apperror"
)

var (
	websiteRegex = regexp.MustCompile(`^https?://.+$`)
	emailRegex   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("Please add a name")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("Name cannot be more than %d characters", MaxNameLength)
	}
	return nil
}

func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return errors.New("Please add a description")
	}
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("Description cannot be more than %d characters", MaxDescriptionLength)
	}
	return nil
}

func ValidateWebsite(website string) error {
	if website == "" {
		return nil
	}
	if !websiteRegex.MatchString(website) {
		return errors.New("Please use a valid URL with HTTP or HTTPS")
	}
	return nil
}

func ValidatePhone(phone string) error {
	if len(phone) > 20 {
		return errors.New("Phone number cannot be longer than 20 characters")
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if !emailRegex.MatchString(email) {
		return errors.New("Please add a valid email")
	}
	return nil
}

func ValidateCareers(careers []string) error {
	if len(careers) == 0 {
		return errors.New("Please add at least one career")
	}
	valid := map[string]bool{}
	for _, c := range ValidCareers {
		valid[c] = true
	}
	for _, c := range careers {
		if !valid[c] {
			return fmt.Errorf("%s is not a valid career", c)
		}
	}
	return nil
}

// wrapValidation tags a rule failure so the error translator renders 400.
func wrapValidation(err error) error {
	return apperror.New(apperror.ErrValidation, "%s", err.Error())
}

// ValidateCreate runs the full rule set for a new bootcamp.
func ValidateCreate(req *CreateRequest) error {
	if err := ValidateName(req.Name); err != nil {
		return err
	}
	if err := ValidateDescription(req.Description); err != nil {
		return err
	}
	if strings.TrimSpace(req.Address) == "" {
		return errors.New("Please add an address")
	}
	if err := ValidateCareers(req.Careers); err != nil {
		return err
	}
	if err := ValidateWebsite(req.Website); err != nil {
		return err
	}
	if err := ValidatePhone(req.Phone); err != nil {
		return err
	}
	return ValidateEmail(req.Email)
}
