package courses

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devtrailhq/devtrail/pkg/apperror"
)

func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("Please add a course title")
	}
	return nil
}

func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return errors.New("Please add a description")
	}
	return nil
}

func ValidateWeeks(weeks string) error {
	if strings.TrimSpace(weeks) == "" {
		return errors.New("Please add number of weeks")
	}
	return nil
}

func ValidateTuition(tuition float64) error {
	if tuition <= 0 {
		return errors.New("Please add a tuition cost")
	}
	return nil
}

func ValidateMinimumSkill(skill string) error {
	for _, s := range ValidMinimumSkills {
		if skill == s {
			return nil
		}
	}
	return fmt.Errorf("Minimum skill must be one of %s", strings.Join(ValidMinimumSkills, ", "))
}

func wrapValidation(err error) error {
	return apperror.New(apperror.ErrValidation, "%s", err.Error())
}

// ValidateCreate runs the full rule set for a new course.
func ValidateCreate(req *CreateRequest) error {
	if err := ValidateTitle(req.Title); err != nil {
		return err
	}
	if err := ValidateDescription(req.Description); err != nil {
		return err
	}
	if err := ValidateWeeks(req.Weeks); err != nil {
		return err
	}
	if err := ValidateTuition(req.Tuition); err != nil {
		return err
	}
	return ValidateMinimumSkill(req.MinimumSkill)
}
