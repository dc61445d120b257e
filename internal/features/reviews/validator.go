package reviews

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devtrailhq/devtrail/pkg/apperror"
)

func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("Please add a title for the review")
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("Title cannot be more than %d characters", MaxTitleLength)
	}
	return nil
}

func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("Please add some text")
	}
	return nil
}

func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("Please add a rating between %d and %d", MinRating, MaxRating)
	}
	return nil
}

func wrapValidation(err error) error {
	return apperror.New(apperror.ErrValidation, "%s", err.Error())
}

// ValidateCreate runs the full rule set for a new review.
func ValidateCreate(req *CreateRequest) error {
	if err := ValidateTitle(req.Title); err != nil {
		return err
	}
	if err := ValidateText(req.Text); err != nil {
		return err
	}
	return ValidateRating(req.Rating)
}
