package services

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hidromont/site-backend/errs"
	"github.com/hidromont/site-backend/models"
)

var publicationStatus = validation.In(models.StatusDraft, models.StatusPublished).
	Error("must be draft or published")

// invalidInput converts ozzo validation errors into an ApiErr for the first
// offending field, in field-name order so the message is deterministic.
func invalidInput(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) {
			return apiErr
		}
		return errs.NewInvalidInputError(err.Error())
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	field := fields[0]
	var ve validation.Error
	if errors.As(fieldErrs[field], &ve) && ve.Code() == validation.ErrRequired.Code() {
		return errs.NewMissingRequiredFieldError(field)
	}
	return errs.NewInvalidFieldError(field, fieldErrs[field].Error())
}
