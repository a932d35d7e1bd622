package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"holidayplanner/pkg/logger"
	"holidayplanner/pkg/model"
)

const (
	MsgInvalidStartDate = "Invalid start date format"
	MsgInvalidEndDate   = "Invalid end date format"
)

type HolidayValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewHolidayValidator(log *logger.Logger) *HolidayValidator {
	v := validator.New()

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}
	v.RegisterStructValidation(validateInputDateOrder, model.HolidayInput{})
	v.RegisterStructValidation(validateUpdateDateOrder, model.HolidayUpdate{})

	log.Info("Holiday validator initialized successfully")

	return &HolidayValidator{
		validate: v,
		logger:   log,
	}
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	_, err := model.ParseCalendarDate(field.String())
	return err == nil
}

func validateInputDateOrder(sl validator.StructLevel) {
	in := sl.Current().Interface().(model.HolidayInput)
	checkDateOrder(sl, in.StartDate, in.EndDate)
}

func validateUpdateDateOrder(sl validator.StructLevel) {
	u := sl.Current().Interface().(model.HolidayUpdate)
	if u.StartDate == nil || u.EndDate == nil {
		return
	}
	checkDateOrder(sl, *u.StartDate, *u.EndDate)
}

// checkDateOrder only fires when both dates parse; malformed dates are
// already reported by the field-level tag.
func checkDateOrder(sl validator.StructLevel, startRaw, endRaw string) {
	start, err := model.ParseCalendarDate(startRaw)
	if err != nil {
		return
	}
	end, err := model.ParseCalendarDate(endRaw)
	if err != nil {
		return
	}
	if end.Before(start) {
		sl.ReportError(endRaw, "endDate", "EndDate", "date_order", "")
	}
}

// ValidateCreate checks a create payload and reports every offending field.
func (v *HolidayValidator) ValidateCreate(in *model.HolidayInput) error {
	return v.run(in)
}

// ValidateUpdate checks only the fields present in a merge-patch.
func (v *HolidayValidator) ValidateUpdate(u *model.HolidayUpdate) error {
	return v.run(u)
}

func (v *HolidayValidator) run(payload any) error {
	if err := v.validate.Struct(payload); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *HolidayValidator) translateValidationErrors(errs validator.ValidationErrors) model.FieldErrors {
	var fieldErrors model.FieldErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s cannot be empty", err.Field())
		case "calendar_date":
			if err.Field() == "startDate" {
				message = MsgInvalidStartDate
			} else {
				message = MsgInvalidEndDate
			}
		case "date_order":
			message = model.MsgDateOrder
		}

		fieldErrors = append(fieldErrors, model.FieldError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return fieldErrors
}

// MissingFields lists the fields that failed a required check, in payload order.
func MissingFields(errs model.FieldErrors) []string {
	var missing []string
	for _, err := range errs {
		if err.Message == fmt.Sprintf("%s is required", err.Field) {
			missing = append(missing, err.Field)
		}
	}
	return missing
}
