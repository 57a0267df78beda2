package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"accommodation/constants"
	"accommodation/errors"
	"accommodation/utils"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// isDate accepts yyyy-MM-dd
func isDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(utils.DateLayout, fl.Field().String())
	return err == nil
}

// isClock accepts HH:mm
func isClock(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}

// isRoomTypeName accepts any catalogue name; the property type is checked by the service
func isRoomTypeName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	for t := range constants.RoomTypeCatalogue {
		if constants.IsValidRoomTypeName(t, name) {
			return true
		}
	}
	return false
}

func registerAll(v *validator.Validate) error {
	for tag, fn := range map[string]validator.Func{
		"date":         isDate,
		"clock":        isClock,
		"roomtypename": isRoomTypeName,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// New returns a validator with the custom tags registered
func New() *validator.Validate {
	v := validator.New()
	if err := registerAll(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterBindings adds the custom tags to gin's binding validator
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return registerAll(v)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "date":
		return field + " must be a date in yyyy-MM-dd format"
	case "clock":
		return field + " must be a time in HH:mm format"
	case "roomtypename":
		return fmt.Sprintf("%s %q is not a known room type", field, fe.Value())
	case "uuid":
		return field + " must be a UUID"
	case "email":
		return field + " must be an email address"
	case "url":
		return field + " must be a URL"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

// BindError turns a gin binding error into a VALIDATION_ERROR AppError
func BindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return errors.NewAppError(errors.ErrCodeValidation, strings.Join(msgs, "; "), errors.ErrInvalidInput)
	}
	return errors.NewAppError(errors.ErrCodeValidation, "invalid request body", errors.ErrInvalidFormat)
}

// ValidateStruct runs the tagged rules on s outside of gin binding
func ValidateStruct(v *validator.Validate, s interface{}) error {
	if err := v.Struct(s); err != nil {
		return BindError(err)
	}
	return nil
}

// ParseStay parses the check-in and check-out dates of a request
func ParseStay(checkIn, checkOut string, loc *time.Location) (time.Time, time.Time, error) {
	in, err := utils.ParseDate(checkIn, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewValidation("checkIn: %s", err.Error())
	}
	out, err := utils.ParseDate(checkOut, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewValidation("checkOut: %s", err.Error())
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, errors.NewValidation("check-out date must be after check-in date")
	}
	return in, out, nil
}

// ParseWindow parses a maintenance window given as date plus optional HH:mm
func ParseWindow(startDate, startTime, endDate, endTime string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := utils.ParseDateTime(startDate, startTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewValidation("start: %s", err.Error())
	}
	end, err := utils.ParseDateTime(endDate, endTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewValidation("end: %s", err.Error())
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.NewValidation("end cannot be before start")
	}
	return start, end, nil
}
