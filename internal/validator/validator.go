package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/assessment-scheduler/internal/errors"
	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the scheduler's enum tags.
type Validator struct {
	structValidator *validator.Validate
}

func New() *Validator {
	structValidator := validator.New(validator.WithRequiredStructEnabled())
	registerCustomValidators(structValidator)
	return &Validator{structValidator: structValidator}
}

// Validate checks struct tags and returns apperrors.ValidationErrors on failure.
func (v *Validator) Validate(s any) error {
	if err := v.structValidator.Struct(s); err != nil {
		return apperrors.ToValidationErrors(err)
	}
	return nil
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("stake_level", validateStakeLevel)
	validate.RegisterValidation("flexibility", validateFlexibility)
	validate.RegisterValidation("time_unit", validateTimeUnit)
	validate.RegisterValidation("assessment_type", validateAssessmentType)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateStakeLevel(fl validator.FieldLevel) bool {
	_, ok := models.StakeLevel(fl.Field().String()).Severity()
	return ok
}

func validateFlexibility(fl validator.FieldLevel) bool {
	_, ok := models.Flexibility(fl.Field().String()).Days()
	return ok
}

func validateTimeUnit(fl validator.FieldLevel) bool {
	_, ok := models.PrepTime{Unit: models.TimeUnit(fl.Field().String())}.Minutes()
	return ok
}

func validateAssessmentType(fl validator.FieldLevel) bool {
	validTypes := []models.AssessmentType{
		models.TypeQuiz,
		models.TypeTest,
		models.TypeExam,
		models.TypeProject,
		models.TypePresentation,
		models.TypeEssay,
		models.TypeLabReport,
		models.TypeFinalExam,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}
