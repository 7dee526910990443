package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ielts-prep/session-service/internal/models"
)

// Validator wraps a go-playground validator instance with the custom
// validations this service needs.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	registerCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate checks struct tags on s.
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("skill", validateSkill)

	// Report json field names in validation errors instead of Go names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.FillInBlank,
		models.MultipleChoice,
		models.MultipleChoiceMultipleAnswers,
		models.Matching,
		models.MatchingInformation,
		models.MatchingFeatures,
		models.MatchingHeadings,
		models.TrueFalseNotGiven,
		models.YesNoNotGiven,
		models.SummaryCompletion,
		models.SummaryCompletionOptions,
		models.TableCompletion,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateSkill(fl validator.FieldLevel) bool {
	return models.Skill(fl.Field().String()).Valid()
}
