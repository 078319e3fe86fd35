package validation

import (
	"regexp"
	"strings"

	"quiz-maker/internal/domain"
)

var validULID = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// maxAnswerLength bounds submitted answers; option labels and True/False are far shorter.
const maxAnswerLength = 200

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateQuizSetup gates quiz start. Category and difficulty must be selected and
// count must lie in [MinQuestionCount, MaxQuestionCount].
func (v *Validator) ValidateQuizSetup(category, difficulty string, count int) (domain.QuizRequest, error) {
	var errs domain.ValidationErrors
	req := domain.QuizRequest{Category: strings.TrimSpace(category), Count: count}

	if req.Category == "" {
		errs = append(errs, domain.NewMissingInputError("category", "Please select a category."))
	}

	if strings.TrimSpace(difficulty) == "" {
		errs = append(errs, domain.NewMissingInputError("difficulty", "Please select a difficulty."))
	} else if d, ok := domain.ParseDifficulty(difficulty); ok {
		req.Difficulty = d
	} else {
		errs = append(errs, domain.NewFieldValidationError("difficulty", "difficulty must be Easy, Medium or Hard", difficulty))
	}

	if count < domain.MinQuestionCount || count > domain.MaxQuestionCount {
		errs = append(errs, domain.NewFieldValidationError("number_of_questions",
			"Number of questions must be between 10 and 30.", count))
	}

	if len(errs) > 0 {
		return domain.QuizRequest{}, errs
	}
	return req, nil
}

// ValidateSessionID checks the ULID format of a session id.
func (v *Validator) ValidateSessionID(id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingInputError("id", "session id is required")}
	}
	if !validULID.MatchString(id) {
		return domain.NewValidationError("id", "session id is not a valid ULID", id)
	}
	return nil
}

// ValidateCategoryParam checks a category name taken from a path. Length bounds are left
// to the category rules; anything longer than a stored name could ever be is rejected here.
func (v *Validator) ValidateCategoryParam(name string) domain.ValidationErrors {
	if strings.TrimSpace(name) == "" {
		return domain.ValidationErrors{domain.NewMissingInputError("name", "category name is required")}
	}
	if len([]rune(name)) > domain.MaxCategoryNameLength {
		return domain.NewValidationError("name", "category name is too long", len([]rune(name)))
	}
	return nil
}

// ValidateAnswer checks an answer submission. An empty answer is allowed and scores as
// incorrect.
func (v *Validator) ValidateAnswer(index *int, answer string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if index == nil {
		errs = append(errs, domain.NewMissingInputError("question_index", "question_index is required"))
	} else if *index < 0 {
		errs = append(errs, domain.NewFieldValidationError("question_index", "question_index must not be negative", *index))
	}
	if len(answer) > maxAnswerLength {
		errs = append(errs, domain.NewFieldValidationError("answer", "answer is too long", len(answer)))
	}
	return errs
}
