package quizgen

import (
	"fmt"
	"strings"

	"quiz-maker/internal/domain"
)

const promptTemplate = `Please generate exactly %d questions for a quiz based on the following category: %s and difficulty: %s.

**Important Constraints:**
1. Do not include "All of the Above" as an option in any multiple-choice questions.
2. Limit True/False questions to no more than 20%% of the total questions.
3. Only give questions of either multiple-choice or true-false, no other type of questions.

Return the questions in JSON format with the following structure:

{
  "questions": [
    {
      "type": "multiple-choice",
      "question": "What is the capital of France?",
      "options": {
        "A": "Berlin",
        "B": "Madrid",
        "C": "Paris",
        "D": "Rome"
      },
      "answer": "C"
    },
    {
      "type": "true-false",
      "question": "The Earth is flat.",
      "answer": "False"
    }
  ]
}`

// BuildPrompt renders the generation prompt for req.
func BuildPrompt(req domain.QuizRequest) string {
	return fmt.Sprintf(promptTemplate, req.Count, strings.ToLower(req.Category), req.Difficulty)
}
