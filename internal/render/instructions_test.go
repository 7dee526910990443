package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ielts-prep/session-service/internal/models"
)

func legacyGroup(qt models.QuestionType, questions ...models.Question) Group {
	g := Group{Type: qt, Questions: questions, PartNumber: 2}
	if len(questions) > 0 {
		g.StartNum = questions[0].QuestionNumber
	}
	return g
}

func TestInstructionsDataDrivenBlockWins(t *testing.T) {
	g := Group{
		BlockType: models.BlockNoteCompletion,
		Content:   models.BlockContent{Title: "Questions 11–16", InstructionsText: "Write NO MORE THAN TWO WORDS."},
	}

	ins := ForGroup(g)
	assert.Equal(t, "Questions 11–16", ins.Heading)
	assert.Equal(t, "Write NO MORE THAN TWO WORDS.", ins.Body)
}

func TestInstructionsTrueFalseNotGiven(t *testing.T) {
	g := legacyGroup(models.TrueFalseNotGiven,
		question("q5", 5, models.TrueFalseNotGiven),
		question("q8", 8, models.TrueFalseNotGiven),
	)

	ins := ForGroup(g)
	assert.Equal(t, "Questions 5–8", ins.Heading)
	assert.Contains(t, ins.Body, "Reading Passage 2")
	require.Len(t, ins.Legend, 3)
	assert.Contains(t, ins.Legend[2], "NOT GIVEN")
}

func TestInstructionsMatchingInformationTrailingLetter(t *testing.T) {
	q := question("q1", 14, models.MatchingInformation)
	q.QuestionContent.Options = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

	ins := ForGroup(legacyGroup(models.MatchingInformation, q))
	assert.Contains(t, ins.Body, "A–H", "trailing letter comes from the option count")
	assert.Len(t, ins.Options, 8)
}

func TestInstructionsSummaryCompletionOptionsWordList(t *testing.T) {
	q := question("q27", 27, models.SummaryCompletionOptions)
	q.QuestionContent.Options = []string{"A growth", "B decline", "C trade", "D farming", "E climate",
		"F disease", "G transport", "H housing", "I power", "J water"}

	ins := ForGroup(legacyGroup(models.SummaryCompletionOptions, q))
	assert.Contains(t, ins.Body, "list of words, A–J")
	assert.Len(t, ins.Options, 10)
}

func TestInstructionsWordLimitPhrase(t *testing.T) {
	one := question("q1", 1, models.FillInBlank)
	ins := ForGroup(legacyGroup(models.FillInBlank, one))
	assert.Contains(t, ins.Body, "ONE WORD ONLY")

	three := question("q2", 2, models.SummaryCompletion)
	three.QuestionContent.WordLimit = 3
	ins = ForGroup(legacyGroup(models.SummaryCompletion, three))
	assert.Contains(t, ins.Body, "NO MORE THAN THREE WORDS")
}

func TestInstructionsUnknownTypeFallsBack(t *testing.T) {
	g := legacyGroup(models.QuestionType("SOMETHING_NEW"),
		question("q3", 3, "SOMETHING_NEW"),
		question("q4", 4, "SOMETHING_NEW"),
	)

	ins := ForGroup(g)
	assert.Equal(t, "Questions 3–4", ins.Heading)
	assert.Empty(t, ins.Body)
}

func TestInstructionsSingleQuestionHeading(t *testing.T) {
	ins := ForGroup(legacyGroup(models.MultipleChoice, question("q9", 9, models.MultipleChoice)))
	assert.Equal(t, "Question 9", ins.Heading)
}

func TestInstructionsCoverEveryQuestionType(t *testing.T) {
	types := []models.QuestionType{
		models.FillInBlank, models.MultipleChoice, models.MultipleChoiceMultipleAnswers,
		models.Matching, models.MatchingInformation, models.MatchingFeatures, models.MatchingHeadings,
		models.TrueFalseNotGiven, models.YesNoNotGiven,
		models.SummaryCompletion, models.SummaryCompletionOptions, models.TableCompletion,
	}
	for _, qt := range types {
		_, ok := legacyInstructions[qt]
		assert.True(t, ok, "no instruction entry for %s", qt)
	}
}
