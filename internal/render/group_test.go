package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ielts-prep/session-service/internal/models"
)

func question(id string, num int, qt models.QuestionType) models.Question {
	return models.Question{
		ID:             id,
		QuestionNumber: num,
		QuestionType:   qt,
		SectionID:      "part-1",
	}
}

func TestBuildGroupsLegacyConsecutiveTypes(t *testing.T) {
	part := models.TestPart{
		ID:         "part-1",
		PartNumber: 1,
		Questions: []models.Question{
			question("q1", 1, models.TrueFalseNotGiven),
			question("q2", 2, models.TrueFalseNotGiven),
			question("q3", 3, models.FillInBlank),
			question("q4", 4, models.TrueFalseNotGiven),
		},
	}

	groups := BuildGroups(part)
	require.Len(t, groups, 3, "type changes break groups even when a type recurs")
	assert.Equal(t, models.TrueFalseNotGiven, groups[0].Type)
	assert.Equal(t, 1, groups[0].StartNum)
	assert.Equal(t, 2, groups[0].EndNum())
	assert.Equal(t, models.FillInBlank, groups[1].Type)
	assert.Equal(t, models.TrueFalseNotGiven, groups[2].Type)
	assert.Equal(t, 4, groups[2].StartNum)
}

func TestBuildGroupsDeduplicatesByID(t *testing.T) {
	q := question("q1", 1, models.MultipleChoice)
	part := models.TestPart{PartNumber: 1, Questions: []models.Question{q, q}}

	groups := BuildGroups(part)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Questions, 1)
}

func TestBuildGroupsFromSectionLayout(t *testing.T) {
	part := models.TestPart{
		ID:         "part-3",
		PartNumber: 3,
		Questions: []models.Question{
			question("q21", 21, models.FillInBlank),
			question("q22", 22, models.FillInBlank),
			question("q23", 23, models.Matching),
		},
		SectionLayout: &models.SectionLayout{
			Blocks: []models.Block{
				{
					BlockType:       models.BlockNoteCompletion,
					Content:         models.BlockContent{Title: "Questions 21–22", InstructionsText: "Write ONE WORD ONLY."},
					QuestionNumbers: []int{21, 22, 99}, // 99 has no question and is dropped
				},
				{
					BlockType:       models.BlockMatchingFeatures,
					QuestionNumbers: []int{23},
				},
			},
		},
	}

	groups := BuildGroups(part)
	require.Len(t, groups, 2)
	assert.Equal(t, models.BlockNoteCompletion, groups[0].BlockType)
	assert.Len(t, groups[0].Questions, 2)
	assert.Equal(t, 21, groups[0].StartNum)
	assert.Equal(t, models.BlockMatchingFeatures, groups[1].BlockType)
	assert.Len(t, groups[1].Questions, 1)
}

func TestBuildGroupsEmptyPart(t *testing.T) {
	assert.Nil(t, BuildGroups(models.TestPart{}))
}
