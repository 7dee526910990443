package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ielts-prep/session-service/internal/models"
)

func TestFillInBlankSegments(t *testing.T) {
	q := question("q1", 1, models.FillInBlank)
	q.QuestionContent.Text = "The tour departs at 9.30 from the ____ entrance."

	w := BuildWidget(q, models.Answer{}, nil)
	assert.Equal(t, KindTextInput, w.Kind)

	var blanks, numerics int
	for _, seg := range w.Segments {
		if seg.Blank {
			blanks++
		}
		if seg.Numeric {
			numerics++
			assert.Equal(t, "9.30", seg.Text)
		}
	}
	assert.Equal(t, 1, blanks, "one input per blank marker")
	assert.Equal(t, 1, numerics, "numeric tokens are emphasized")
}

func TestFillInBlankMultipleMarkers(t *testing.T) {
	q := question("q1", 1, models.SummaryCompletion)
	q.QuestionContent.Text = "From ____ to ____"

	w := BuildWidget(q, models.SingleAnswer("harbour"), nil)
	blanks := 0
	for _, seg := range w.Segments {
		if seg.Blank {
			blanks++
		}
	}
	assert.Equal(t, 2, blanks)
	assert.Equal(t, "harbour", w.Value, "widget mirrors the answer map entry")
}

func TestTrueFalseNotGivenWidget(t *testing.T) {
	q := question("q2", 2, models.TrueFalseNotGiven)
	q.QuestionContent.Text = "The harbour opened in 1845."

	w := BuildWidget(q, models.SingleAnswer("TRUE"), nil)
	assert.Equal(t, KindRadioGroup, w.Kind)
	assert.Equal(t, []string{"TRUE", "FALSE", "NOT GIVEN"}, w.Options)
	assert.Equal(t, "TRUE", w.Value)
}

func TestYesNoNotGivenWidget(t *testing.T) {
	w := BuildWidget(question("q3", 3, models.YesNoNotGiven), models.Answer{}, nil)
	assert.Equal(t, []string{"YES", "NO", "NOT GIVEN"}, w.Options)
	assert.Empty(t, w.Value, "unanswered widget renders unselected")
}

func TestMultiSelectWidgetControlledValues(t *testing.T) {
	q := question("q4", 4, models.MultipleChoiceMultipleAnswers)
	q.QuestionContent.Options = []string{"A first", "B second", "C third"}

	w := BuildWidget(q, models.MultiAnswer([]string{"C", "A"}), nil)
	assert.Equal(t, KindCheckboxGroup, w.Kind)
	assert.Equal(t, []string{"A", "C"}, w.Values, "multi-select values stay sorted")
}

func TestToggleMultiAlwaysSorted(t *testing.T) {
	values := []string{}
	for _, op := range []string{"E", "B", "D", "B", "A"} {
		values = models.ToggleMulti(values, op)
	}
	// B was toggled twice and dropped out.
	assert.Equal(t, []string{"A", "D", "E"}, values)
}

func TestMatchingWidgetUsesGroupOptionLetters(t *testing.T) {
	q := question("q5", 5, models.MatchingFeatures)
	groupOptions := []models.BlockOption{{Letter: "A", Text: "Roman era"}, {Letter: "B", Text: "Middle Ages"}}

	w := BuildWidget(q, models.Answer{}, groupOptions)
	assert.Equal(t, KindSelect, w.Kind)
	assert.Equal(t, []string{"A", "B"}, w.Options)
}

func TestNoteCompletionSectionTitlesDeduplicated(t *testing.T) {
	qa := question("q1", 1, models.FillInBlank)
	qa.QuestionContent.SectionTitle = "Facilities"
	qb := question("q2", 2, models.FillInBlank)
	qb.QuestionContent.SectionTitle = "Facilities"
	qc := question("q3", 3, models.FillInBlank)
	qc.QuestionContent.SectionTitle = "Opening hours"

	g := Group{
		BlockType: models.BlockNoteCompletion,
		Content:   models.BlockContent{MainTitle: "Community centre"},
		Questions: []models.Question{qa, qb, qc},
	}

	view := BuildGroupView(g, nil)
	require.Len(t, view.Items, 3)
	assert.Equal(t, "Facilities", view.Items[0].SectionTitle)
	assert.Empty(t, view.Items[1].SectionTitle, "repeated section title renders once")
	assert.Equal(t, "Opening hours", view.Items[2].SectionTitle)
	assert.Equal(t, "Community centre", view.MainTitle)
}

func TestTableCompletionRendersTableOnce(t *testing.T) {
	table := "<table><tr><td>Year</td><td>____</td></tr></table>"
	qa := question("q1", 1, models.TableCompletion)
	qa.QuestionContent.Text = table
	qb := question("q2", 2, models.TableCompletion)
	qb.QuestionContent.Text = table

	view := BuildGroupView(Group{Type: models.TableCompletion, Questions: []models.Question{qa, qb}, StartNum: 1}, nil)
	assert.Equal(t, table, view.TableHTML)
	require.Len(t, view.Items, 2)
	for _, item := range view.Items {
		assert.Equal(t, []Segment{{Blank: true}}, item.Widget.Segments)
	}
}

func TestPlanMapDiagramView(t *testing.T) {
	q := question("q6", 6, models.Matching)
	g := Group{
		BlockType: models.BlockPlanMapDiagramLabeling,
		Content: models.BlockContent{
			ImageURL: "https://cdn.example.com/map.png",
			Options:  []models.BlockOption{{Letter: "A"}, {Letter: "B"}},
		},
		Questions: []models.Question{q},
	}

	view := BuildGroupView(g, map[string]models.Answer{"q6": models.SingleAnswer("B")})
	assert.Equal(t, "https://cdn.example.com/map.png", view.ImageURL)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "B", view.Items[0].Widget.Value)
}

func TestMatchingFeaturesBlockDefaultOptionsTitle(t *testing.T) {
	g := Group{
		BlockType: models.BlockMatchingFeatures,
		Content:   models.BlockContent{Options: []models.BlockOption{{Letter: "A", Text: "x"}}},
		Questions: []models.Question{question("q7", 7, models.MatchingFeatures)},
	}

	view := BuildGroupView(g, nil)
	assert.Equal(t, "Options", view.OptionsTitle)
}
