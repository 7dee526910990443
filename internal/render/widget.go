package render

import (
	"regexp"
	"strings"

	"github.com/ielts-prep/session-service/internal/models"
)

// blankMarker is the placeholder completion templates use for the inline
// answer input.
const blankMarker = "____"

type WidgetKind string

const (
	KindTextInput     WidgetKind = "TEXT_INPUT"
	KindRadioGroup    WidgetKind = "RADIO_GROUP"
	KindCheckboxGroup WidgetKind = "CHECKBOX_GROUP"
	KindSelect        WidgetKind = "SELECT"
)

// Segment is one piece of a completion template: literal text, an inline
// blank input, or an emphasized numeric token.
type Segment struct {
	Text    string `json:"text,omitempty"`
	Blank   bool   `json:"blank,omitempty"`
	Numeric bool   `json:"numeric,omitempty"`
}

// WidgetView is the controlled view of one question's interactive control.
// Value/Values always mirror the answer map entry; a widget never carries
// state of its own that could diverge from it.
type WidgetView struct {
	QuestionID     string     `json:"questionId"`
	QuestionNumber int        `json:"questionNumber"`
	Kind           WidgetKind `json:"kind"`
	Prompt         string     `json:"prompt,omitempty"`
	Segments       []Segment  `json:"segments,omitempty"`
	Options        []string   `json:"options,omitempty"`
	Value          string     `json:"value,omitempty"`
	Values         []string   `json:"values,omitempty"`
}

var (
	tfnOptions = []string{"TRUE", "FALSE", "NOT GIVEN"}
	ynnOptions = []string{"YES", "NO", "NOT GIVEN"}
)

// BuildWidget maps one question plus its current answer to a controlled
// widget view. groupOptions, when present, supply the lettered choices
// shared by the whole block.
func BuildWidget(q models.Question, answer models.Answer, groupOptions []models.BlockOption) WidgetView {
	w := WidgetView{
		QuestionID:     q.ID,
		QuestionNumber: q.QuestionNumber,
	}

	switch q.QuestionType {
	case models.FillInBlank, models.SummaryCompletion, models.SummaryCompletionOptions, models.TableCompletion:
		w.Kind = KindTextInput
		w.Segments = splitTemplate(q.QuestionContent.Text)
		w.Value = answer.Value

	case models.TrueFalseNotGiven:
		w.Kind = KindRadioGroup
		w.Prompt = q.QuestionContent.Text
		w.Options = tfnOptions
		w.Value = answer.Value

	case models.YesNoNotGiven:
		w.Kind = KindRadioGroup
		w.Prompt = q.QuestionContent.Text
		w.Options = ynnOptions
		w.Value = answer.Value

	case models.MultipleChoice:
		w.Kind = KindRadioGroup
		w.Prompt = q.QuestionContent.Text
		w.Options = q.QuestionContent.Options
		w.Value = answer.Value

	case models.MultipleChoiceMultipleAnswers:
		w.Kind = KindCheckboxGroup
		w.Prompt = q.QuestionContent.Text
		w.Options = q.QuestionContent.Options
		w.Values = append([]string(nil), answer.Values...)

	case models.Matching, models.MatchingInformation, models.MatchingFeatures, models.MatchingHeadings:
		w.Kind = KindSelect
		w.Prompt = q.QuestionContent.Text
		w.Options = selectOptions(q, groupOptions)
		w.Value = answer.Value

	default:
		// Unknown types degrade to a free-text input over the raw prompt.
		w.Kind = KindTextInput
		w.Segments = splitTemplate(q.QuestionContent.Text)
		w.Value = answer.Value
	}

	return w
}

func selectOptions(q models.Question, groupOptions []models.BlockOption) []string {
	if len(q.QuestionContent.Options) > 0 {
		return q.QuestionContent.Options
	}
	letters := make([]string, len(groupOptions))
	for i, opt := range groupOptions {
		letters[i] = opt.Letter
	}
	return letters
}

var numericToken = regexp.MustCompile(`\d+(?:[.,:]\d+)*`)

// splitTemplate splits a completion template around blank markers and marks
// numeric tokens in the surrounding text for emphasis.
func splitTemplate(text string) []Segment {
	if text == "" {
		return []Segment{{Blank: true}}
	}

	var segments []Segment
	pieces := strings.Split(text, blankMarker)
	for i, piece := range pieces {
		segments = append(segments, emphasizeNumbers(piece)...)
		if i < len(pieces)-1 {
			segments = append(segments, Segment{Blank: true})
		}
	}
	return segments
}

func emphasizeNumbers(text string) []Segment {
	if text == "" {
		return nil
	}

	var segments []Segment
	last := 0
	for _, loc := range numericToken.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: text[loc[0]:loc[1]], Numeric: true})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}
