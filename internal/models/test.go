// Package models holds the shared domain types of the session service.
// Everything here is plain data; behavior lives in the packages that own
// the respective lifecycle.
package models

// Skill is the exam skill being practiced. Reading and listening are the
// two skills this service runs sessions for.
type Skill string

const (
	SkillReading   Skill = "READING"
	SkillListening Skill = "LISTENING"
)

// Valid reports whether s is a skill this service knows.
func (s Skill) Valid() bool {
	return s == SkillReading || s == SkillListening
}

// QuestionType is the wire identifier of a question's interaction model.
type QuestionType string

const (
	FillInBlank                   QuestionType = "FILL_IN_BLANK"
	MultipleChoice                QuestionType = "MULTIPLE_CHOICE"
	MultipleChoiceMultipleAnswers QuestionType = "MULTIPLE_CHOICE_MULTIPLE_ANSWERS"
	Matching                      QuestionType = "MATCHING"
	MatchingInformation           QuestionType = "MATCHING_INFORMATION"
	MatchingFeatures              QuestionType = "MATCHING_FEATURES"
	MatchingHeadings              QuestionType = "MATCHING_HEADINGS"
	TrueFalseNotGiven             QuestionType = "TRUE_FALSE_NOT_GIVEN"
	YesNoNotGiven                 QuestionType = "YES_NO_NOT_GIVEN"
	SummaryCompletion             QuestionType = "SUMMARY_COMPLETION"
	SummaryCompletionOptions      QuestionType = "SUMMARY_COMPLETION_OPTIONS"
	TableCompletion               QuestionType = "TABLE_COMPLETION"
)

// MultiSelect reports whether answers to this type carry several values.
func (t QuestionType) MultiSelect() bool {
	return t == MultipleChoiceMultipleAnswers
}

// QuestionContent is the type-specific payload of a question. Text holds the
// prompt, or for completion types the template with "____" blank markers.
type QuestionContent struct {
	Text         string   `json:"text,omitempty"`
	Options      []string `json:"options,omitempty"`
	WordLimit    int      `json:"wordLimit,omitempty"`
	SectionTitle string   `json:"sectionTitle,omitempty"`
}

// Question is one answerable item within a test part.
type Question struct {
	ID              string          `json:"id"`
	QuestionNumber  int             `json:"questionNumber"`
	QuestionType    QuestionType    `json:"questionType" validate:"question_type"`
	QuestionContent QuestionContent `json:"questionContent"`
	SectionID       string          `json:"sectionId,omitempty"`
}

// BlockType identifies the layout of a section layout block.
type BlockType string

const (
	BlockNoteCompletion         BlockType = "NOTE_COMPLETION"
	BlockPlanMapDiagramLabeling BlockType = "PLAN_MAP_DIAGRAM_LABELING"
	BlockMatchingFeatures       BlockType = "MATCHING_FEATURES"
	BlockInstructionsOnly       BlockType = "INSTRUCTIONS_ONLY"
)

// BlockOption is one lettered choice shared by every question in a block.
type BlockOption struct {
	Letter string `json:"letter"`
	Text   string `json:"text,omitempty"`
}

// BlockContent carries the shared presentation data of a layout block.
type BlockContent struct {
	Title            string        `json:"title,omitempty"`
	InstructionsText string        `json:"instructionsText,omitempty"`
	MainTitle        string        `json:"mainTitle,omitempty"`
	ImageURL         string        `json:"imageUrl,omitempty"`
	OptionsTitle     string        `json:"optionsTitle,omitempty"`
	Options          []BlockOption `json:"options,omitempty"`
}

// Block groups a run of question numbers under one layout and instruction
// set. QuestionNumbers refer to Question.QuestionNumber within the part.
type Block struct {
	BlockType       BlockType    `json:"blockType"`
	Content         BlockContent `json:"content"`
	QuestionNumbers []int        `json:"questionNumbers"`
}

// SectionLayout is the authored block layout of a listening part. Parts
// without one fall back to grouping questions by consecutive type.
type SectionLayout struct {
	Blocks []Block `json:"blocks"`
}

// TestPart is one passage or recording with its questions. Reading parts
// carry PassageText; listening parts carry AudioURL and usually a
// DisplayContentURL with the transcript layout.
type TestPart struct {
	ID                string         `json:"id"`
	PartNumber        int            `json:"partNumber"`
	Questions         []Question     `json:"questions"`
	PassageText       string         `json:"passageText,omitempty"`
	AudioURL          string         `json:"audioUrl,omitempty"`
	DisplayContentURL string         `json:"displayContentUrl,omitempty"`
	SectionLayout     *SectionLayout `json:"sectionLayout,omitempty"`
}

// QuestionRange returns the lowest and highest question number in the part,
// or zeros when the part has no questions.
func (p TestPart) QuestionRange() (first, last int) {
	for _, q := range p.Questions {
		if first == 0 || q.QuestionNumber < first {
			first = q.QuestionNumber
		}
		if q.QuestionNumber > last {
			last = q.QuestionNumber
		}
	}
	return first, last
}
