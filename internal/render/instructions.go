package render

import (
	"fmt"

	"github.com/ielts-prep/session-service/internal/models"
)

// Instructions is the instructional header rendered above a question group.
type Instructions struct {
	Heading string   `json:"heading"`
	Body    string   `json:"body,omitempty"`
	Legend  []string `json:"legend,omitempty"`
	Options []string `json:"options,omitempty"`
}

// instructionFunc builds the legacy instruction text for one question type.
type instructionFunc func(g Group) Instructions

// legacyInstructions is total over the supported question types; anything
// missing falls back to a bare "Questions N–M" heading.
var legacyInstructions = map[models.QuestionType]instructionFunc{
	models.FillInBlank: func(g Group) Instructions {
		return Instructions{
			Heading: questionsHeading(g),
			Body:    fmt.Sprintf("Complete the notes below. Choose %s from the passage for each answer.", wordLimitPhrase(g, 1)),
		}
	},
	models.SummaryCompletion: func(g Group) Instructions {
		return Instructions{
			Heading: questionsHeading(g),
			Body:    fmt.Sprintf("Complete the summary below. Choose %s from the passage for each answer.", wordLimitPhrase(g, 2)),
		}
	},
	models.TableCompletion: func(g Group) Instructions {
		return Instructions{
			Heading: questionsHeading(g),
			Body:    fmt.Sprintf("Complete the table below. Choose %s from the passage for each answer.", wordLimitPhrase(g, 2)),
		}
	},
	models.TrueFalseNotGiven: func(g Group) Instructions {
		return Instructions{
			Heading: questionsHeading(g),
			Body:    fmt.Sprintf("Do the following statements agree with the information given in Reading Passage %d?", g.PartNumber),
			Legend: []string{
				"TRUE if the statement agrees with the information",
				"FALSE if the statement contradicts the information",
				"NOT GIVEN if there is no information on this",
			},
		}
	},
	models.YesNoNotGiven: func(g Group) Instructions {
		return Instructions{
			Heading: questionsHeading(g),
			Body:    fmt.Sprintf("Do the following statements agree with the views of the writer in Reading Passage %d?", g.PartNumber),
			Legend: []string{
				"YES if the statement agrees with the views of the writer",
				"NO if the statement contradicts the views of the writer",
				"NOT GIVEN if it is impossible to say what the writer thinks about this",
			},
		}
	},
	models.SummaryCompletionOptions: func(g Group) Instructions {
		options := groupOptionList(g)
		return Instructions{
			Heading: questionsHeading(g),
			Body:    fmt.Sprintf("Complete the summary using the list of words, A–%s, below.", trailingLetter(len(options))),
			Options: options,
		}
	},
	models.MatchingInformation: func(g Group) Instructions {
		options := groupOptionList(g)
		return Instructions{
			Heading: questionsHeading(g),
			Body: fmt.Sprintf("Reading Passage %d has several paragraphs, A–%s. Which paragraph contains the following information?",
				g.PartNumber, trailingLetter(len(options))),
			Options: options,
		}
	},
	models.MatchingHeadings: func(g Group) Instructions {
		return Instructions{
			Heading: questionsHeading(g),
			Body:    "Choose the correct heading for each paragraph from the list of headings below.",
			Options: groupOptionList(g),
		}
	},
	models.Matching: func(g Group) Instructions {
		options := groupOptionList(g)
		return Instructions{
			Heading: questionsHeading(g),
			Body:    fmt.Sprintf("Match each statement with the correct option, A–%s.", trailingLetter(len(options))),
			Options: options,
		}
	},
	models.MatchingFeatures: func(g Group) Instructions {
		options := groupOptionList(g)
		return Instructions{
			Heading: questionsHeading(g),
			Body:    fmt.Sprintf("Match each statement with the correct feature, A–%s. You may use any letter more than once.", trailingLetter(len(options))),
			Options: options,
		}
	},
	models.MultipleChoice: func(g Group) Instructions {
		options := groupOptionList(g)
		return Instructions{
			Heading: questionsHeading(g),
			Body:    fmt.Sprintf("Choose the correct letter, A, B, C or %s.", trailingLetter(len(options))),
		}
	},
	models.MultipleChoiceMultipleAnswers: func(g Group) Instructions {
		options := groupOptionList(g)
		return Instructions{
			Heading: questionsHeading(g),
			Body:    fmt.Sprintf("Choose TWO letters, A–%s.", trailingLetter(len(options))),
		}
	},
}

// ForGroup resolves the instructional header for a group. Data-driven
// blocks carry their own text; legacy groups go through the lookup table.
func ForGroup(g Group) Instructions {
	if g.Content.Title != "" || g.Content.InstructionsText != "" {
		return Instructions{Heading: g.Content.Title, Body: g.Content.InstructionsText}
	}
	if build, ok := legacyInstructions[g.Type]; ok {
		return build(g)
	}
	return Instructions{Heading: questionsHeading(g)}
}

func questionsHeading(g Group) string {
	start, end := g.StartNum, g.EndNum()
	if start == end {
		return fmt.Sprintf("Question %d", start)
	}
	return fmt.Sprintf("Questions %d–%d", start, end)
}

// trailingLetter maps an option count to its last letter: 8 options → "H".
// Empty or absurd option lists fall back to "D", the most common layout.
func trailingLetter(count int) string {
	if count < 1 || count > 26 {
		return "D"
	}
	return string(rune('A' + count - 1))
}

func groupOptionList(g Group) []string {
	for _, q := range g.Questions {
		if len(q.QuestionContent.Options) > 0 {
			return q.QuestionContent.Options
		}
	}
	return nil
}

func wordLimitPhrase(g Group, fallback int) string {
	limit := fallback
	for _, q := range g.Questions {
		if q.QuestionContent.WordLimit > 0 {
			limit = q.QuestionContent.WordLimit
			break
		}
	}
	switch limit {
	case 1:
		return "ONE WORD ONLY"
	case 2:
		return "NO MORE THAN TWO WORDS"
	case 3:
		return "NO MORE THAN THREE WORDS"
	default:
		return fmt.Sprintf("NO MORE THAN %d WORDS", limit)
	}
}
