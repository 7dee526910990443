package render

import (
	"github.com/ielts-prep/session-service/internal/models"
)

// Item is one question inside a group view. SectionTitle is set only when a
// note-completion section heading changes between consecutive questions.
type Item struct {
	SectionTitle string     `json:"sectionTitle,omitempty"`
	Widget       WidgetView `json:"widget"`
}

// GroupView is the fully resolved rendering of one question group.
type GroupView struct {
	Instructions Instructions         `json:"instructions"`
	BlockType    models.BlockType     `json:"blockType,omitempty"`
	MainTitle    string               `json:"mainTitle,omitempty"`
	ImageURL     string               `json:"imageUrl,omitempty"`
	OptionsTitle string               `json:"optionsTitle,omitempty"`
	Options      []models.BlockOption `json:"options,omitempty"`
	TableHTML    string               `json:"tableHtml,omitempty"`
	Items        []Item               `json:"items"`
}

// groupBuilder renders the body of one group variant.
type groupBuilder func(g Group, answers map[string]models.Answer) GroupView

// groupBuilders resolves each block variant to its handler once per render
// instead of branching through nested conditionals.
var groupBuilders = map[models.BlockType]groupBuilder{
	models.BlockNoteCompletion:         buildNoteCompletion,
	models.BlockPlanMapDiagramLabeling: buildPlanMapDiagram,
	models.BlockMatchingFeatures:       buildMatchingFeaturesBlock,
	models.BlockInstructionsOnly:       buildPlainList,
}

// BuildGroupView resolves a group to its view: data-driven blocks through
// the builder table, legacy reading groups through type-specific fallbacks.
func BuildGroupView(g Group, answers map[string]models.Answer) GroupView {
	if build, ok := groupBuilders[g.BlockType]; ok {
		return build(g, answers)
	}
	if len(g.Questions) > 0 && g.Questions[0].QuestionType == models.TableCompletion {
		return buildTableCompletion(g, answers)
	}
	return buildPlainList(g, answers)
}

func buildNoteCompletion(g Group, answers map[string]models.Answer) GroupView {
	view := GroupView{
		Instructions: ForGroup(g),
		BlockType:    g.BlockType,
		MainTitle:    g.Content.MainTitle,
	}

	lastSectionTitle := ""
	for _, q := range g.Questions {
		item := Item{Widget: BuildWidget(q, answers[q.ID], g.Content.Options)}
		if title := q.QuestionContent.SectionTitle; title != "" && title != lastSectionTitle {
			item.SectionTitle = title
			lastSectionTitle = title
		}
		view.Items = append(view.Items, item)
	}
	return view
}

func buildPlanMapDiagram(g Group, answers map[string]models.Answer) GroupView {
	view := GroupView{
		Instructions: ForGroup(g),
		BlockType:    g.BlockType,
		ImageURL:     g.Content.ImageURL,
		Options:      g.Content.Options,
	}
	for _, q := range g.Questions {
		view.Items = append(view.Items, Item{Widget: BuildWidget(q, answers[q.ID], g.Content.Options)})
	}
	return view
}

func buildMatchingFeaturesBlock(g Group, answers map[string]models.Answer) GroupView {
	optionsTitle := g.Content.OptionsTitle
	if optionsTitle == "" {
		optionsTitle = "Options"
	}
	view := GroupView{
		Instructions: ForGroup(g),
		BlockType:    g.BlockType,
		OptionsTitle: optionsTitle,
		Options:      g.Content.Options,
	}
	for _, q := range g.Questions {
		view.Items = append(view.Items, Item{Widget: BuildWidget(q, answers[q.ID], g.Content.Options)})
	}
	return view
}

// buildTableCompletion emits the table markup once for the whole group with
// the per-question inputs listed after it.
func buildTableCompletion(g Group, answers map[string]models.Answer) GroupView {
	view := GroupView{
		Instructions: ForGroup(g),
		TableHTML:    g.Questions[0].QuestionContent.Text,
	}
	for _, q := range g.Questions {
		w := BuildWidget(q, answers[q.ID], nil)
		// The template already lives in the shared table; inputs stand alone.
		w.Segments = []Segment{{Blank: true}}
		view.Items = append(view.Items, Item{Widget: w})
	}
	return view
}

func buildPlainList(g Group, answers map[string]models.Answer) GroupView {
	view := GroupView{
		Instructions: ForGroup(g),
		BlockType:    g.BlockType,
	}
	for _, q := range g.Questions {
		view.Items = append(view.Items, Item{Widget: BuildWidget(q, answers[q.ID], g.Content.Options)})
	}
	return view
}
