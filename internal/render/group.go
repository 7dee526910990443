// Package render maps test parts to the view models the client draws:
// question groups with instructional context, and one controlled widget per
// question. It owns no state; answers flow in, views flow out.
package render

import (
	"github.com/ielts-prep/session-service/internal/models"
)

// Group is one renderable cluster of questions sharing an instructional
// context. BlockType is set for data-driven listening layouts; legacy
// reading groups carry Type instead.
type Group struct {
	BlockType  models.BlockType
	Content    models.BlockContent
	Type       models.QuestionType
	Questions  []models.Question
	StartNum   int
	PartNumber int
}

// EndNum returns the last question number in the group.
func (g Group) EndNum() int {
	if len(g.Questions) == 0 {
		return g.StartNum
	}
	return g.Questions[len(g.Questions)-1].QuestionNumber
}

// BuildGroups splits a part's questions into instructional groups. Parts
// with a section layout group by its blocks; block question numbers that do
// not resolve to a question in the part are dropped. Otherwise consecutive
// questions of the same type form one legacy group.
func BuildGroups(part models.TestPart) []Group {
	if len(part.Questions) == 0 {
		return nil
	}

	if part.SectionLayout != nil && len(part.SectionLayout.Blocks) > 0 {
		return groupsFromLayout(part)
	}
	return groupsByType(part)
}

func groupsFromLayout(part models.TestPart) []Group {
	byNumber := make(map[int]models.Question, len(part.Questions))
	for _, q := range part.Questions {
		byNumber[q.QuestionNumber] = q
	}

	groups := make([]Group, 0, len(part.SectionLayout.Blocks))
	for _, block := range part.SectionLayout.Blocks {
		var questions []models.Question
		for _, num := range block.QuestionNumbers {
			if q, ok := byNumber[num]; ok {
				questions = append(questions, q)
			}
		}
		g := Group{
			BlockType:  block.BlockType,
			Content:    block.Content,
			Questions:  questions,
			PartNumber: part.PartNumber,
		}
		if len(questions) > 0 {
			g.StartNum = questions[0].QuestionNumber
		}
		groups = append(groups, g)
	}
	return groups
}

func groupsByType(part models.TestPart) []Group {
	unique := dedupeByID(part.Questions)
	if len(unique) == 0 {
		return nil
	}

	var groups []Group
	current := Group{
		Type:       unique[0].QuestionType,
		Questions:  []models.Question{unique[0]},
		StartNum:   unique[0].QuestionNumber,
		PartNumber: part.PartNumber,
	}
	for _, q := range unique[1:] {
		if q.QuestionType == current.Type {
			current.Questions = append(current.Questions, q)
			continue
		}
		groups = append(groups, current)
		current = Group{
			Type:       q.QuestionType,
			Questions:  []models.Question{q},
			StartNum:   q.QuestionNumber,
			PartNumber: part.PartNumber,
		}
	}
	return append(groups, current)
}

func dedupeByID(questions []models.Question) []models.Question {
	seen := make(map[string]bool, len(questions))
	out := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}
