package highlight

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ielts-prep/session-service/internal/models"
)

// Render injects highlight spans into raw HTML at the character offsets of
// its plain-text projection. The non-highlighted markup and the visible text
// are preserved exactly; only <span> wrappers are added.
//
// Highlights are applied in ascending start-offset order so overlapping
// ranges resolve deterministically: a later-applied span nests inside (or
// sits adjacent to) an earlier one. Degenerate ranges and ranges reaching
// outside the content bounds — even partially — are skipped whole rather
// than clipped or reported, so one bad highlight never breaks the passage.
func Render(source string, highlights []models.Highlight) (string, error) {
	if source == "" || len(highlights) == 0 {
		return source, nil
	}

	root, err := parseFragment(source)
	if err != nil {
		return "", err
	}

	ordered := append([]models.Highlight(nil), highlights...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].StartOffset != ordered[j].StartOffset {
			return ordered[i].StartOffset < ordered[j].StartOffset
		}
		if ordered[i].EndOffset != ordered[j].EndOffset {
			return ordered[i].EndOffset < ordered[j].EndOffset
		}
		return ordered[i].ID < ordered[j].ID
	})

	total := 0
	for _, node := range textNodes(root) {
		total += len(node.Data)
	}
	for _, h := range ordered {
		if h.StartOffset < 0 || h.StartOffset >= h.EndOffset || h.EndOffset > total {
			continue
		}
		applyToTree(root, h)
	}

	return serialize(root)
}

// PlainText returns the text content of an HTML fragment with tags stripped,
// in document order. Offsets stored on highlights index into this string.
func PlainText(source string) (string, error) {
	root, err := parseFragment(source)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, node := range textNodes(root) {
		sb.WriteString(node.Data)
	}
	return sb.String(), nil
}

// TextRuns returns the ordered plain-text runs of an HTML fragment, one per
// text node. The selection controller computes character offsets against
// this projection.
func TextRuns(source string) ([]string, error) {
	root, err := parseFragment(source)
	if err != nil {
		return nil, err
	}
	nodes := textNodes(root)
	runs := make([]string, len(nodes))
	for i, node := range nodes {
		runs[i] = node.Data
	}
	return runs, nil
}

func parseFragment(source string) (*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	children, err := html.ParseFragment(strings.NewReader(source), ctx)
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, child := range children {
		root.AppendChild(child)
	}
	return root, nil
}

func serialize(root *html.Node) (string, error) {
	var sb strings.Builder
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&sb, child); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func textNodes(root *html.Node) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			nodes = append(nodes, n)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return nodes
}

// applyToTree wraps the sub-ranges of text nodes intersecting
// [h.StartOffset, h.EndOffset) in highlight spans. The node list is walked
// against a running plain-text offset; splitting a node never disturbs the
// offsets of the nodes after it.
func applyToTree(root *html.Node, h models.Highlight) {
	offset := 0
	for _, node := range textNodes(root) {
		nodeStart := offset
		nodeEnd := nodeStart + len(node.Data)
		offset = nodeEnd

		if nodeEnd <= h.StartOffset {
			continue
		}
		if nodeStart >= h.EndOffset {
			break
		}

		from := max(h.StartOffset, nodeStart) - nodeStart
		to := min(h.EndOffset, nodeEnd) - nodeStart
		if from >= to {
			continue
		}
		wrapTextRange(node, from, to, h)
	}
}

// wrapTextRange splits node.Data at [from, to) and replaces the node with
// up to three siblings: leading text, the highlight span, trailing text.
func wrapTextRange(node *html.Node, from, to int, h models.Highlight) {
	parent := node.Parent
	if parent == nil {
		return
	}

	span := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr: []html.Attribute{
			{Key: "class", Val: "highlighted-text"},
			{Key: "data-highlight-id", Val: h.ID},
		},
	}
	if style := styleAttr(h.Style); style != "" {
		span.Attr = append(span.Attr, html.Attribute{Key: "style", Val: style})
	}
	span.AppendChild(&html.Node{Type: html.TextNode, Data: node.Data[from:to]})

	if from > 0 {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: node.Data[:from]}, node)
	}
	parent.InsertBefore(span, node)
	if to < len(node.Data) {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: node.Data[to:]}, node)
	}
	parent.RemoveChild(node)
}

func styleAttr(style map[string]string) string {
	if len(style) == 0 {
		return ""
	}
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + style[k]
	}
	return strings.Join(parts, "; ")
}
