package corpus

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ReviewRecord is one structured customer review.
// ReviewID is 1-based and follows parse order, so it is stable for the process lifetime.
type ReviewRecord struct {
	ReviewID int
	Product  string
	Rating   string // Free-form, not guaranteed numeric
	Date     string // Free-form
	Content  string // Narrative text, lines joined with single spaces
}

// Empty reports whether the record carries no retrievable text.
func (r ReviewRecord) Empty() bool {
	return strings.TrimSpace(r.Content) == ""
}

// fieldPattern matches "**Product:** value" and the "**Product**: value" variant.
var fieldPattern = regexp.MustCompile(`(?i)^\*\*\s*(product|rating|date|review)\s*:?\s*\*\*\s*:?\s*(.*)$`)

// ReviewParser extracts review records from markdown where every review starts
// at a "## Review" heading and carries bold field labels.
type ReviewParser struct {
	md goldmark.Markdown
}

// NewReviewParser creates a parser backed by goldmark.
func NewReviewParser() *ReviewParser {
	return &ReviewParser{md: goldmark.New()}
}

// Parse returns every review in document order. Records with no narrative text
// are still returned so that IDs keep matching parse order.
func (p *ReviewParser) Parse(source []byte) []ReviewRecord {
	doc := p.md.Parser().Parse(text.NewReader(source))

	sections := reviewSections(doc, source)
	records := make([]ReviewRecord, 0, len(sections))
	for i, body := range sections {
		record := parseFields(body)
		record.ReviewID = i + 1
		records = append(records, record)
	}
	return records
}

// reviewSections returns the raw body of each "## Review" section. A section runs
// until the next ATX heading of level 1 or 2, or to the end of the document.
func reviewSections(doc ast.Node, source []byte) [][]byte {
	type boundary struct {
		start    int // first byte of the heading line
		bodyFrom int // first byte after the heading line
		review   bool
	}

	var bounds []boundary
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level > 2 || heading.Lines().Len() == 0 {
			continue
		}

		seg := heading.Lines().At(0)
		start := lineStart(source, seg.Start)
		if !bytes.HasPrefix(bytes.TrimLeft(source[start:], " "), []byte("#")) {
			// Setext headings are usually a stray "---" under review text.
			continue
		}

		title := strings.TrimSpace(headingText(heading, source))
		bounds = append(bounds, boundary{
			start:    start,
			bodyFrom: lineEnd(source, seg.Stop),
			review:   heading.Level == 2 && strings.HasPrefix(strings.ToLower(title), "review"),
		})
	}

	var sections [][]byte
	for i, b := range bounds {
		if !b.review {
			continue
		}
		end := len(source)
		if i+1 < len(bounds) {
			end = bounds[i+1].start
		}
		if b.bodyFrom > end {
			b.bodyFrom = end
		}
		sections = append(sections, source[b.bodyFrom:end])
	}
	return sections
}

// parseFields reads the labelled fields of a single review body.
// Lines after "**Review:**" that are not themselves fields belong to the narrative.
// Fenced code is skipped entirely.
func parseFields(body []byte) ReviewRecord {
	var record ReviewRecord
	var narrative []string
	inReview, inFence := false, false

	for _, raw := range bytes.Split(body, []byte("\n")) {
		line := strings.TrimSpace(string(raw))
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence || line == "" || isRule(line) {
			continue
		}

		if m := fieldPattern.FindStringSubmatch(line); m != nil {
			value := strings.TrimSpace(m[2])
			inReview = false
			switch strings.ToLower(m[1]) {
			case "product":
				record.Product = value
			case "rating":
				record.Rating = value
			case "date":
				record.Date = value
			case "review":
				inReview = true
				if value != "" {
					narrative = append(narrative, value)
				}
			}
			continue
		}

		if inReview {
			narrative = append(narrative, line)
		}
	}

	record.Content = strings.Join(narrative, " ")
	return record
}

// headingText concatenates the inline text of a heading.
func headingText(n ast.Node, source []byte) string {
	var buf strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func isRule(line string) bool {
	trimmed := strings.ReplaceAll(line, " ", "")
	if len(trimmed) < 3 {
		return false
	}
	return strings.Trim(trimmed, "-") == "" || strings.Trim(trimmed, "=") == "" ||
		strings.Trim(trimmed, "*") == "" || strings.Trim(trimmed, "_") == ""
}

func lineStart(source []byte, pos int) int {
	if pos > len(source) {
		pos = len(source)
	}
	for pos > 0 && source[pos-1] != '\n' {
		pos--
	}
	return pos
}

func lineEnd(source []byte, pos int) int {
	for pos < len(source) && source[pos] != '\n' {
		pos++
	}
	if pos < len(source) {
		pos++
	}
	return pos
}
