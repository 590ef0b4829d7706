package corpus

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

// FAQ is the static reference text used to answer policy and procedure questions.
// It is loaded once at startup and never mutated.
type FAQ struct {
	Text     string   // Raw markdown, used verbatim as grounding context
	Sections []string // Heading outline: "Shipping", "Shipping > International", ...
	Found    bool     // False when the placeholder text is in use
}

// NewFAQ wraps raw FAQ text and extracts its heading outline.
func NewFAQ(source string) FAQ {
	return FAQ{
		Text:     source,
		Sections: outline([]byte(source)),
		Found:    true,
	}
}

// MissingFAQ returns the placeholder used when the FAQ source cannot be read.
func MissingFAQ(path string) FAQ {
	return FAQ{
		Text: fmt.Sprintf("FAQ data not found. Please make sure %s exists.", filepath.Base(path)),
	}
}

// Excerpt returns at most maxChars characters from the start of the FAQ.
// The cut never splits a multi-byte character.
func (f FAQ) Excerpt(maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(f.Text) <= maxChars {
		return f.Text
	}

	count := 0
	for i := range f.Text {
		if count == maxChars {
			return f.Text[:i]
		}
		count++
	}
	return f.Text
}

// outline walks the heading tree down to H3 and flattens it into "A > B" paths.
func outline(source []byte) []string {
	md := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	doc := md.Parser().Parse(text.NewReader(source))

	tree, err := toc.Inspect(doc, source,
		toc.MinDepth(1),
		toc.MaxDepth(3),
		toc.Compact(true),
	)
	if err != nil || tree == nil {
		return nil
	}

	var sections []string
	var walk func(items toc.Items, prefix string)
	walk = func(items toc.Items, prefix string) {
		for _, item := range items {
			title := string(item.Title)
			if prefix != "" {
				title = prefix + " > " + title
			}
			sections = append(sections, title)
			walk(item.Items, title)
		}
	}
	walk(tree.Items, "")

	return sections
}
