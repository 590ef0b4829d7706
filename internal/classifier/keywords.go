package classifier

import "strings"

// reviewKeywords is the vocabulary that marks a question as being about customer opinion.
var reviewKeywords = []string{
	"review",
	"rating",
	"feedback",
	"experience",
	"satisfied",
	"satisfaction",
	"disappointed",
	"recommend",
	"quality",
	"opinion",
	"customers think",
	"customers say",
	"people say",
	"happy with",
	"complain",
	"worth it",
}

// MatchesReviewKeywords reports whether question mentions any review vocabulary.
// Matching is a case-insensitive substring test.
func MatchesReviewKeywords(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range reviewKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
