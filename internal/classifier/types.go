// Package classifier decides whether a customer question is answered from the FAQ,
// from customer reviews, or escalated to a human.
package classifier

// QuestionType is the classifier's verdict on what can answer a question.
type QuestionType string

const (
	TypeFAQ     QuestionType = "faq"
	TypeReviews QuestionType = "reviews"
	TypeBoth    QuestionType = "both"
	TypeNeither QuestionType = "neither"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeFAQ, TypeReviews, TypeBoth, TypeNeither:
		return true
	}
	return false
}

// DegradedConfidence is assigned to every fallback classification.
const DegradedConfidence = 0.5

// Result is one classification, produced fresh per question.
type Result struct {
	FAQCanAnswer      bool         `json:"faq_can_answer"`
	IsReviewsQuestion bool         `json:"is_reviews_question"`
	QuestionType      QuestionType `json:"question_type"`
	Confidence        float64      `json:"confidence"`

	// Degraded is set when the result came from the keyword fallback.
	Degraded bool `json:"-"`
}

// Route is where the controller sends a question.
type Route string

const (
	RouteFAQ      Route = "faq"
	RouteReviews  Route = "reviews"
	RouteEscalate Route = "escalate"
)

// Resolve turns a classification into a route. FAQ answers win ties over
// review synthesis, and reviews are never chosen without an index.
func Resolve(r Result, indexAvailable bool) Route {
	switch r.QuestionType {
	case TypeFAQ:
		return RouteFAQ
	case TypeReviews:
		if indexAvailable {
			return RouteReviews
		}
		if r.FAQCanAnswer {
			return RouteFAQ
		}
	case TypeBoth:
		if r.FAQCanAnswer {
			return RouteFAQ
		}
		if indexAvailable {
			return RouteReviews
		}
	}
	return RouteEscalate
}
