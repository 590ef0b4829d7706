package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name           string
		result         Result
		indexAvailable bool
		want           Route
	}{
		{name: "faq", result: Result{QuestionType: TypeFAQ, FAQCanAnswer: true}, indexAvailable: true, want: RouteFAQ},
		{name: "reviews with index", result: Result{QuestionType: TypeReviews}, indexAvailable: true, want: RouteReviews},
		{name: "reviews without index escalates", result: Result{QuestionType: TypeReviews}, want: RouteEscalate},
		{name: "reviews without index falls to faq", result: Result{QuestionType: TypeReviews, FAQCanAnswer: true}, want: RouteFAQ},
		{name: "both prefers faq", result: Result{QuestionType: TypeBoth, FAQCanAnswer: true, IsReviewsQuestion: true}, indexAvailable: true, want: RouteFAQ},
		{name: "both without faq uses reviews", result: Result{QuestionType: TypeBoth, IsReviewsQuestion: true}, indexAvailable: true, want: RouteReviews},
		{name: "both with nothing escalates", result: Result{QuestionType: TypeBoth}, want: RouteEscalate},
		{name: "neither escalates", result: Result{QuestionType: TypeNeither, FAQCanAnswer: true}, indexAvailable: true, want: RouteEscalate},
		{name: "unknown escalates", result: Result{QuestionType: "other"}, indexAvailable: true, want: RouteEscalate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.result, tt.indexAvailable))
		})
	}
}

func TestResolve_NeverReviewsWithoutIndex(t *testing.T) {
	for _, qt := range []QuestionType{TypeFAQ, TypeReviews, TypeBoth, TypeNeither} {
		for _, faq := range []bool{true, false} {
			for _, rev := range []bool{true, false} {
				r := Result{QuestionType: qt, FAQCanAnswer: faq, IsReviewsQuestion: rev}
				assert.NotEqual(t, RouteReviews, Resolve(r, false), "type=%s faq=%v reviews=%v", qt, faq, rev)
			}
		}
	}
}
