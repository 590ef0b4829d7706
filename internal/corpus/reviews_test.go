package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReviews = `# Customer Reviews

## Review 1

**Product:** Widget Pro
**Rating:** 5/5
**Date:** 2024-03-01
**Review:** Works exactly as described.
Setup took five minutes.

---

## Review 2

**Product:** Gadget Mini
**Rating:** 2 stars
**Date:** March 2024
**Review:**
Battery died after a week.

## Review 3

**Product:** Widget Pro
**Rating:** 4
**Date:** 2024-04-11
`

func TestParse_BasicRecords(t *testing.T) {
	records := NewReviewParser().Parse([]byte(sampleReviews))
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, 1, first.ReviewID)
	assert.Equal(t, "Widget Pro", first.Product)
	assert.Equal(t, "5/5", first.Rating)
	assert.Equal(t, "2024-03-01", first.Date)
	assert.Equal(t, "Works exactly as described. Setup took five minutes.", first.Content)

	second := records[1]
	assert.Equal(t, 2, second.ReviewID)
	assert.Equal(t, "Gadget Mini", second.Product)
	assert.Equal(t, "2 stars", second.Rating)
	assert.Equal(t, "March 2024", second.Date)
	assert.Equal(t, "Battery died after a week.", second.Content)
}

func TestParse_EmptyContentKeepsID(t *testing.T) {
	records := NewReviewParser().Parse([]byte(sampleReviews))
	require.Len(t, records, 3)

	third := records[2]
	assert.Equal(t, 3, third.ReviewID)
	assert.Equal(t, "Widget Pro", third.Product)
	assert.True(t, third.Empty())
}

func TestParse_IgnoresNonReviewSections(t *testing.T) {
	input := `## Review

**Product:** Lamp
**Review:** Bright and cheap.

## Summary

Overall people like the lamp.
`
	records := NewReviewParser().Parse([]byte(input))
	require.Len(t, records, 1)
	assert.Equal(t, "Bright and cheap.", records[0].Content)
}

func TestParse_ReviewHeadingInsideCodeBlock(t *testing.T) {
	input := "## Review\n\n**Product:** Kettle\n**Review:** Boils fast.\n\n```\n## Review\n**Product:** Fake\n```\n"

	records := NewReviewParser().Parse([]byte(input))
	require.Len(t, records, 1)
	assert.Equal(t, "Kettle", records[0].Product)
}

func TestParse_AlternateLabelStyle(t *testing.T) {
	input := `## Review

**Product**: Desk Chair
**Rating**: 3/5
**Review**: Comfortable but squeaky.
`
	records := NewReviewParser().Parse([]byte(input))
	require.Len(t, records, 1)
	assert.Equal(t, "Desk Chair", records[0].Product)
	assert.Equal(t, "3/5", records[0].Rating)
	assert.Equal(t, "Comfortable but squeaky.", records[0].Content)
}

func TestParse_NoReviews(t *testing.T) {
	records := NewReviewParser().Parse([]byte("# Nothing here\n\nJust text.\n"))
	assert.Empty(t, records)
}
