package docgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReviewCopy_HeaderCarriesFrontMatter(t *testing.T) {
	rendered, err := RenderReviewCopy(ReviewCopyData{
		ManuscriptID: "b2f6d2a0-0000-0000-0000-000000000001",
		Title:        "Tidal Energy Capture in Estuarine Systems",
		Authors:      "Ada Lovelace, Charles Babbage",
		ArticleType:  "research",
		Abstract:     "A field study of estuarine turbine placement.",
		Keywords:     "tidal, energy",
		Category:     "Environmental Engineering",
		Body:         "Intro paragraph.\n\nMethods paragraph.",
		Reviewer:     "Grace Hopper",
		ReceivedDate: "January 2, 2026",
		Deadline:     "January 16, 2026",
		JournalName:  "American Impact Review",
	})
	require.NoError(t, err)

	html := string(rendered)
	assert.Contains(t, html, "Tidal Energy Capture in Estuarine Systems")
	assert.Contains(t, html, "Ada Lovelace, Charles Babbage")
	assert.Contains(t, html, "Article type: research")
	assert.Contains(t, html, "Assigned reviewer: Grace Hopper")
	assert.Contains(t, html, "Received: January 2, 2026")
	assert.Contains(t, html, "Review deadline: January 16, 2026")
	assert.Contains(t, html, "Category: Environmental Engineering")
	assert.Contains(t, html, "tidal, energy")
	assert.Contains(t, html, "Methods paragraph.")
}

func TestRenderReviewCopy_EmptyAuthorsOmitted(t *testing.T) {
	rendered, err := RenderReviewCopy(ReviewCopyData{
		ManuscriptID: "b2f6d2a0-0000-0000-0000-000000000002",
		Title:        "Untitled Draft",
		Abstract:     "Abstract only.",
		Reviewer:     "Grace Hopper",
		Deadline:     "to be agreed",
		JournalName:  "American Impact Review",
	})
	require.NoError(t, err)
	assert.NotContains(t, string(rendered), `margin-top:6px;"></div>`)
}
