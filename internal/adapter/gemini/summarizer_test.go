package gemini_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tomekeeper/backend/internal/adapter/gemini"
)

func TestParseSummaryResponse_Fenced(t *testing.T) {
	text := "Here is the analysis:\n```json\n{\"summary\":\"overall\",\"sections\":[{\"start_time\":\"00:00:00\",\"end_time\":\"00:02:00\",\"summary\":\"intro\"}]}\n```\nDone."

	summary, err := gemini.ParseSummaryResponse(text)
	require.NoError(t, err)
	assert.Equal(t, "overall", summary.Summary)
	require.Len(t, summary.Sections, 1)
	assert.Equal(t, "00:00:00", summary.Sections[0].StartTime)
	assert.Equal(t, "intro", summary.Sections[0].Summary)
}

func TestParseSummaryResponse_BareJSON(t *testing.T) {
	text := `{"summary":"s","sections":[{"start_time":"00:00","end_time":"01:00","summary":"x"}]}`

	summary, err := gemini.ParseSummaryResponse(text)
	require.NoError(t, err)
	assert.Equal(t, "s", summary.Summary)
}

func TestParseSummaryResponse_Invalid(t *testing.T) {
	_, err := gemini.ParseSummaryResponse("the model rambled with no json")
	assert.Error(t, err)
}

func TestParseSummaryResponse_NoSections(t *testing.T) {
	_, err := gemini.ParseSummaryResponse(`{"summary":"s","sections":[]}`)
	assert.Error(t, err)
}
