package processor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomekeeper/backend/internal/extract"
	"tomekeeper/backend/internal/video"
)

func TestTextProcessorSplitsAndTags(t *testing.T) {
	content := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 4)
	path := writeTemp(t, "notes.txt", []byte(content))

	chunks, err := NewTextProcessor(extract.FamilyFlat, 100).Process(context.Background(), path)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.LessOrEqual(t, len(c.Content), 100)
		assert.Equal(t, "notes.txt", c.Metadata["file_name"])
		assert.Equal(t, path, c.Metadata["file_path"])
	}
}

func TestTextProcessorFormatError(t *testing.T) {
	path := writeTemp(t, "broken.pdf", []byte("not a pdf at all"))

	chunks, err := NewTextProcessor(extract.FamilyPDF, 0).Process(context.Background(), path)
	require.Error(t, err)
	assert.Empty(t, chunks)

	var formatErr *extract.FormatError
	assert.ErrorAs(t, err, &formatErr)
}

type stubAudioTool struct{}

func (stubAudioTool) ExtractAudio(_ context.Context, _, outPath string) error {
	return os.WriteFile(outPath, []byte("wav"), 0o644)
}

func (stubAudioTool) SplitAudio(_ context.Context, _, outDir string, _ int) ([]string, error) {
	path := filepath.Join(outDir, "segment_00000.wav")
	return []string{path}, os.WriteFile(path, []byte("wav"), 0o644)
}

type stubTranscriber struct{}

func (stubTranscriber) Transcribe(context.Context, string) ([]video.Segment, error) {
	return []video.Segment{{Text: "welcome everyone", Start: 0, End: 30}}, nil
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(context.Context, string) (*video.Summary, error) {
	return &video.Summary{
		Summary: "an introduction",
		Sections: []video.Section{
			{StartTime: "00:00:00", EndTime: "00:01:00", Summary: "opening remarks"},
		},
	}, nil
}

func TestVideoProcessorEmitsSectionChunks(t *testing.T) {
	pipeline := video.NewPipeline(stubAudioTool{}, stubTranscriber{}, stubSummarizer{}, 100, 2, time.Minute)
	videoPath := writeTemp(t, "talk.mp4", []byte{0, 0, 0, 0x18})

	chunks, err := NewVideoProcessor(pipeline).Process(context.Background(), videoPath)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	chunk := chunks[0]
	assert.Equal(t, 0, chunk.Index)
	assert.Equal(t, "opening remarks", chunk.Content)
	assert.Equal(t, "talk.mp4", chunk.Metadata["file_name"])
	assert.Equal(t, "an introduction", chunk.Metadata["video_summary"])
	assert.Equal(t, "welcome everyone", chunk.Metadata["transcript"])
}
